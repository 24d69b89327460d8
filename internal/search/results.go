package search

// Results is the consumer-side view of the active scan. It is owned by the
// event loop and never touched by workers.
type Results struct {
	gen     uint64
	limit   int
	items   []Result
	pending bool
}

// Begin resets the view for generation gen.
func (r *Results) Begin(gen uint64, limit int) {
	r.gen = gen
	r.limit = limit
	r.items = nil
	r.pending = true
}

// Apply folds msg into the view and reports whether it belonged to the
// active generation.
func (r *Results) Apply(msg Message) bool {
	if msg.Gen != r.gen {
		return false
	}
	switch msg.Kind {
	case MessageBatch:
		if r.limit > 0 {
			space := r.limit - len(r.items)
			if space <= 0 {
				return true
			}
			if len(msg.Results) > space {
				msg.Results = msg.Results[:space]
			}
		}
		r.items = append(r.items, msg.Results...)
	case MessageDone:
		r.pending = false
	}
	return true
}

// Gen is the active generation.
func (r *Results) Gen() uint64 { return r.gen }

// Items returns the applied results in arrival order.
func (r *Results) Items() []Result { return r.items }

// Pending reports whether the active scan has not finished.
func (r *Results) Pending() bool { return r.pending }
