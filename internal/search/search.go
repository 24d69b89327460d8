// Package search scans a directory tree for file names and lines containing a
// query. Each scan carries a generation; starting a new scan supersedes the
// previous one, whose worker notices the mismatch and exits without output.
package search

import (
	"sync/atomic"

	"orbitshell/internal/config"
	"orbitshell/internal/system"
)

// BatchSize is the number of results a worker buffers before sending.
const BatchSize = 25

const queueSize = 64

// Result is one hit. Line is 1-based; 0 marks a file-name match.
type Result struct {
	Path       string
	Line       int
	Snippet    string
	IsFilename bool
}

// MessageKind tags a Message.
type MessageKind int

const (
	MessageBatch MessageKind = iota
	MessageDone
)

// Message is what workers deliver to the consumer.
type Message struct {
	Kind    MessageKind
	Gen     uint64
	Results []Result
}

// Engine starts scans and owns the channel they report on.
type Engine struct {
	accepted atomic.Uint64
	out      chan Message
}

// NewEngine returns an idle engine.
func NewEngine() *Engine {
	return &Engine{out: make(chan Message, queueSize)}
}

// Messages is the single stream all workers report on. The consumer must keep
// draining it; stale generations are filtered by Results.Apply.
func (e *Engine) Messages() <-chan Message { return e.out }

// Current is the accepted generation.
func (e *Engine) Current() uint64 { return e.accepted.Load() }

// Start supersedes any running scan and launches a new one over root.
// An empty query produces an immediate Done.
func (e *Engine) Start(root, query string, rules config.Rules) uint64 {
	gen := e.accepted.Add(1)
	w := &worker{
		gen:   gen,
		alive: func() bool { return e.accepted.Load() == gen },
		out:   e.out,
		limit: rules.SearchLimit,
	}
	system.Logger.Debug("search start", "gen", gen, "root", root, "query", query)
	go w.run(root, query, rules)
	return gen
}

// Cancel supersedes the running scan without starting another.
func (e *Engine) Cancel() { e.accepted.Add(1) }

type worker struct {
	gen   uint64
	alive func() bool
	out   chan<- Message
	limit int

	batch []Result
	total int
}

func (w *worker) run(root, query string, rules config.Rules) {
	if query != "" {
		Walk(root, query, rules, w.alive, w.push)
	}
	if !w.alive() {
		return
	}
	w.flush()
	w.out <- Message{Kind: MessageDone, Gen: w.gen}
}

func (w *worker) push(r Result) bool {
	if !w.alive() {
		return false
	}
	w.batch = append(w.batch, r)
	w.total++
	if len(w.batch) >= BatchSize {
		w.flush()
	}
	return w.limit <= 0 || w.total < w.limit
}

func (w *worker) flush() {
	if len(w.batch) == 0 {
		return
	}
	w.out <- Message{Kind: MessageBatch, Gen: w.gen, Results: w.batch}
	w.batch = nil
}
