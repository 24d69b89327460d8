package ui

import (
	"github.com/sahilm/fuzzy"

	"orbitshell/internal/editor"
)

type pickerKind int

const (
	pickBranch pickerKind = iota
	pickRecent
)

// picker is a fuzzy-filtered overlay list (branches, recent directories).
type picker struct {
	kind  pickerKind
	title string
	tab   string
	input *editor.Buffer
	all   []string
	shown []pickerRow
	index int
}

type pickerRow struct {
	value   string
	matched []int
}

func newPicker(kind pickerKind, title, tabID string, items []string) *picker {
	p := &picker{kind: kind, title: title, tab: tabID, input: editor.New(""), all: items}
	p.filter()
	return p
}

// filter recomputes the visible rows for the current input. With an empty
// input rows keep their original order; otherwise they are ranked by score.
func (p *picker) filter() {
	p.shown = p.shown[:0]
	q := p.input.Text()
	if q == "" {
		for _, v := range p.all {
			p.shown = append(p.shown, pickerRow{value: v})
		}
	} else {
		for _, mt := range fuzzy.Find(q, p.all) {
			p.shown = append(p.shown, pickerRow{value: mt.Str, matched: mt.MatchedIndexes})
		}
	}
	if p.index >= len(p.shown) {
		p.index = max(0, len(p.shown)-1)
	}
}

func (p *picker) move(step int) {
	if len(p.shown) == 0 {
		return
	}
	p.index = ((p.index+step)%len(p.shown) + len(p.shown)) % len(p.shown)
}

func (p *picker) selected() (string, bool) {
	if len(p.shown) == 0 {
		return "", false
	}
	return p.shown[p.index].value, true
}
