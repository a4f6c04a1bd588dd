package memory

import (
	"sync"

	"policyrag/internal/domain"
)

var _ domain.ContextIndex = (*Index)(nil)

// Index is an in-memory context index keyed by sentence text.
// Recording a sentence that is already present overwrites the entry in place,
// so the last document to contain a sentence owns it while the entry keeps
// its original position in the iteration order.
type Index struct {
	mu      sync.RWMutex
	entries []domain.ContextEntry
	slots   map[string]int
}

func NewIndex() *Index { return &Index{slots: make(map[string]int)} }

func (x *Index) Record(entry domain.ContextEntry) {
	entry = cloneEntry(entry)
	x.mu.Lock()
	defer x.mu.Unlock()
	if i, ok := x.slots[entry.Sentence]; ok {
		x.entries[i] = entry
		return
	}
	x.slots[entry.Sentence] = len(x.entries)
	x.entries = append(x.entries, entry)
}

// Get returns the entry recorded for sentence.
func (x *Index) Get(sentence string) (domain.ContextEntry, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	i, ok := x.slots[sentence]
	if !ok {
		return domain.ContextEntry{}, false
	}
	return cloneEntry(x.entries[i]), true
}

// All returns a copy of every entry in first-insertion order.
func (x *Index) All() []domain.ContextEntry {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]domain.ContextEntry, len(x.entries))
	for i, e := range x.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.slots = make(map[string]int)
}

func cloneEntry(e domain.ContextEntry) domain.ContextEntry {
	e.Context = append([]string(nil), e.Context...)
	e.Topics = append([]string(nil), e.Topics...)
	return e
}
