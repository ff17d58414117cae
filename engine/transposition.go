package engine

import (
	"unsafe"

	"github.com/oboro-eng/pandacore/board"
)

// Bound classifies a stored score relative to the window it was searched with.
type Bound uint8

const (
	boundNone Bound = iota
	Exact
	LowerBound
	UpperBound
)

// Entry is one transposition table slot. The full key is kept for collision
// detection; Gen records the search generation the entry was written in.
type Entry struct {
	Key   uint64
	Score int32
	Best  board.Move
	Depth uint8
	Flag  Bound
	Gen   uint8
}

// Table is an open-addressed, direct-mapped transposition table. The slot
// count is rounded down to a power of two so indexing is a single mask.
// It is not safe for concurrent use; the search is single-threaded.
type Table struct {
	slots []Entry
	mask  uint64
	gen   uint8
}

// NewTable allocates a table of roughly sizeMB megabytes.
func NewTable(sizeMB int) *Table {
	t := &Table{}
	t.Resize(sizeMB)
	return t
}

// Resize reallocates the table to roughly sizeMB megabytes, dropping all
// stored entries.
func (t *Table) Resize(sizeMB int) {
	entrySize := uint64(unsafe.Sizeof(Entry{}))
	n := uint64(sizeMB) * 1024 * 1024 / entrySize
	for n&(n-1) != 0 {
		n &= n - 1
	}
	if n == 0 {
		n = 1
	}
	t.slots = make([]Entry, n)
	t.mask = n - 1
	t.gen = 1
}

// Clear empties every slot and resets the generation counter.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i] = Entry{}
	}
	t.gen = 1
}

// NewSearch advances the generation counter, skipping 0 so an empty slot is
// never mistaken for a current one.
func (t *Table) NewSearch() {
	t.gen++
	if t.gen == 0 {
		t.gen = 1
	}
}

// Probe returns the entry stored for key, if any. A slot whose key differs is
// a collision and reported as a miss.
func (t *Table) Probe(key uint64) (Entry, bool) {
	e := t.slots[key&t.mask]
	if e.Flag == boundNone || e.Key != key {
		return Entry{}, false
	}
	return e, true
}

// Store writes an entry for key, subject to the replacement policy: an empty
// slot always accepts; the same position is overwritten only by equal-or-
// deeper results or an exact bound; a colliding position yields if the
// incumbent is two or more generations stale, shallower, or inexact at equal
// depth.
func (t *Table) Store(key uint64, score int32, depth uint8, flag Bound, best board.Move) {
	slot := &t.slots[key&t.mask]
	replace := false
	switch {
	case slot.Flag == boundNone:
		replace = true
	case slot.Key == key:
		replace = depth >= slot.Depth || flag == Exact
	default:
		age := t.gen - slot.Gen
		replace = age >= 2 || depth > slot.Depth ||
			(depth == slot.Depth && flag == Exact && slot.Flag != Exact)
	}
	if replace {
		*slot = Entry{Key: key, Score: score, Best: best, Depth: depth, Flag: flag, Gen: t.gen}
	}
}

// HashfullPermille reports the fill rate of the first sample slots in parts
// per thousand, for the UCI hashfull field.
func (t *Table) HashfullPermille(sample int) int {
	if sample > len(t.slots) {
		sample = len(t.slots)
	}
	if sample == 0 {
		return 0
	}
	used := 0
	for i := 0; i < sample; i++ {
		if t.slots[i].Flag != boundNone {
			used++
		}
	}
	return used * 1000 / sample
}
