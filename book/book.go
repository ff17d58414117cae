// Package book reads a small binary opening book: fixed-size records of
// (position hash, move, weight), sorted by hash, probed before search.
package book

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"slices"

	"github.com/oboro-eng/pandacore/board"
)

// Entry is one book record. Move is the 16-bit wire encoding of board.Move;
// Weight sets the relative probability of picking this move among the
// alternatives stored for the same position.
type Entry struct {
	Key    uint64
	Move   uint16
	Weight uint16
}

// recordSize is the on-disk footprint of one entry: key(8) move(2) weight(2),
// big-endian.
const recordSize = 12

// Book is an in-memory opening book, sorted by key.
type Book struct {
	entries []Entry
}

// Load reads and sorts the book file at path.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data)%recordSize != 0 {
		return nil, fmt.Errorf("book %s: size %d is not a multiple of the record size", path, len(data))
	}

	entries := make([]Entry, 0, len(data)/recordSize)
	for off := 0; off < len(data); off += recordSize {
		entries = append(entries, Entry{
			Key:    binary.BigEndian.Uint64(data[off:]),
			Move:   binary.BigEndian.Uint16(data[off+8:]),
			Weight: binary.BigEndian.Uint16(data[off+10:]),
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		default:
			return int(b.Weight) - int(a.Weight)
		}
	})
	return &Book{entries: entries}, nil
}

// Len reports the number of book entries.
func (b *Book) Len() int { return len(b.entries) }

// Probe looks up the position hash and returns one of its book moves, chosen
// at random with probability proportional to the entry weights. The generator
// is seeded from the hash, so repeated probes of the same position draw the
// same move and runs stay reproducible.
func (b *Book) Probe(key uint64) (board.Move, bool) {
	i, found := slices.BinarySearchFunc(b.entries, key, func(e Entry, k uint64) int {
		switch {
		case e.Key < k:
			return -1
		case e.Key > k:
			return 1
		default:
			return 0
		}
	})
	if !found {
		return board.NullMove, false
	}
	// The binary search may land anywhere inside a run of equal keys; find
	// the run's bounds and its total weight.
	for i > 0 && b.entries[i-1].Key == key {
		i--
	}
	j := i
	var total int64
	for j < len(b.entries) && b.entries[j].Key == key {
		total += int64(b.entries[j].Weight)
		j++
	}
	if total == 0 {
		return board.Move(b.entries[i].Move), true
	}

	rnd := rand.New(rand.NewSource(int64(key)))
	pick := rnd.Int63n(total)
	for k := i; k < j; k++ {
		pick -= int64(b.entries[k].Weight)
		if pick < 0 {
			return board.Move(b.entries[k].Move), true
		}
	}
	return board.Move(b.entries[j-1].Move), true
}

// ProbeLegal probes the book and validates the drawn move against the
// position's legal moves; a stale or corrupt entry is reported as a miss.
func (b *Book) ProbeLegal(p *board.Position) (board.Move, bool) {
	m, ok := b.Probe(p.Hash())
	if !ok {
		return board.NullMove, false
	}
	var legal board.MoveList
	p.GenerateLegal(&legal)
	if !legal.Contains(m) {
		return board.NullMove, false
	}
	return m, true
}
