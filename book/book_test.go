package book_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/oboro-eng/pandacore/board"
	"github.com/oboro-eng/pandacore/book"
)

func writeBook(t *testing.T, entries []book.Entry) string {
	t.Helper()
	buf := make([]byte, 0, len(entries)*12)
	for _, e := range entries {
		var rec [12]byte
		binary.BigEndian.PutUint64(rec[0:], e.Key)
		binary.BigEndian.PutUint16(rec[8:], e.Move)
		binary.BigEndian.PutUint16(rec[10:], e.Weight)
		buf = append(buf, rec[:]...)
	}
	path := filepath.Join(t.TempDir(), "test.book")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbeHitAndMiss(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	e4 := p.FindMove("e2e4")
	d4 := p.FindMove("d2d4")

	path := writeBook(t, []book.Entry{
		{Key: 0xDEADBEEF, Move: 1234, Weight: 1},
		{Key: p.Hash(), Move: uint16(d4), Weight: 10},
		{Key: p.Hash(), Move: uint16(e4), Weight: 50},
	})
	b, err := book.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 3 {
		t.Fatalf("loaded %d entries, want 3", b.Len())
	}

	m, ok := b.Probe(p.Hash())
	if !ok {
		t.Fatal("probe of a stored key should hit")
	}
	if m != e4 && m != d4 {
		t.Errorf("probe should draw one of the stored moves, got %v", m)
	}
	// The draw is seeded from the hash, so the same position always
	// returns the same move.
	if again, _ := b.Probe(p.Hash()); again != m {
		t.Errorf("repeated probes should be reproducible: got %v then %v", m, again)
	}
	if _, ok := b.Probe(0x1234); ok {
		t.Error("probe of an absent key should miss")
	}
}

func TestProbeRespectsWeights(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	e4 := p.FindMove("e2e4")
	d4 := p.FindMove("d2d4")

	// A zero-weight alternative must never be drawn while another entry
	// carries all the weight.
	path := writeBook(t, []book.Entry{
		{Key: p.Hash(), Move: uint16(e4), Weight: 0},
		{Key: p.Hash(), Move: uint16(d4), Weight: 40},
	})
	b, err := book.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := b.Probe(p.Hash()); !ok || m != d4 {
		t.Errorf("all the weight is on d2d4, got %v (hit=%v)", m, ok)
	}
}

func TestProbeLegalRejectsStaleMoves(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	illegal := board.NewMove(board.E2, board.E5, board.Normal)

	path := writeBook(t, []book.Entry{
		{Key: p.Hash(), Move: uint16(illegal), Weight: 100},
	})
	b, err := book.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.ProbeLegal(p); ok {
		t.Error("an illegal stored move must be reported as a miss")
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.book")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := book.Load(path); err == nil {
		t.Error("loading a truncated book should fail")
	}
}
