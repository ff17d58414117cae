package engine

import (
	"testing"

	"github.com/oboro-eng/pandacore/board"
)

func TestStartPositionIsBalanced(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	if got := Evaluate(p); got != 0 {
		t.Errorf("start position: got %d, want 0", got)
	}
}

func TestEvaluationIsSymmetric(t *testing.T) {
	// The same structure with colors mirrored must score equal and
	// opposite from White's point of view, i.e. identical from the
	// side to move's.
	white := board.MustParseFEN("4k3/8/8/8/8/8/8/4KR2 w - - 0 1")
	black := board.MustParseFEN("4kr2/8/8/8/8/8/8/4K3 b - - 0 1")
	if ws, bs := Evaluate(white), Evaluate(black); ws != bs {
		t.Errorf("mirrored positions should score equally for the mover: %d vs %d", ws, bs)
	}
}

func TestExtraRookScoresWell(t *testing.T) {
	p := board.MustParseFEN("4k3/8/8/8/8/8/8/4KR2 w - - 0 1")
	if got := Evaluate(p); got < 300 {
		t.Errorf("a clean extra rook should score at least 300, got %d", got)
	}
}

func TestSideToMovePerspective(t *testing.T) {
	p := board.MustParseFEN("4k3/8/8/8/8/8/8/4KR2 w - - 0 1")
	flipped := board.MustParseFEN("4k3/8/8/8/8/8/8/4KR2 b - - 0 1")
	if ws, bs := Evaluate(p), Evaluate(flipped); ws != -bs {
		t.Errorf("perspective flip should negate the score: %d vs %d", ws, bs)
	}
}

func TestBishopPair(t *testing.T) {
	pair := board.MustParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	single := board.MustParseFEN("4k3/8/8/8/8/8/8/4KB2 w - - 0 1")
	gain := Evaluate(pair) - Evaluate(single)
	// The second bishop is worth its material plus the pair bonus.
	if gain <= PieceValueEG[board.Bishop] {
		t.Errorf("bishop pair gain %d should exceed the bare piece value", gain)
	}
}

func TestRookOpenFileBonus(t *testing.T) {
	// Identical except the rook's file: open on f, blocked by an own pawn on h.
	open := board.MustParseFEN("4k3/7p/8/8/8/8/7P/4KR2 w - - 0 1")
	closed := board.MustParseFEN("4k3/7p/8/8/8/8/7P/4K2R w - - 0 1")
	if Evaluate(open) <= Evaluate(closed) {
		t.Error("a rook on an open file should outscore one behind its own pawn")
	}
}

func TestPassedPawnBonusGrowsWithRank(t *testing.T) {
	far := board.MustParseFEN("4k3/8/1P6/8/8/8/8/4K3 w - - 0 1")
	near := board.MustParseFEN("4k3/8/8/8/8/1P6/8/4K3 w - - 0 1")
	if Evaluate(far) <= Evaluate(near) {
		t.Error("a passed pawn on the 6th rank should outscore one on the 3rd")
	}
}

func TestNonPawnMaterial(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	want := 2*PieceValueMG[board.Knight] + 2*PieceValueMG[board.Bishop] +
		2*PieceValueMG[board.Rook] + PieceValueMG[board.Queen]
	if got := NonPawnMaterial(p, board.White); got != want {
		t.Errorf("non-pawn material: got %d, want %d", got, want)
	}
	kOnly := board.MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if got := NonPawnMaterial(kOnly, board.White); got != 0 {
		t.Errorf("bare king non-pawn material: got %d, want 0", got)
	}
}
