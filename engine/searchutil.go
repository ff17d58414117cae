package engine

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/oboro-eng/pandacore/board"
)

// lmrTable[d][i] is the late-move reduction for depth d and move index i.
var lmrTable [MaxPly][64]int

func init() {
	for d := 1; d < MaxPly; d++ {
		for i := 1; i < 64; i++ {
			lmrTable[d][i] = int(math.Floor(0.75 + math.Log(float64(d))*math.Log(float64(i))/2.25))
		}
	}
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int32) bool {
	return score > Mate-MaxPly || score < -(Mate-MaxPly)
}

// MatePlies converts a mate score into signed plies from the root: positive
// when the side to move mates, negative when it is mated.
func MatePlies(score int32) int {
	if score > 0 {
		return int(Mate - score)
	}
	return -int(Mate + score)
}

// extractPV walks the transposition table from the root position, following
// stored best moves while they are legal, up to maxLen plies.
func (s *Searcher) extractPV(root *board.Position, maxLen int) []board.Move {
	pv := make([]board.Move, 0, maxLen)
	p := *root
	for len(pv) < maxLen {
		entry, ok := s.tt.Probe(p.Hash())
		if !ok || entry.Best == board.NullMove {
			break
		}
		var legal board.MoveList
		p.GenerateLegal(&legal)
		if !legal.Contains(entry.Best) {
			break
		}
		pv = append(pv, entry.Best)
		p.MakeMove(entry.Best)
	}
	return pv
}
