package engine

import (
	"github.com/oboro-eng/pandacore/board"
)

// Move ordering scores, by decreasing priority: the TT move, captures by
// MVV-LVA, the two killer slots, then the history heuristic.
const (
	ttMoveScore   int32 = 10_000_000
	captureScore  int32 = 1_000_000
	killer0Score  int32 = 900_000
	killer1Score  int32 = 800_000
)

// scoredMoves pairs a move list with per-move ordering scores; picking is an
// incremental selection sort so a cutoff never pays for a full sort.
type scoredMoves struct {
	moves  [256]board.Move
	scores [256]int32
	count  int
}

// pickNext swaps the best remaining move into position i and returns it.
func (sm *scoredMoves) pickNext(i int) board.Move {
	best := i
	for j := i + 1; j < sm.count; j++ {
		if sm.scores[j] > sm.scores[best] {
			best = j
		}
	}
	sm.moves[i], sm.moves[best] = sm.moves[best], sm.moves[i]
	sm.scores[i], sm.scores[best] = sm.scores[best], sm.scores[i]
	return sm.moves[i]
}

// capturedValue is the middlegame value of the piece m captures; en passant
// captures a pawn even though the target square is empty.
func capturedValue(p *board.Position, m board.Move) int32 {
	if m.Kind() == board.EnPassant {
		return PieceValueMG[board.Pawn]
	}
	if victim := p.PieceOn(m.To()); victim != board.NoPiece {
		return PieceValueMG[victim.Type()]
	}
	return 0
}

func (s *Searcher) scoreMoves(p *board.Position, ml *board.MoveList, ttMove board.Move, ply int) scoredMoves {
	var sm scoredMoves
	sm.count = ml.Count
	side := p.SideToMove()
	for i := 0; i < ml.Count; i++ {
		m := ml.Moves[i]
		var score int32
		switch {
		case m == ttMove && ttMove != board.NullMove:
			score = ttMoveScore
		case p.IsCapture(m):
			attacker := PieceValueMG[p.PieceOn(m.From()).Type()]
			score = captureScore + 10*capturedValue(p, m) - attacker
		case m == s.killers[ply][0]:
			score = killer0Score
		case m == s.killers[ply][1]:
			score = killer1Score
		default:
			score = s.history[side][m.From()][m.To()]
		}
		sm.moves[i] = m
		sm.scores[i] = score
	}
	return sm
}

// scoreCaptures orders quiescence moves by MVV-LVA alone.
func scoreCaptures(p *board.Position, ml *board.MoveList) scoredMoves {
	var sm scoredMoves
	sm.count = ml.Count
	for i := 0; i < ml.Count; i++ {
		m := ml.Moves[i]
		attacker := PieceValueMG[p.PieceOn(m.From()).Type()]
		sm.moves[i] = m
		sm.scores[i] = 10*capturedValue(p, m) - attacker
	}
	return sm
}

// recordKiller pushes a quiet cutoff move into the two-slot killer stack for
// the ply, shifting the previous killer down.
func (s *Searcher) recordKiller(m board.Move, ply int) {
	if s.killers[ply][0] != m {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}
