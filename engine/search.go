package engine

import (
	"sync/atomic"
	"time"

	"github.com/oboro-eng/pandacore/board"
)

// Score constants. Mate scores are encoded as Mate minus the distance to the
// mate in plies, so any score beyond Mate-MaxPly is a forced mate.
const (
	Infinity int32 = 32500
	Mate     int32 = 32000
	MaxPly         = 64
)

// Pruning margins by remaining depth.
var rfpMargins = [4]int32{0, 100, 250, 400}
var futilityMargins = [4]int32{0, 200, 350, 500}

const aspirationDelta int32 = 50
const deltaPruneMargin int32 = 200
const nullMoveMaterial int32 = 400

// Info is the per-iteration search report delivered to the caller.
type Info struct {
	Depth    int
	Score    int32
	Nodes    uint64
	Time     time.Duration
	Hashfull int
	PV       []board.Move
}

// Searcher runs a single-threaded iterative-deepening search. It is not safe
// for concurrent use; the stop flag is the only cross-thread communication.
type Searcher struct {
	tt   *Table
	stop *atomic.Bool

	pos      *board.Position
	nnueCtx  NNUEContext
	killers  [MaxPly + 1][2]board.Move
	history  [2][64][64]int32
	repStack []uint64

	nodes    uint64
	stopped  bool
	deadline time.Time
	timed    bool

	rootMove board.Move
}

// NewSearcher creates a searcher over the given transposition table. The stop
// flag is shared with the command loop; a nil flag disables external stops.
func NewSearcher(tt *Table, stop *atomic.Bool) *Searcher {
	return &Searcher{tt: tt, stop: stop}
}

// SetHistory seeds the repetition stack with the game's position hashes, the
// current position last. Search appends its own line on top.
func (s *Searcher) SetHistory(hashes []uint64) {
	s.repStack = append(s.repStack[:0], hashes...)
}

// Search runs iterative deepening on a copy of pos within the given limits
// and returns the best move and its score. info, when non-nil, is invoked
// once per completed iteration in depth order.
func (s *Searcher) Search(pos *board.Position, limits Limits, info func(Info)) (board.Move, int32) {
	work := *pos
	s.pos = &work
	s.nodes = 0
	s.stopped = false
	s.rootMove = board.NullMove
	s.killers = [MaxPly + 1][2]board.Move{}
	s.history = [2][64][64]int32{}
	if len(s.repStack) == 0 {
		s.repStack = append(s.repStack, work.Hash())
	}

	budget := MoveBudget(limits, work.SideToMove())
	s.timed = budget > 0
	if s.timed {
		s.deadline = time.Now().Add(budget)
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly-1 {
		maxDepth = MaxPly - 1
	}

	// A position that has already hit threefold repetition or the 50-move
	// rule is scored as a draw no matter what the tree says; the search
	// still runs so a legal best move is reported.
	rootDrawn := s.isRepetitionDraw() || work.HalfmoveClock() >= 100

	s.tt.NewSearch()
	start := time.Now()

	var lastScore int32
	for depth := 1; depth <= maxDepth; depth++ {
		alpha, beta := -Infinity, Infinity
		delta := aspirationDelta
		if depth > 1 {
			alpha = lastScore - delta
			beta = lastScore + delta
		}

		var score int32
		for {
			score = s.rootSearch(depth, alpha, beta)
			if s.stopped {
				break
			}
			if score <= alpha {
				alpha = max(alpha-delta, -Infinity)
				delta *= 2
				continue
			}
			if score >= beta {
				beta = min(beta+delta, Infinity)
				delta *= 2
				continue
			}
			break
		}
		if s.stopped {
			break
		}
		lastScore = score

		if info != nil {
			reported := score
			if rootDrawn {
				reported = 0
			}
			info(Info{
				Depth:    depth,
				Score:    reported,
				Nodes:    s.nodes,
				Time:     time.Since(start),
				Hashfull: s.tt.HashfullPermille(1000),
				PV:       s.extractPV(&work, depth),
			})
		}

		if IsMateScore(score) {
			break
		}
		if s.timed && time.Now().After(s.deadline) {
			break
		}
	}

	if rootDrawn {
		lastScore = 0
	}
	return s.rootMove, lastScore
}

// rootSearch enumerates the legal root moves and searches each within the
// given window (full on depth 1, the aspiration window after). The result is stored in the TT with a flag determined by where the
// score landed relative to the original window.
func (s *Searcher) rootSearch(depth int, alpha, beta int32) int32 {
	p := s.pos
	var ml board.MoveList
	p.GenerateLegal(&ml)
	if ml.Count == 0 {
		s.rootMove = board.NullMove
		if p.InCheck() {
			return -Mate
		}
		return 0
	}

	var ttMove board.Move
	if entry, ok := s.tt.Probe(p.Hash()); ok {
		ttMove = entry.Best
	}
	sm := s.scoreMoves(p, &ml, ttMove, 0)

	origAlpha := alpha
	bestScore := -Infinity
	bestMove := board.NullMove

	for i := 0; i < sm.count; i++ {
		m := sm.pickNext(i)

		// Depth 1 must always publish some legal move so the caller
		// never receives a null best move, even if stopped mid-search.
		if i == 0 && depth == 1 && s.rootMove == board.NullMove {
			s.rootMove = m
		}

		st := p.MakeMove(m)
		s.repStack = append(s.repStack, p.Hash())
		score := -s.negamax(depth-1, -beta, -alpha, 1, true)
		s.repStack = s.repStack[:len(s.repStack)-1]
		p.UnmakeMove(m, st)

		if s.stopped {
			return 0
		}
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			if alpha >= beta {
				break
			}
		}
	}

	// Only a completed iteration publishes its best move; a stopped one
	// leaves the previous iteration's result in place (see above for the
	// depth-1 exception).
	if bestMove != board.NullMove {
		s.rootMove = bestMove
	}

	flag := Exact
	if bestScore <= origAlpha {
		flag = UpperBound
	} else if bestScore >= beta {
		flag = LowerBound
	}
	s.storeTT(p.Hash(), bestScore, uint8(depth), flag, bestMove, 0)
	return bestScore
}

func (s *Searcher) negamax(depth int, alpha, beta int32, ply int, allowNull bool) int32 {
	if s.checkStop() {
		return 0
	}
	s.nodes++

	p := s.pos
	if ply >= MaxPly {
		return StaticEval(p, &s.nnueCtx)
	}

	// Draw short-circuits.
	if s.isRepetitionDraw() || p.HalfmoveClock() >= 100 {
		return 0
	}

	var ml board.MoveList
	p.GenerateLegal(&ml)
	if ml.Count == 0 {
		if p.InCheck() {
			return -Mate + int32(ply)
		}
		return 0
	}

	var ttMove board.Move
	if entry, ok := s.tt.Probe(p.Hash()); ok {
		ttMove = entry.Best
		if int(entry.Depth) >= depth {
			score := s.scoreFromTT(entry.Score, ply)
			switch entry.Flag {
			case Exact:
				return score
			case LowerBound:
				if score >= beta {
					return score
				}
			case UpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(alpha, beta, ply)
	}

	inCheck := p.InCheck()
	isPV := beta-alpha > 1
	staticScore := StaticEval(p, &s.nnueCtx)

	// Reverse futility: a static eval so far above beta that even a large
	// margin cannot bring the score back into the window.
	if !isPV && !inCheck && depth <= 3 && abs32(beta) < Mate-MaxPly {
		if margin := rfpMargins[depth]; staticScore-margin >= beta {
			return staticScore - margin
		}
	}

	// Null-move pruning, gated on having real material so zugzwang
	// positions keep their full search.
	if allowNull && !inCheck && depth >= 3 &&
		NonPawnMaterial(p, p.SideToMove()) >= nullMoveMaterial {
		reduction := 2
		if depth > 6 {
			reduction = 3
		}
		nu := p.MakeNullMove()
		s.repStack = append(s.repStack, p.Hash())
		score := -s.negamax(depth-1-reduction, -beta, -beta+1, ply+1, false)
		s.repStack = s.repStack[:len(s.repStack)-1]
		p.UnmakeNullMove(nu)
		if s.stopped {
			return 0
		}
		if score >= beta {
			if depth < 6 {
				return beta
			}
			// Verify with a non-null re-search at the stronger depth
			// before trusting the cutoff.
			if verify := s.negamax(depth-1, beta-1, beta, ply, false); verify >= beta {
				return beta
			}
		}
	}

	sm := s.scoreMoves(p, &ml, ttMove, ply)

	flag := UpperBound
	bestMove := board.NullMove

	for i := 0; i < sm.count; i++ {
		m := sm.pickNext(i)
		isCapture := p.IsCapture(m)
		isPromo := m.Kind() == board.Promotion
		quiet := !isCapture && !isPromo

		// Futility: quiet late moves at shallow depth whose static eval
		// plus margin still cannot reach alpha.
		if i > 0 && quiet && !inCheck && !isPV && depth <= 3 &&
			staticScore+futilityMargins[depth] <= alpha {
			continue
		}

		st := p.MakeMove(m)
		s.repStack = append(s.repStack, p.Hash())

		var score int32
		reduction := 0
		if !inCheck && depth >= 3 && i >= 3 && quiet {
			reduction = max(lmrTable[min(depth, MaxPly-1)][min(i, 63)], 1)
		}
		if reduction > 0 {
			score = -s.negamax(depth-1-reduction, -alpha-1, -alpha, ply+1, true)
			if score > alpha {
				score = -s.negamax(depth-1, -alpha-1, -alpha, ply+1, true)
				if score > alpha && score < beta {
					score = -s.negamax(depth-1, -beta, -alpha, ply+1, true)
				}
			}
		} else {
			score = -s.negamax(depth-1, -beta, -alpha, ply+1, true)
		}

		s.repStack = s.repStack[:len(s.repStack)-1]
		p.UnmakeMove(m, st)

		if s.stopped {
			return 0
		}

		if score >= beta {
			s.storeTT(p.Hash(), score, uint8(depth), LowerBound, m, ply)
			if quiet {
				s.recordKiller(m, ply)
				s.history[p.SideToMove()][m.From()][m.To()] += int32(depth * depth)
			}
			return beta
		}
		if score > alpha {
			alpha = score
			bestMove = m
			flag = Exact
		}
	}

	s.storeTT(p.Hash(), alpha, uint8(depth), flag, bestMove, ply)
	return alpha
}

func (s *Searcher) quiescence(alpha, beta int32, ply int) int32 {
	if s.checkStop() {
		return 0
	}
	s.nodes++

	p := s.pos
	if ply >= MaxPly {
		return StaticEval(p, &s.nnueCtx)
	}
	if s.isRepetitionDraw() || p.HalfmoveClock() >= 100 {
		return 0
	}

	inCheck := p.InCheck()
	var standPat int32
	var ml board.MoveList

	if inCheck {
		// Evasions: search every legal move, no stand pat.
		p.GenerateLegal(&ml)
		if ml.Count == 0 {
			return -Mate + int32(ply)
		}
	} else {
		standPat = StaticEval(p, &s.nnueCtx)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		p.GenerateLegalCaptures(&ml)
		if ml.Count == 0 {
			return alpha
		}
	}

	sm := scoreCaptures(p, &ml)
	for i := 0; i < sm.count; i++ {
		m := sm.pickNext(i)

		if !inCheck {
			gain := capturedValue(p, m)
			if m.Kind() == board.Promotion {
				gain += PieceValueMG[m.Promo()] - PieceValueMG[board.Pawn]
			}
			if standPat+gain+deltaPruneMargin < alpha {
				continue
			}
		}

		st := p.MakeMove(m)
		s.repStack = append(s.repStack, p.Hash())
		score := -s.quiescence(-beta, -alpha, ply+1)
		s.repStack = s.repStack[:len(s.repStack)-1]
		p.UnmakeMove(m, st)

		if s.stopped {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// checkStop polls the shared stop flag every node and the clock every 1024
// nodes; once tripped, every frame on the stack unwinds returning 0.
func (s *Searcher) checkStop() bool {
	if s.stopped {
		return true
	}
	if s.stop != nil && s.stop.Load() {
		s.stopped = true
	} else if s.timed && s.nodes&1023 == 0 && time.Now().After(s.deadline) {
		s.stopped = true
	}
	return s.stopped
}

// isRepetitionDraw reports whether the current position's hash has already
// occurred twice before in the combined game and search history. Only
// positions within the halfmove-clock window can repeat, and only entries at
// a 2-ply stride have the same side to move.
func (s *Searcher) isRepetitionDraw() bool {
	n := len(s.repStack)
	if n < 5 {
		return false
	}
	cur := s.repStack[n-1]
	limit := s.pos.HalfmoveClock()
	count := 0
	for i := n - 3; i >= 0 && n-1-i <= limit; i -= 2 {
		if s.repStack[i] == cur {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// scoreToTT converts a mate score into distance-from-this-node form before
// storing, so the entry stays valid at any ply.
func scoreToTT(score int32, ply int) int32 {
	if score > Mate-MaxPly {
		return score + int32(ply)
	}
	if score < -(Mate - MaxPly) {
		return score - int32(ply)
	}
	return score
}

// scoreFromTT reverses the mate adjustment using the reader's ply.
func (s *Searcher) scoreFromTT(score int32, ply int) int32 {
	if score > Mate-MaxPly {
		return score - int32(ply)
	}
	if score < -(Mate - MaxPly) {
		return score + int32(ply)
	}
	return score
}

func (s *Searcher) storeTT(key uint64, score int32, depth uint8, flag Bound, best board.Move, ply int) {
	if s.stopped {
		return
	}
	s.tt.Store(key, scoreToTT(score, ply), depth, flag, best)
}
