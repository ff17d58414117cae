package engine

import (
	"time"

	"github.com/oboro-eng/pandacore/board"
)

// Limits carries the search bounds of a go command. All times are in
// milliseconds; zero means the field was absent.
type Limits struct {
	Depth     int
	MoveTime  int
	WTime     int
	BTime     int
	WInc      int
	BInc      int
	MovesToGo int
	Infinite  bool
}

// moveOverhead is reserved per move for protocol and I/O latency.
const moveOverhead = 20 * time.Millisecond

// MoveBudget computes the wall-clock budget for one search. Zero means no
// time limit (depth-only or infinite searches).
func MoveBudget(l Limits, side board.Color) time.Duration {
	if l.MoveTime > 0 {
		d := time.Duration(l.MoveTime)*time.Millisecond - moveOverhead
		if d < time.Millisecond {
			d = time.Millisecond
		}
		return d
	}
	if l.Infinite {
		return 0
	}

	own, inc := l.WTime, l.WInc
	if side == board.Black {
		own, inc = l.BTime, l.BInc
	}
	if own <= 0 {
		return 0
	}

	mtg := l.MovesToGo
	if mtg <= 0 {
		mtg = 30
	}
	budget := time.Duration(own/mtg)*time.Millisecond + 3*time.Duration(inc)*time.Millisecond/4
	if ceiling := time.Duration(own)*time.Millisecond - moveOverhead; budget > ceiling {
		budget = ceiling
	}
	if budget < time.Millisecond {
		budget = time.Millisecond
	}
	return budget
}
