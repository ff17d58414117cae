package engine

import (
	"testing"
	"time"

	"github.com/oboro-eng/pandacore/board"
)

func TestMoveTimeBudget(t *testing.T) {
	got := MoveBudget(Limits{MoveTime: 1000}, board.White)
	if got != 980*time.Millisecond {
		t.Errorf("movetime 1000: got %v, want 980ms", got)
	}
	// Tiny movetime still floors at one millisecond.
	if got := MoveBudget(Limits{MoveTime: 5}, board.White); got != time.Millisecond {
		t.Errorf("movetime 5: got %v, want 1ms", got)
	}
}

func TestInfiniteAndDepthOnlyHaveNoBudget(t *testing.T) {
	if got := MoveBudget(Limits{Infinite: true}, board.White); got != 0 {
		t.Errorf("infinite: got %v, want 0", got)
	}
	if got := MoveBudget(Limits{Depth: 6}, board.Black); got != 0 {
		t.Errorf("depth only: got %v, want 0", got)
	}
}

func TestClockBudget(t *testing.T) {
	// 60s + 1s increment, default 30 moves to go: 2000ms + 750ms.
	got := MoveBudget(Limits{WTime: 60000, WInc: 1000}, board.White)
	if got != 2750*time.Millisecond {
		t.Errorf("clock budget: got %v, want 2.75s", got)
	}

	// The budget uses the mover's clock.
	got = MoveBudget(Limits{WTime: 60000, BTime: 3000, BInc: 0}, board.Black)
	if got != 100*time.Millisecond {
		t.Errorf("black clock budget: got %v, want 100ms", got)
	}

	// movestogo divides the remaining time.
	got = MoveBudget(Limits{WTime: 10000, MovesToGo: 10}, board.White)
	if got != time.Second {
		t.Errorf("movestogo budget: got %v, want 1s", got)
	}
}

func TestBudgetCappedByRemainingTime(t *testing.T) {
	// A huge increment cannot spend more than the clock minus overhead.
	got := MoveBudget(Limits{WTime: 100, WInc: 100000}, board.White)
	if got != 80*time.Millisecond {
		t.Errorf("capped budget: got %v, want 80ms", got)
	}
}
