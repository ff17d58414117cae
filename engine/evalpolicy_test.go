package engine

import (
	"testing"

	"github.com/oboro-eng/pandacore/board"
)

func TestMissingNNUEFallsBackToHandcrafted(t *testing.T) {
	t.Cleanup(UseHandcraftedEval)

	err := UseNNUE("no-such-model.onnx", "no-such-lib.so")
	if err == nil {
		t.Fatal("loading a missing network should fail")
	}

	// The policy must have stayed on (or reverted to) the handcrafted path.
	p := board.MustParseFEN(board.StartPos)
	if got, want := StaticEval(p, nil), Evaluate(p); got != want {
		t.Errorf("after failed NNUE load StaticEval=%d, handcrafted=%d", got, want)
	}
}

func TestStaticEvalMatchesHandcraftedByDefault(t *testing.T) {
	p := board.MustParseFEN("4k3/8/8/8/8/8/8/4KR2 w - - 0 1")
	if got, want := StaticEval(p, nil), Evaluate(p); got != want {
		t.Errorf("default policy: StaticEval=%d, handcrafted=%d", got, want)
	}
}
