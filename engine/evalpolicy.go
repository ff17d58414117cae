package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/oboro-eng/pandacore/board"
)

// The evaluator policy selects between the handcrafted evaluation and an
// external NNUE backend. The selector is a single process-wide atomic cell;
// the backends themselves are written once before any search reads them.

type evalMode int32

const (
	evalHandcrafted evalMode = iota
	evalNNUE
)

var currentEvalMode atomic.Int32
var nnueBackend atomic.Pointer[NNUEEvaluator]

// UseHandcraftedEval switches evaluation back to the handcrafted path.
func UseHandcraftedEval() {
	currentEvalMode.Store(int32(evalHandcrafted))
}

// UseNNUE loads the network at modelPath through the ONNX runtime shared
// library at libPath and switches evaluation to it. On failure the policy
// stays on the handcrafted path and the error is returned for logging.
func UseNNUE(modelPath, libPath string) error {
	nn, err := LoadNNUE(modelPath, libPath)
	if err != nil {
		UseHandcraftedEval()
		return err
	}
	nnueBackend.Store(nn)
	currentEvalMode.Store(int32(evalNNUE))
	return nil
}

// StaticEval scores the position from the side-to-move perspective through
// whichever backend the policy selects. A failing NNUE call falls back to the
// handcrafted path silently; the position is still scored.
func StaticEval(p *board.Position, ctx *NNUEContext) int32 {
	if evalMode(currentEvalMode.Load()) == evalNNUE {
		if nn := nnueBackend.Load(); nn != nil {
			if score, err := nn.Evaluate(p, ctx); err == nil {
				return score
			}
			slog.Debug("nnue evaluation failed, using handcrafted score")
		}
	}
	return Evaluate(p)
}
