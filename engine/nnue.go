package engine

import (
	"errors"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/oboro-eng/pandacore/board"
)

// NNUEEvaluator scores positions through an external ONNX network. The model
// contract: one input of 768 floats (12 piece planes of 64 squares, oriented
// from the side to move, own pieces first), one output holding a centipawn
// score from the side-to-move perspective.

const nnueFeatureCount = 12 * 64

type NNUEEvaluator struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NNUEContext caches the feature planes for a position so repeated
// evaluations of the same node skip the rebuild. The search stack owns one
// context; the handcrafted evaluator ignores it.
type NNUEContext struct {
	key    uint64
	planes [nnueFeatureCount]float32
}

// LoadNNUE initialises the ONNX runtime (once per process) and opens an
// inference session for the network at modelPath.
func LoadNNUE(modelPath, libPath string) (*NNUEEvaluator, error) {
	if !ort.IsInitialized() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initializing onnx runtime: %w", err)
		}
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, nnueFeatureCount))
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("creating output tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"features"}, []string{"score"},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("opening session for %s: %w", modelPath, err)
	}
	return &NNUEEvaluator{session: session, input: input, output: output}, nil
}

// Close releases the session and its tensors.
func (e *NNUEEvaluator) Close() {
	if e.session != nil {
		e.session.Destroy()
		e.input.Destroy()
		e.output.Destroy()
		e.session = nil
	}
}

// refresh rebuilds the feature planes for p. Planes are oriented from the
// side to move: its pieces occupy planes 0-5, the opponent's 6-11, and
// squares are mirrored when Black is to move so the network always sees the
// board from the mover's point of view.
func (ctx *NNUEContext) refresh(p *board.Position) {
	if ctx.key == p.Hash() && ctx.key != 0 {
		return
	}
	for i := range ctx.planes {
		ctx.planes[i] = 0
	}
	stm := p.SideToMove()
	for pc := board.Piece(0); pc < 12; pc++ {
		plane := int(pc.Type())
		if pc.Color() != stm {
			plane += 6
		}
		for bb := p.Pieces(pc); bb != 0; {
			var sq board.Square
			sq, bb = bb.PopLSB()
			idx := int(sq)
			if stm == board.Black {
				idx ^= 56
			}
			ctx.planes[plane*64+idx] = 1
		}
	}
	ctx.key = p.Hash()
}

// Evaluate runs one inference call and returns the centipawn score from the
// side-to-move perspective.
func (e *NNUEEvaluator) Evaluate(p *board.Position, ctx *NNUEContext) (int32, error) {
	if e.session == nil {
		return 0, errors.New("nnue session closed")
	}
	var local NNUEContext
	if ctx == nil {
		ctx = &local
	}
	ctx.refresh(p)
	copy(e.input.GetData(), ctx.planes[:])
	if err := e.session.Run(); err != nil {
		return 0, fmt.Errorf("nnue inference: %w", err)
	}
	return int32(e.output.GetData()[0]), nil
}
