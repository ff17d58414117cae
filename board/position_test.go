package board_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oboro-eng/pandacore/board"
)

var testFENs = []string{
	board.StartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
	"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
}

func positionEqual(a, b *board.Position) bool {
	return cmp.Equal(*a, *b, cmp.AllowUnexported(board.Position{}))
}

// Random playouts: every make must be exactly reversed by the matching
// unmake, and the incremental hash must agree with a from-scratch rebuild at
// every step.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, fen := range testFENs {
		p := board.MustParseFEN(fen)
		for step := 0; step < 200; step++ {
			var ml board.MoveList
			p.GenerateLegal(&ml)
			if ml.Count == 0 {
				break
			}
			m := ml.Moves[rnd.Intn(ml.Count)]
			before := *p

			st := p.MakeMove(m)
			if got, want := p.Hash(), p.ComputeHash(); got != want {
				t.Fatalf("%s after %v: incremental hash %#x != rebuilt %#x", fen, m, got, want)
			}
			p.UnmakeMove(m, st)

			if !positionEqual(p, &before) {
				diff := cmp.Diff(before, *p, cmp.AllowUnexported(board.Position{}))
				t.Fatalf("%s: make/unmake of %v did not restore the position:\n%s", fen, m, diff)
			}

			// Walk forward so later steps exercise deeper positions.
			p.MakeMove(m)
		}
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	p := board.MustParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	before := *p
	st := p.MakeNullMove()
	if p.SideToMove() != board.Black {
		t.Error("null move should flip the side to move")
	}
	if p.EnPassant() != board.NoSquare {
		t.Error("null move should clear the en passant target")
	}
	if got, want := p.Hash(), p.ComputeHash(); got != want {
		t.Errorf("null move hash: incremental %#x != rebuilt %#x", got, want)
	}
	p.UnmakeNullMove(st)
	if !positionEqual(p, &before) {
		t.Error("unmake null did not restore the position")
	}
}

// Bitboard/mailbox agreement and occupancy unions.
func TestBoardRepresentationInvariants(t *testing.T) {
	for _, fen := range testFENs {
		p := board.MustParseFEN(fen)

		var white, black board.Bitboard
		for pc := board.Piece(0); pc < 12; pc++ {
			if pc.Color() == board.White {
				white |= p.Pieces(pc)
			} else {
				black |= p.Pieces(pc)
			}
		}
		if white != p.Colors(board.White) || black != p.Colors(board.Black) {
			t.Errorf("%s: colored occupancy does not match piece unions", fen)
		}
		if white|black != p.Occupied() {
			t.Errorf("%s: total occupancy does not match color union", fen)
		}

		for sq := board.A1; sq <= board.H8; sq++ {
			pc := p.PieceOn(sq)
			for cand := board.Piece(0); cand < 12; cand++ {
				has := p.Pieces(cand).Has(sq)
				if has != (cand == pc) {
					t.Errorf("%s: square %v mailbox=%v but bitboard of %v has=%v", fen, sq, pc, cand, has)
				}
			}
		}
	}
}

func TestEnPassantCapture(t *testing.T) {
	p := board.MustParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	m := p.FindMove("e5d6")
	if m == board.NullMove || m.Kind() != board.EnPassant {
		t.Fatalf("e5xd6 should be an en passant move, got %v kind %v", m, m.Kind())
	}
	p.MakeMove(m)
	if p.PieceOn(board.D5) != board.NoPiece {
		t.Error("en passant should remove the pawn on d5")
	}
	if p.PieceOn(board.D6) != board.MakePiece(board.White, board.Pawn) {
		t.Error("en passant should place a white pawn on d6")
	}
	if got, want := p.Hash(), p.ComputeHash(); got != want {
		t.Errorf("hash after en passant: %#x != %#x", got, want)
	}
}

func TestCastlingRightsUpdates(t *testing.T) {
	fen := "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1"

	// King move clears both rights for the mover only.
	p := board.MustParseFEN(fen)
	p.MakeMove(p.FindMove("e1d1"))
	if p.Castling()&(board.WhiteKingside|board.WhiteQueenside) != 0 {
		t.Error("white king move should clear both white rights")
	}
	if p.Castling()&(board.BlackKingside|board.BlackQueenside) != board.BlackKingside|board.BlackQueenside {
		t.Error("white king move should leave black rights intact")
	}

	// Rook move clears only that side's bit.
	p = board.MustParseFEN(fen)
	p.MakeMove(p.FindMove("h1g1"))
	if p.Castling()&board.WhiteKingside != 0 {
		t.Error("h1 rook move should clear white kingside")
	}
	if p.Castling()&board.WhiteQueenside == 0 {
		t.Error("h1 rook move should keep white queenside")
	}

	// Rook capture clears the captured side's bit.
	p = board.MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	p.MakeMove(p.FindMove("a1a8"))
	if p.Castling()&board.BlackQueenside != 0 {
		t.Error("capturing the a8 rook should clear black queenside")
	}
	if p.Castling()&board.BlackKingside == 0 {
		t.Error("capturing the a8 rook should keep black kingside")
	}
}

func TestCastlingMovesRook(t *testing.T) {
	p := board.MustParseFEN("r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	p.MakeMove(p.FindMove("e1g1"))
	if p.PieceOn(board.G1) != board.MakePiece(board.White, board.King) {
		t.Error("kingside castle should put the king on g1")
	}
	if p.PieceOn(board.F1) != board.MakePiece(board.White, board.Rook) {
		t.Error("kingside castle should put the rook on f1")
	}
	if p.PieceOn(board.H1) != board.NoPiece {
		t.Error("kingside castle should empty h1")
	}
}

func TestHalfmoveClock(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	p.MakeMove(p.FindMove("g1f3"))
	if p.HalfmoveClock() != 1 {
		t.Errorf("knight move should increment the halfmove clock, got %d", p.HalfmoveClock())
	}
	p.MakeMove(p.FindMove("e7e5"))
	if p.HalfmoveClock() != 0 {
		t.Errorf("pawn move should reset the halfmove clock, got %d", p.HalfmoveClock())
	}
	p.MakeMove(p.FindMove("f3e5"))
	if p.HalfmoveClock() != 0 {
		t.Errorf("capture should reset the halfmove clock, got %d", p.HalfmoveClock())
	}
}

func TestDoublePushSetsEnPassant(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	p.MakeMove(p.FindMove("e2e4"))
	if p.EnPassant() != board.E3 {
		t.Errorf("double push e2e4 should set ep target e3, got %v", p.EnPassant())
	}
	p.MakeMove(p.FindMove("g8f6"))
	if p.EnPassant() != board.NoSquare {
		t.Error("ep target should be cleared after the reply")
	}
}
