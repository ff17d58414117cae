package board_test

import (
	"testing"

	"github.com/oboro-eng/pandacore/board"
)

func TestMoveFieldRoundTrip(t *testing.T) {
	cases := []struct {
		from, to board.Square
		kind     board.MoveKind
	}{
		{board.E2, board.E4, board.Normal},
		{board.E5, board.D6, board.EnPassant},
		{board.E1, board.G1, board.Castling},
		{board.A1, board.H8, board.Normal},
	}
	for _, c := range cases {
		m := board.NewMove(c.from, c.to, c.kind)
		if m.From() != c.from || m.To() != c.to || m.Kind() != c.kind {
			t.Errorf("move %v: fields did not round trip (%v %v %v)", m, m.From(), m.To(), m.Kind())
		}
	}
}

func TestPromotionEncoding(t *testing.T) {
	for _, pt := range []board.PieceType{board.Knight, board.Bishop, board.Rook, board.Queen} {
		m := board.NewPromotion(board.E7, board.E8, pt)
		if m.Kind() != board.Promotion || m.Promo() != pt {
			t.Errorf("promotion to %v: got kind %v promo %v", pt, m.Kind(), m.Promo())
		}
	}
}

func TestMoveString(t *testing.T) {
	cases := []struct {
		m    board.Move
		want string
	}{
		{board.NullMove, "0000"},
		{board.NewMove(board.E2, board.E4, board.Normal), "e2e4"},
		{board.NewPromotion(board.E7, board.E8, board.Queen), "e7e8q"},
		{board.NewPromotion(board.A2, board.B1, board.Knight), "a2b1n"},
	}
	for _, c := range cases {
		if got := c.m.String(); got != c.want {
			t.Errorf("move string: got %q, want %q", got, c.want)
		}
	}
}

func TestFindMoveWireDecoding(t *testing.T) {
	p := board.MustParseFEN(board.StartPos)
	m := p.FindMove("e2e4")
	if m == board.NullMove || m.From() != board.E2 || m.To() != board.E4 {
		t.Fatalf("FindMove e2e4: got %v", m)
	}
	if p.FindMove("e2e5") != board.NullMove {
		t.Error("FindMove should reject illegal moves")
	}
	if p.FindMove("garbage") != board.NullMove {
		t.Error("FindMove should reject malformed input")
	}

	// A missing promotion letter defaults to queen.
	promo := board.MustParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	m = promo.FindMove("a7a8")
	if m.Kind() != board.Promotion || m.Promo() != board.Queen {
		t.Errorf("bare promotion decode: got %v (kind %v)", m, m.Kind())
	}
	m = promo.FindMove("a7b8r")
	if m.Kind() != board.Promotion || m.Promo() != board.Rook || m.To() != board.B8 {
		t.Errorf("capture promotion decode: got %v", m)
	}
}

func TestMoveWireRoundTrip(t *testing.T) {
	p := board.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var ml board.MoveList
	p.GenerateLegal(&ml)
	for i := 0; i < ml.Count; i++ {
		m := ml.Moves[i]
		if got := p.FindMove(m.String()); got != m {
			t.Errorf("wire round trip: %v decoded to %v", m, got)
		}
	}
}
