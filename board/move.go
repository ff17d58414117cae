package board

// Move packs a chess move into 16 bits: from (6), to (6), kind (2),
// promotion piece type (2, knight..queen).
type Move uint16

// NullMove is the zero move, used as an "absent" sentinel.
const NullMove Move = 0

// MoveKind distinguishes the four move shapes the rules allow.
type MoveKind uint16

const (
	Normal MoveKind = iota
	Promotion
	EnPassant
	Castling
)

const (
	moveToShift    = 6
	moveKindShift  = 12
	movePromoShift = 14
)

// NewMove builds a non-promotion move of the given kind.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(uint16(from) | uint16(to)<<moveToShift | uint16(kind)<<moveKindShift)
}

// NewPromotion builds a promotion move to the given piece type (Knight..Queen).
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(uint16(from) | uint16(to)<<moveToShift |
		uint16(Promotion)<<moveKindShift | uint16(promo-Knight)<<movePromoShift)
}

func (m Move) From() Square   { return Square(m & 0x3F) }
func (m Move) To() Square     { return Square((m >> moveToShift) & 0x3F) }
func (m Move) Kind() MoveKind { return MoveKind((m >> moveKindShift) & 0x3) }

// Promo returns the promotion piece type; only meaningful when Kind is Promotion.
func (m Move) Promo() PieceType { return Knight + PieceType((m>>movePromoShift)&0x3) }

var promoLetters = [4]byte{'n', 'b', 'r', 'q'}

// String renders the move in coordinate wire format ("e2e4", "e7e8q").
// The null move renders as "0000".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.Kind() == Promotion {
		s += string(promoLetters[m.Promo()-Knight])
	}
	return s
}

// MoveList is a bounded buffer of moves, large enough for any legal position.
type MoveList struct {
	Moves [256]Move
	Count int
}

func (ml *MoveList) Add(m Move) {
	ml.Moves[ml.Count] = m
	ml.Count++
}

func (ml *MoveList) Clear() { ml.Count = 0 }

// Contains reports whether the list holds m.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.Count; i++ {
		if ml.Moves[i] == m {
			return true
		}
	}
	return false
}
