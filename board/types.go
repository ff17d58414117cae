// Package board implements bitboard position representation, magic-bitboard
// move generation, and FEN encode/decode for panda-chess-core.
package board

import "math/bits"

// Square is an integer 0..63; file = square % 8, rank = square / 8.
type Square int8

const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func SquareOf(file, rank int) Square { return Square(rank*8 + file) }

func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare parses a square name like "e4". Returns NoSquare on "-".
func ParseSquare(s string) Square {
	if s == "-" || len(s) != 2 {
		return NoSquare
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return SquareOf(file, rank)
}

// Color is White or Black; the complement is XOR-1.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

// PieceType enumerates the six chess piece kinds.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// Piece flattens (Color, PieceType) into 0..11.
type Piece uint8

const NoPiece Piece = 12

func MakePiece(c Color, pt PieceType) Piece { return Piece(int(c)*6 + int(pt)) }

func (p Piece) Color() Color     { return Color(p / 6) }
func (p Piece) Type() PieceType  { return PieceType(p % 6) }

var pieceLetters = [12]byte{'P', 'N', 'B', 'R', 'Q', 'K', 'p', 'n', 'b', 'r', 'q', 'k'}

func (p Piece) Letter() byte {
	if p == NoPiece {
		return '.'
	}
	return pieceLetters[p]
}

// Bitboard is a 64-bit set of squares; bit k set iff square k is occupied.
type Bitboard uint64

func BitOf(s Square) Bitboard { return Bitboard(1) << uint(s) }

func (b Bitboard) Has(s Square) bool { return b&BitOf(s) != 0 }
func (b Bitboard) PopCount() int     { return bits.OnesCount64(uint64(b)) }
func (b Bitboard) LSB() Square       { return Square(bits.TrailingZeros64(uint64(b))) }

// PopLSB returns the least-significant set square and the bitboard with it cleared.
func (b Bitboard) PopLSB() (Square, Bitboard) {
	s := b.LSB()
	return s, b & (b - 1)
}

const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = FileA << 1
	FileG Bitboard = FileA << 6
	FileH Bitboard = FileA << 7
	Rank1 Bitboard = 0xFF
	Rank8 Bitboard = Rank1 << 56
	Rank2 Bitboard = Rank1 << 8
	Rank3 Bitboard = Rank1 << 16
	Rank4 Bitboard = Rank1 << 24
	Rank5 Bitboard = Rank1 << 32
	Rank6 Bitboard = Rank1 << 40
	Rank7 Bitboard = Rank1 << 48
	FullBoard Bitboard = 0xFFFFFFFFFFFFFFFF
)

var fileBB [8]Bitboard
var rankBB [8]Bitboard

func init() {
	for f := 0; f < 8; f++ {
		fileBB[f] = FileA << uint(f)
	}
	for r := 0; r < 8; r++ {
		rankBB[r] = Rank1 << uint(8*r)
	}
}

func FileBB(f int) Bitboard { return fileBB[f] }
func RankBB(r int) Bitboard { return rankBB[r] }

// CastlingRights is a 4-bit mask: white-kingside, white-queenside,
// black-kingside, black-queenside.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

const AllCastling = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside

// CastlingUpdate[sq] ANDed with both from and to clears rights that square's
// move or capture invalidates: both of that color's bits on a king-home square,
// the matching rook-side bit on a rook-home square, identity elsewhere.
var CastlingUpdate [64]CastlingRights

func init() {
	for i := range CastlingUpdate {
		CastlingUpdate[i] = AllCastling
	}
	CastlingUpdate[E1] = AllCastling &^ (WhiteKingside | WhiteQueenside)
	CastlingUpdate[E8] = AllCastling &^ (BlackKingside | BlackQueenside)
	CastlingUpdate[H1] = AllCastling &^ WhiteKingside
	CastlingUpdate[A1] = AllCastling &^ WhiteQueenside
	CastlingUpdate[H8] = AllCastling &^ BlackKingside
	CastlingUpdate[A8] = AllCastling &^ BlackQueenside
}
