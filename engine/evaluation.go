package engine

import (
	"github.com/oboro-eng/pandacore/board"
)

// Handcrafted tapered evaluation: material and piece-square tables, pawn
// structure, bishop pair, rook files, mobility, and king safety are summed
// into separate middlegame and endgame accumulators, then interpolated by the
// remaining non-pawn material.

var PieceValueMG = [6]int32{82, 337, 365, 477, 1025, 0}
var PieceValueEG = [6]int32{94, 281, 297, 512, 936, 0}

// Phase weight per piece type; the total of 24 corresponds to the full
// starting material.
var phaseWeight = [6]int32{0, 1, 1, 2, 4, 0}

const totalPhase = 24

// Piece-square tables, written in the readable orientation (a8 = index 0).
// White pieces index with square^56, black pieces with the square directly.
var pstMG = [6][64]int32{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		98, 134, 61, 95, 68, 126, 34, -11,
		-6, 7, 26, 31, 65, 56, 25, -20,
		-14, 13, 6, 21, 23, 12, 17, -23,
		-27, -2, -5, 12, 17, 6, 10, -25,
		-26, -4, -4, -10, 3, 3, 33, -12,
		-35, -1, -20, -23, -15, 24, 38, -22,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-167, -89, -34, -49, 61, -97, -15, -107,
		-73, -41, 72, 36, 23, 62, 7, -17,
		-47, 60, 37, 65, 84, 129, 73, 44,
		-9, 17, 19, 53, 37, 69, 18, 22,
		-13, 4, 16, 13, 28, 19, 21, -8,
		-23, -9, 12, 10, 19, 17, 25, -16,
		-29, -53, -12, -3, -1, 18, -14, -19,
		-105, -21, -58, -33, -17, -28, -19, -23,
	},
	{ // bishop
		-29, 4, -82, -37, -25, -42, 7, -8,
		-26, 16, -18, -13, 30, 59, 18, -47,
		-16, 37, 43, 40, 35, 50, 37, -2,
		-4, 5, 19, 50, 37, 37, 7, -2,
		-6, 13, 13, 26, 34, 12, 10, 4,
		0, 15, 15, 15, 14, 27, 18, 10,
		4, 15, 16, 0, 7, 21, 33, 1,
		-33, -3, -14, -21, -13, -12, -39, -21,
	},
	{ // rook
		32, 42, 32, 51, 63, 9, 31, 43,
		27, 32, 58, 62, 80, 67, 26, 44,
		-5, 19, 26, 36, 17, 45, 61, 16,
		-24, -11, 7, 26, 24, 35, -8, -20,
		-36, -26, -12, -1, 9, -7, 6, -23,
		-45, -25, -16, -17, 3, 0, -5, -33,
		-44, -16, -20, -9, -1, 11, -6, -71,
		-19, -13, 1, 17, 16, 7, -37, -26,
	},
	{ // queen
		-28, 0, 29, 12, 59, 44, 43, 45,
		-24, -39, -5, 1, -16, 57, 28, 54,
		-13, -17, 7, 8, 29, 56, 47, 57,
		-27, -27, -16, -16, -1, 17, -2, 1,
		-9, -26, -9, -10, -2, -4, 3, -3,
		-14, 2, -11, -2, -5, 2, 14, 5,
		-35, -8, 11, 2, 8, 15, -3, 1,
		-1, -18, -9, 10, -15, -25, -31, -50,
	},
	{ // king
		-65, 23, 16, -15, -56, -34, 2, 13,
		29, -1, -20, -7, -8, -4, -38, -29,
		-9, 24, 2, -16, -20, 6, 22, -22,
		-17, -20, -12, -27, -30, -25, -14, -36,
		-49, -1, -27, -39, -46, -44, -33, -51,
		-14, -14, -22, -46, -44, -30, -15, -27,
		1, 7, -8, -64, -43, -16, 9, 8,
		-15, 36, 12, -54, 8, -28, 24, 14,
	},
}

var pstEG = [6][64]int32{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		178, 173, 158, 134, 147, 132, 165, 187,
		94, 100, 85, 67, 56, 53, 82, 84,
		32, 24, 13, 5, -2, 4, 17, 17,
		13, 9, -3, -7, -7, -8, 3, -1,
		4, 7, -6, 1, 0, -5, -1, -8,
		13, 8, 8, 10, 13, 0, 2, -7,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-58, -38, -13, -28, -31, -27, -63, -99,
		-25, -8, -25, -2, -9, -25, -24, -52,
		-24, -20, 10, 9, -1, -9, -19, -41,
		-17, 3, 22, 22, 22, 11, 8, -18,
		-18, -6, 16, 25, 16, 17, 4, -18,
		-23, -3, -1, 15, 10, -3, -20, -22,
		-42, -20, -10, -5, -2, -20, -23, -44,
		-29, -51, -23, -15, -22, -18, -50, -64,
	},
	{ // bishop
		-14, -21, -11, -8, -7, -9, -17, -24,
		-8, -4, 7, -12, -3, -13, -4, -14,
		2, -8, 0, -1, -2, 6, 0, 4,
		-3, 9, 12, 9, 14, 10, 3, 2,
		-6, 3, 13, 19, 7, 10, -3, -9,
		-12, -3, 8, 10, 13, 3, -7, -15,
		-14, -18, -7, -1, 4, -9, -15, -27,
		-23, -9, -23, -5, -9, -16, -5, -17,
	},
	{ // rook
		13, 10, 18, 15, 12, 12, 8, 5,
		11, 13, 13, 11, -3, 3, 8, 3,
		7, 7, 7, 5, 4, -3, -5, -3,
		4, 3, 13, 1, 2, 1, -1, 2,
		3, 5, 8, 4, -5, -6, -8, -11,
		-4, 0, -5, -1, -7, -12, -8, -16,
		-6, -6, 0, 2, -9, -9, -11, -3,
		-9, 2, 3, -1, -5, -13, 4, -20,
	},
	{ // queen
		-9, 22, 22, 27, 27, 19, 10, 20,
		-17, 20, 32, 41, 58, 25, 30, 0,
		-20, 6, 9, 49, 47, 35, 19, 9,
		3, 22, 24, 45, 57, 40, 57, 36,
		-18, 28, 19, 47, 31, 34, 39, 23,
		-16, -27, 15, 6, 9, 17, 10, 5,
		-22, -23, -30, -16, -16, -23, -36, -32,
		-33, -28, -22, -43, -5, -32, -20, -41,
	},
	{ // king
		-74, -35, -18, -18, -11, 15, 4, -17,
		-12, 17, 14, 17, 17, 38, 23, 11,
		10, 17, 23, 15, 20, 45, 44, 13,
		-8, 22, 24, 27, 26, 33, 26, 3,
		-18, -4, 21, 24, 27, 23, 9, -11,
		-19, -3, 11, 21, 23, 16, 7, -9,
		-27, -11, 4, 13, 14, 4, -5, -17,
		-53, -34, -21, -11, -28, -14, -24, -43,
	},
}

// Pawn structure terms.
var DoubledPawnMG, DoubledPawnEG int32 = -10, -15
var IsolatedPawnMG, IsolatedPawnEG int32 = -10, -15
var passedBonusMG = [8]int32{0, 5, 10, 15, 25, 40, 65, 0}
var passedBonusEG = [8]int32{0, 10, 15, 25, 45, 75, 120, 0}

var BishopPairMG, BishopPairEG int32 = 30, 50
var RookOpenFileMG, RookOpenFileEG int32 = 20, 10
var RookSemiOpenFileMG, RookSemiOpenFileEG int32 = 10, 5

// Mobility bonuses indexed by the number of attacked squares not occupied by
// own pieces, clamped to each piece's maximum.
var knightMobMG = [9]int32{-30, -20, -10, 0, 5, 10, 15, 20, 25}
var knightMobEG = [9]int32{-40, -25, -12, 0, 8, 14, 20, 24, 28}
var bishopMobMG = [14]int32{-25, -15, -5, 0, 5, 10, 15, 20, 24, 28, 31, 34, 37, 40}
var bishopMobEG = [14]int32{-35, -20, -8, 0, 8, 15, 21, 27, 32, 37, 41, 45, 48, 51}
var rookMobMG = [15]int32{-20, -12, -6, 0, 3, 6, 9, 12, 15, 18, 20, 22, 24, 25, 26}
var rookMobEG = [15]int32{-30, -15, -5, 5, 12, 19, 26, 32, 37, 42, 46, 49, 52, 54, 56}
var queenMobMG = [28]int32{-10, -7, -5, -3, -1, 0, 2, 4, 5, 7, 8, 10, 11, 12, 13, 14,
	15, 16, 17, 18, 18, 19, 19, 20, 20, 20, 21, 21}
var queenMobEG = [28]int32{-20, -14, -9, -5, -1, 3, 7, 10, 13, 16, 19, 22, 24, 26, 28, 30,
	32, 34, 35, 37, 38, 39, 40, 41, 42, 42, 43, 43}

// King safety: per-attacker weights and the danger curve, which rises from 0
// to 500 and accelerates through the middle.
var kingAttackerWeight = [6]int32{0, 2, 2, 3, 5, 0}

var kingDangerTable = [100]int32{
	0, 0, 1, 2, 3, 5, 7, 9, 12, 15,
	18, 22, 26, 30, 35, 39, 44, 50, 56, 62,
	68, 75, 82, 85, 89, 97, 105, 113, 122, 131,
	140, 150, 169, 180, 191, 202, 213, 225, 237, 248,
	260, 272, 283, 295, 307, 319, 330, 342, 354, 366,
	377, 389, 401, 412, 424, 436, 448, 459, 471, 483,
	494, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
}

const PawnShieldPenaltyMG int32 = -10

// adjacentFiles[f] is the files next to f; passedMask[c][sq] covers the same
// and adjacent files on every rank ahead of sq from c's point of view.
var adjacentFiles [8]board.Bitboard
var passedMask [2][64]board.Bitboard

func init() {
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= board.FileBB(f - 1)
		}
		if f < 7 {
			adjacentFiles[f] |= board.FileBB(f + 1)
		}
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		span := board.FileBB(sq.File()) | adjacentFiles[sq.File()]
		var ahead, behind board.Bitboard
		for r := sq.Rank() + 1; r < 8; r++ {
			ahead |= board.RankBB(r)
		}
		for r := 0; r < sq.Rank(); r++ {
			behind |= board.RankBB(r)
		}
		passedMask[board.White][sq] = span & ahead
		passedMask[board.Black][sq] = span & behind
	}
}

// Evaluate returns a centipawn score for the position from the side-to-move
// perspective.
func Evaluate(p *board.Position) int32 {
	var mg, eg, phase int32

	for c := board.White; c <= board.Black; c++ {
		sign := int32(1)
		if c == board.Black {
			sign = -1
		}
		own := p.Colors(c)

		for pt := board.Pawn; pt <= board.King; pt++ {
			for bb := p.PiecesOf(c, pt); bb != 0; {
				var sq board.Square
				sq, bb = bb.PopLSB()
				idx := int(sq)
				if c == board.White {
					idx = int(sq) ^ 56
				}
				mg += sign * (PieceValueMG[pt] + pstMG[pt][idx])
				eg += sign * (PieceValueEG[pt] + pstEG[pt][idx])
				phase += phaseWeight[pt]

				switch pt {
				case board.Knight:
					mob := clamp((board.KnightAttacks(sq) &^ own).PopCount(), 0, 8)
					mg += sign * knightMobMG[mob]
					eg += sign * knightMobEG[mob]
				case board.Bishop:
					mob := clamp((board.BishopAttacks(sq, p.Occupied()) &^ own).PopCount(), 0, 13)
					mg += sign * bishopMobMG[mob]
					eg += sign * bishopMobEG[mob]
				case board.Rook:
					mob := clamp((board.RookAttacks(sq, p.Occupied()) &^ own).PopCount(), 0, 14)
					mg += sign * rookMobMG[mob]
					eg += sign * rookMobEG[mob]
				case board.Queen:
					mob := clamp((board.QueenAttacks(sq, p.Occupied()) &^ own).PopCount(), 0, 27)
					mg += sign * queenMobMG[mob]
					eg += sign * queenMobEG[mob]
				}
			}
		}

		pmg, peg := pawnStructure(p, c)
		mg += sign * pmg
		eg += sign * peg

		if p.PiecesOf(c, board.Bishop).PopCount() >= 2 {
			mg += sign * BishopPairMG
			eg += sign * BishopPairEG
		}

		rmg, reg := rookFiles(p, c)
		mg += sign * rmg
		eg += sign * reg

		mg += sign * kingSafety(p, c)
	}

	if phase > totalPhase {
		phase = totalPhase
	}
	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase
	if p.SideToMove() == board.Black {
		return -score
	}
	return score
}

func pawnStructure(p *board.Position, c board.Color) (mg, eg int32) {
	own := p.PiecesOf(c, board.Pawn)
	enemy := p.PiecesOf(c.Other(), board.Pawn)

	for f := 0; f < 8; f++ {
		if n := int32((own & board.FileBB(f)).PopCount()); n > 1 {
			mg += (n - 1) * DoubledPawnMG
			eg += (n - 1) * DoubledPawnEG
		}
	}

	for bb := own; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopLSB()

		if passedMask[c][sq]&enemy == 0 {
			rel := sq.Rank()
			if c == board.Black {
				rel = 7 - rel
			}
			mg += passedBonusMG[rel]
			eg += passedBonusEG[rel]
		}
		if adjacentFiles[sq.File()]&own == 0 {
			mg += IsolatedPawnMG
			eg += IsolatedPawnEG
		}
	}
	return mg, eg
}

func rookFiles(p *board.Position, c board.Color) (mg, eg int32) {
	own := p.PiecesOf(c, board.Pawn)
	all := own | p.PiecesOf(c.Other(), board.Pawn)
	for bb := p.PiecesOf(c, board.Rook); bb != 0; {
		var sq board.Square
		sq, bb = bb.PopLSB()
		file := board.FileBB(sq.File())
		if all&file == 0 {
			mg += RookOpenFileMG
			eg += RookOpenFileEG
		} else if own&file == 0 {
			mg += RookSemiOpenFileMG
			eg += RookSemiOpenFileEG
		}
	}
	return mg, eg
}

// kingSafety returns the middlegame-only safety term for c's king: the pawn
// shield in front of a king on its first two ranks and a danger penalty scaled by the pieces
// bearing on the king zone.
func kingSafety(p *board.Position, c board.Color) int32 {
	var mg int32
	ksq := p.KingSquare(c)

	rel := ksq.Rank()
	if c == board.Black {
		rel = 7 - rel
	}
	if rel <= 1 {
		front := ksq.Rank() + 1
		if c == board.Black {
			front = ksq.Rank() - 1
		}
		own := p.PiecesOf(c, board.Pawn)
		for f := ksq.File() - 1; f <= ksq.File()+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			if !own.Has(board.SquareOf(f, front)) {
				mg += PawnShieldPenaltyMG
			}
		}
	}

	zone := board.KingAttacks(ksq) | board.BitOf(ksq)
	them := c.Other()
	var weight int32
	attackers := 0
	for pt := board.Knight; pt <= board.Queen; pt++ {
		for bb := p.PiecesOf(them, pt); bb != 0; {
			var sq board.Square
			sq, bb = bb.PopLSB()
			var att board.Bitboard
			switch pt {
			case board.Knight:
				att = board.KnightAttacks(sq)
			case board.Bishop:
				att = board.BishopAttacks(sq, p.Occupied())
			case board.Rook:
				att = board.RookAttacks(sq, p.Occupied())
			case board.Queen:
				att = board.QueenAttacks(sq, p.Occupied())
			}
			if att&zone != 0 {
				weight += kingAttackerWeight[pt]
				attackers++
			}
		}
	}
	if attackers >= 2 {
		mg -= kingDangerTable[min(int(weight), 99)]
	}
	return mg
}

// NonPawnMaterial returns the middlegame value of c's pieces other than pawns
// and the king; the null-move gate uses it.
func NonPawnMaterial(p *board.Position, c board.Color) int32 {
	var total int32
	for pt := board.Knight; pt <= board.Queen; pt++ {
		total += PieceValueMG[pt] * int32(p.PiecesOf(c, pt).PopCount())
	}
	return total
}
