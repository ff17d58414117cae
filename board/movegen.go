package board

// Pseudo-legal move generation from the attack tables, a make-and-test
// legality filter, and the game-termination predicates.

// GeneratePseudoLegal emits every pseudo-legal move for the side to move.
// Moves that leave the own king in check are included; filter with IsLegal or
// use GenerateLegal.
func (p *Position) GeneratePseudoLegal(ml *MoveList) {
	us := p.side
	own := p.byColor[us]
	them := p.byColor[us.Other()]
	occ := p.occupied

	p.genPawnMoves(ml, us, them, occ)

	for bb := p.PiecesOf(us, Knight); bb != 0; {
		var from Square
		from, bb = bb.PopLSB()
		addTargets(ml, from, knightAttackTable[from]&^own)
	}
	for bb := p.PiecesOf(us, Bishop); bb != 0; {
		var from Square
		from, bb = bb.PopLSB()
		addTargets(ml, from, BishopAttacks(from, occ)&^own)
	}
	for bb := p.PiecesOf(us, Rook); bb != 0; {
		var from Square
		from, bb = bb.PopLSB()
		addTargets(ml, from, RookAttacks(from, occ)&^own)
	}
	for bb := p.PiecesOf(us, Queen); bb != 0; {
		var from Square
		from, bb = bb.PopLSB()
		addTargets(ml, from, QueenAttacks(from, occ)&^own)
	}

	kingSq := p.KingSquare(us)
	addTargets(ml, kingSq, kingAttackTable[kingSq]&^own)
	p.genCastling(ml, us, occ)
}

func addTargets(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		var to Square
		to, targets = targets.PopLSB()
		ml.Add(NewMove(from, to, Normal))
	}
}

func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

func (p *Position) genPawnMoves(ml *MoveList, us Color, them, occ Bitboard) {
	pawns := p.PiecesOf(us, Pawn)

	var single, double, capLeft, capRight Bitboard
	var pushDelta, capLeftDelta, capRightDelta int
	var promoRank Bitboard
	if us == White {
		single = (pawns << 8) &^ occ
		double = ((single & Rank3) << 8) &^ occ
		capLeft = ((pawns << 7) &^ FileH) & them
		capRight = ((pawns << 9) &^ FileA) & them
		pushDelta, capLeftDelta, capRightDelta = -8, -7, -9
		promoRank = Rank8
	} else {
		single = (pawns >> 8) &^ occ
		double = ((single & Rank6) >> 8) &^ occ
		capLeft = ((pawns >> 9) &^ FileH) & them
		capRight = ((pawns >> 7) &^ FileA) & them
		pushDelta, capLeftDelta, capRightDelta = 8, 9, 7
		promoRank = Rank1
	}

	for bb := single; bb != 0; {
		var to Square
		to, bb = bb.PopLSB()
		from := Square(int(to) + pushDelta)
		if BitOf(to)&promoRank != 0 {
			addPromotions(ml, from, to)
		} else {
			ml.Add(NewMove(from, to, Normal))
		}
	}
	for bb := double; bb != 0; {
		var to Square
		to, bb = bb.PopLSB()
		ml.Add(NewMove(Square(int(to)+2*pushDelta), to, Normal))
	}
	for bb := capLeft; bb != 0; {
		var to Square
		to, bb = bb.PopLSB()
		from := Square(int(to) + capLeftDelta)
		if BitOf(to)&promoRank != 0 {
			addPromotions(ml, from, to)
		} else {
			ml.Add(NewMove(from, to, Normal))
		}
	}
	for bb := capRight; bb != 0; {
		var to Square
		to, bb = bb.PopLSB()
		from := Square(int(to) + capRightDelta)
		if BitOf(to)&promoRank != 0 {
			addPromotions(ml, from, to)
		} else {
			ml.Add(NewMove(from, to, Normal))
		}
	}

	if p.ep != NoSquare {
		// Pawns that attack the ep target are exactly the pawns an
		// opposite-color pawn on the target would attack.
		for bb := pawnAttackTable[us.Other()][p.ep] & pawns; bb != 0; {
			var from Square
			from, bb = bb.PopLSB()
			ml.Add(NewMove(from, p.ep, EnPassant))
		}
	}
}

func (p *Position) genCastling(ml *MoveList, us Color, occ Bitboard) {
	them := us.Other()
	if us == White {
		if p.castling&WhiteKingside != 0 &&
			occ&(BitOf(F1)|BitOf(G1)) == 0 &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
			ml.Add(NewMove(E1, G1, Castling))
		}
		if p.castling&WhiteQueenside != 0 &&
			occ&(BitOf(B1)|BitOf(C1)|BitOf(D1)) == 0 &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
			ml.Add(NewMove(E1, C1, Castling))
		}
	} else {
		if p.castling&BlackKingside != 0 &&
			occ&(BitOf(F8)|BitOf(G8)) == 0 &&
			!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
			ml.Add(NewMove(E8, G8, Castling))
		}
		if p.castling&BlackQueenside != 0 &&
			occ&(BitOf(B8)|BitOf(C8)|BitOf(D8)) == 0 &&
			!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
			ml.Add(NewMove(E8, C8, Castling))
		}
	}
}

// IsLegal reports whether the pseudo-legal move m leaves the mover's king
// safe. Tested on a scratch copy so the receiver is untouched.
func (p *Position) IsLegal(m Move) bool {
	cp := *p
	cp.MakeMove(m)
	return !cp.IsSquareAttacked(cp.KingSquare(p.side), cp.side)
}

// GenerateLegal emits every legal move for the side to move.
func (p *Position) GenerateLegal(ml *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)
	for i := 0; i < pseudo.Count; i++ {
		if p.IsLegal(pseudo.Moves[i]) {
			ml.Add(pseudo.Moves[i])
		}
	}
}

// GenerateLegalCaptures emits the legal captures and promotions, the move set
// quiescence search explores.
func (p *Position) GenerateLegalCaptures(ml *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)
	for i := 0; i < pseudo.Count; i++ {
		m := pseudo.Moves[i]
		if (p.IsCapture(m) || m.Kind() == Promotion) && p.IsLegal(m) {
			ml.Add(m)
		}
	}
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)
	for i := 0; i < pseudo.Count; i++ {
		if p.IsLegal(pseudo.Moves[i]) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// FindMove resolves a wire-format move string ("e2e4", "e7e8q") against the
// legal moves of this position. A promotion with no letter defaults to queen.
// Returns NullMove if the string matches no legal move.
func (p *Position) FindMove(s string) Move {
	if len(s) < 4 {
		return NullMove
	}
	from := ParseSquare(s[0:2])
	to := ParseSquare(s[2:4])
	if from == NoSquare || to == NoSquare {
		return NullMove
	}
	promo := NoPieceType
	if len(s) >= 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove
		}
	}

	var legal MoveList
	p.GenerateLegal(&legal)
	for i := 0; i < legal.Count; i++ {
		m := legal.Moves[i]
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Kind() == Promotion {
			want := promo
			if want == NoPieceType {
				want = Queen
			}
			if m.Promo() != want {
				continue
			}
		} else if promo != NoPieceType {
			continue
		}
		return m
	}
	return NullMove
}
