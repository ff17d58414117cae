package board

import (
	"errors"
	"strconv"
	"strings"
)

// StartPos is the FEN string for the standard initial position.
const StartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func pieceFromLetter(ch byte) Piece {
	for p, letter := range pieceLetters {
		if letter == ch {
			return Piece(p)
		}
	}
	return NoPiece
}

// ParseFEN decodes a 6-field FEN string into a Position. The clock fields may
// be omitted and default to 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.New("invalid FEN: not enough fields")
	}

	p := &Position{ep: NoSquare, fullmove: 1}
	for i := range p.mailbox {
		p.mailbox[i] = NoPiece
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("invalid FEN: incorrect number of ranks")
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc := pieceFromLetter(ch)
			if pc == NoPiece {
				return nil, errors.New("invalid FEN: unrecognized piece character")
			}
			if file >= 8 {
				return nil, errors.New("invalid FEN: too many squares in rank")
			}
			p.putPiece(pc, SquareOf(file, rank))
			file++
		}
		if file != 8 {
			return nil, errors.New("invalid FEN: rank does not have 8 columns")
		}
	}

	switch fields[1] {
	case "w":
		p.side = White
	case "b":
		p.side = Black
	default:
		return nil, errors.New("invalid FEN: side to move must be 'w' or 'b'")
	}

	if fields[2] != "-" {
		for j := 0; j < len(fields[2]); j++ {
			switch fields[2][j] {
			case 'K':
				p.castling |= WhiteKingside
			case 'Q':
				p.castling |= WhiteQueenside
			case 'k':
				p.castling |= BlackKingside
			case 'q':
				p.castling |= BlackQueenside
			default:
				return nil, errors.New("invalid FEN: invalid castling rights character")
			}
		}
	}

	if fields[3] != "-" {
		sq := ParseSquare(fields[3])
		if sq == NoSquare {
			return nil, errors.New("invalid FEN: invalid en passant square")
		}
		p.ep = sq
	}

	if len(fields) > 4 {
		halfmove, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, errors.New("invalid FEN: halfmove clock is not a number")
		}
		p.halfmove = halfmove
	}
	if len(fields) > 5 {
		fullmove, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, errors.New("invalid FEN: fullmove number is not a number")
		}
		p.fullmove = fullmove
	}

	p.hash = p.ComputeHash()
	return p, nil
}

// MustParseFEN is ParseFEN for known-good inputs; it panics on error.
func MustParseFEN(fen string) *Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// FEN encodes the position as a 6-field FEN string.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.mailbox[SquareOf(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	if p.side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.castling&WhiteKingside != 0 {
			sb.WriteByte('K')
		}
		if p.castling&WhiteQueenside != 0 {
			sb.WriteByte('Q')
		}
		if p.castling&BlackKingside != 0 {
			sb.WriteByte('k')
		}
		if p.castling&BlackQueenside != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	sb.WriteString(p.ep.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmove))
	return sb.String()
}
