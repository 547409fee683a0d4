package chess

import (
	"fmt"
	"strings"
)

// Board is an 8x8 grid indexed [rank][file]. It is a value type; copying a
// Board copies every square.
type Board [8][8]Piece

// At returns the piece on sq, or NoPiece for empty or off-board squares.
func (b *Board) At(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	return b[sq.Rank()][sq.File()]
}

// Set places p on sq. Off-board squares are ignored.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	b[sq.Rank()][sq.File()] = p
}

func (b *Board) Clear(sq Square) { b.Set(sq, NoPiece) }

// Find returns the first square holding p, scanning a1..h8.
func (b *Board) Find(p Piece) Square {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b[r][f] == p {
				return NewSquare(f, r)
			}
		}
	}
	return NoSquare
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingBoard returns the standard initial position.
func StartingBoard() Board {
	var b Board
	for f, t := range backRank {
		b[0][f] = Piece{Type: t, Color: White}
		b[1][f] = Piece{Type: Pawn, Color: White}
		b[6][f] = Piece{Type: Pawn, Color: Black}
		b[7][f] = Piece{Type: t, Color: Black}
	}
	return b
}

// FEN encodes the piece placement field: ranks 8 to 1 separated by '/',
// runs of empty squares as digits.
func (b *Board) FEN() string {
	var sb strings.Builder
	sb.Grow(71)
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b[r][f]
			if p.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.FEN())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ParseBoard decodes a placement field produced by FEN. A full FEN record is
// accepted; everything after the first space is ignored.
func ParseBoard(fen string) (Board, error) {
	var b Board
	placement := strings.TrimSpace(fen)
	if i := strings.IndexByte(placement, ' '); i >= 0 {
		placement = placement[:i]
	}
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return Board{}, fmt.Errorf("fen: expected 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		r := 7 - i
		f := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				f += int(c - '0')
				continue
			}
			p, ok := PieceFromFEN(c)
			if !ok {
				return Board{}, fmt.Errorf("fen: invalid piece %q in rank %d", c, r+1)
			}
			if f > 7 {
				return Board{}, fmt.Errorf("fen: rank %d overflows", r+1)
			}
			b[r][f] = p
			f++
		}
		if f != 8 {
			return Board{}, fmt.Errorf("fen: rank %d has %d squares", r+1, f)
		}
	}
	return b, nil
}

// String renders an ASCII diagram, white at the bottom. Debug only.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		sb.WriteByte(byte('1' + r))
		sb.WriteByte(' ')
		for f := 0; f < 8; f++ {
			if p := b[r][f]; p.Empty() {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(p.FEN())
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh")
	return sb.String()
}
