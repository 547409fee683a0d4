package chess

import (
	"encoding/json"
	"fmt"
)

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	switch string(b) {
	case "white", "w":
		*c = White
	case "black", "b":
		*c = Black
	default:
		return fmt.Errorf("invalid color %q", b)
	}
	return nil
}

// PieceType identifies a kind of piece. The zero value is NoPieceType.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Letter returns the uppercase English letter for the type.
func (t PieceType) Letter() byte {
	switch t {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	return '?'
}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// PieceTypeFromLetter accepts both cases.
func PieceTypeFromLetter(c byte) (PieceType, bool) {
	switch c {
	case 'P', 'p':
		return Pawn, true
	case 'N', 'n':
		return Knight, true
	case 'B', 'b':
		return Bishop, true
	case 'R', 'r':
		return Rook, true
	case 'Q', 'q':
		return Queen, true
	case 'K', 'k':
		return King, true
	}
	return NoPieceType, false
}

// Piece is an immutable (type, color) pair. The zero value is NoPiece.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func (p Piece) Empty() bool { return p.Type == NoPieceType }

// FEN returns the piece letter, uppercase for white and lowercase for black.
func (p Piece) FEN() byte {
	if p.Empty() {
		return 0
	}
	c := p.Type.Letter()
	if p.Color == Black {
		c += 'a' - 'A'
	}
	return c
}

// PieceFromFEN is the inverse of Piece.FEN.
func PieceFromFEN(c byte) (Piece, bool) {
	t, ok := PieceTypeFromLetter(c)
	if !ok {
		return NoPiece, false
	}
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
	}
	return Piece{Type: t, Color: color}, true
}

func (p Piece) String() string {
	if p.Empty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}

func (p Piece) MarshalJSON() ([]byte, error) {
	if p.Empty() {
		return json.Marshal("")
	}
	return json.Marshal(string(p.FEN()))
}

func (p *Piece) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == "" {
		*p = NoPiece
		return nil
	}
	if len(v) != 1 {
		return fmt.Errorf("invalid piece %q", v)
	}
	pc, ok := PieceFromFEN(v[0])
	if !ok {
		return fmt.Errorf("invalid piece %q", v)
	}
	*p = pc
	return nil
}
