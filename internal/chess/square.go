package chess

import (
	"encoding/json"
	"fmt"
)

// Square is a board coordinate packed as file | rank<<4.
// Bits 3 and 7 are never set for a real square, so s&0x88 != 0 means off-board.
type Square uint8

// NoSquare is the off-board sentinel.
const NoSquare Square = 0x88

// NewSquare packs file and rank (both 0-7). Out-of-range input yields NoSquare.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(file | rank<<4)
}

// Valid reports whether s addresses a board square.
func (s Square) Valid() bool { return s&0x88 == 0 }

func (s Square) File() int { return int(s & 7) }
func (s Square) Rank() int { return int(s>>4) & 7 }

// Offset moves s by df files and dr ranks, returning NoSquare when it leaves the board.
func (s Square) Offset(df, dr int) Square {
	if !s.Valid() {
		return NoSquare
	}
	return NewSquare(s.File()+df, s.Rank()+dr)
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare accepts "e4" style coordinates; the file letter is case-insensitive.
func ParseSquare(v string) (Square, error) {
	if len(v) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", v)
	}
	f, ok := FileIndex(v[0])
	if !ok {
		return NoSquare, fmt.Errorf("invalid square %q", v)
	}
	r, ok := RankIndex(v[1])
	if !ok {
		return NoSquare, fmt.Errorf("invalid square %q", v)
	}
	return NewSquare(f, r), nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(v string) Square {
	sq, err := ParseSquare(v)
	if err != nil {
		panic(err)
	}
	return sq
}

// FileIndex maps a-h / A-H to 0-7.
func FileIndex(c byte) (int, bool) {
	switch {
	case c >= 'a' && c <= 'h':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'H':
		return int(c - 'A'), true
	}
	return 0, false
}

// RankIndex maps 1-8 to 0-7.
func RankIndex(c byte) (int, bool) {
	if c >= '1' && c <= '8' {
		return int(c - '1'), true
	}
	return 0, false
}

// Squares are stored as "e4", or "" for NoSquare.
func (s Square) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return json.Marshal("")
	}
	return json.Marshal(s.String())
}

func (s *Square) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == "" || v == "-" {
		*s = NoSquare
		return nil
	}
	sq, err := ParseSquare(v)
	if err != nil {
		return err
	}
	*s = sq
	return nil
}
