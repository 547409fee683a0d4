package chess

import (
	"fmt"
	"strings"
	"time"
)

// CastleRights records which castles a side may still perform. Rights are only
// ever cleared.
type CastleRights struct {
	Kingside  bool `json:"kingside"`
	Queenside bool `json:"queenside"`
}

// Move is a resolved source/destination pair.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String returns coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += strings.ToLower(string(m.Promotion.Letter()))
	}
	return s
}

// ParseMove reads the coordinate notation produced by Move.String.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		t, ok := PieceTypeFromLetter(s[4])
		if !ok || t == Pawn || t == King {
			return Move{}, fmt.Errorf("invalid promotion in %q", s)
		}
		m.Promotion = t
	}
	return m, nil
}

// Game is one two-player match. Players are opaque identifiers.
type Game struct {
	ID        string          `json:"id"`
	White     string          `json:"white"`
	Black     string          `json:"black"`
	Turn      Color           `json:"turn"`
	Castle    [2]CastleRights `json:"castle"`
	EnPassant Square          `json:"en_passant"`
	Board     Board           `json:"board"`
	LastMove  [2]Square       `json:"last_move"`
	Moves     []string        `json:"moves,omitempty"`
	StartedAt time.Time       `json:"started_at"`

	// promotion is set only while a single move is being applied.
	promotion PieceType
}

// NewGame sets up the initial position with white to move.
func NewGame(id, white, black string) *Game {
	return &Game{
		ID:        id,
		White:     white,
		Black:     black,
		Turn:      White,
		Castle:    [2]CastleRights{{Kingside: true, Queenside: true}, {Kingside: true, Queenside: true}},
		EnPassant: NoSquare,
		Board:     StartingBoard(),
		LastMove:  [2]Square{NoSquare, NoSquare},
		StartedAt: time.Now(),
	}
}

// Clone returns a deep copy.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Moves = append([]string(nil), g.Moves...)
	return &c
}

// SetPromotion stores the piece a pawn reaching the last rank turns into.
func (g *Game) SetPromotion(t PieceType) { g.promotion = t }

// Has reports whether player takes part in the game.
func (g *Game) Has(player string) bool {
	return player != "" && (g.White == player || g.Black == player)
}

// ColorOf returns the side played by player.
func (g *Game) ColorOf(player string) (Color, bool) {
	switch player {
	case "":
		return White, false
	case g.White:
		return White, true
	case g.Black:
		return Black, true
	}
	return White, false
}

// PlayerOf returns the identifier playing c.
func (g *Game) PlayerOf(c Color) string {
	if c == Black {
		return g.Black
	}
	return g.White
}

// Opponent returns the other participant, or "" when player is not in the game.
func (g *Game) Opponent(player string) string {
	c, ok := g.ColorOf(player)
	if !ok {
		return ""
	}
	return g.PlayerOf(c.Other())
}

// Play applies m for the side to move. The position is built on a scratch copy
// and only copied back when the mover's king is safe afterwards.
func (g *Game) Play(m Move) error {
	p := g.Board.At(m.From)
	if p.Empty() || p.Color != g.Turn {
		return ErrInvalidPiece
	}
	next := g.Clone()
	next.promotion = m.Promotion
	if !AttemptMove(p, m.From, m.To, next, false) {
		if p.Type == King && abs(m.To.File()-m.From.File()) == 2 {
			return ErrCastleNotAllowed
		}
		return ErrInvalidMove
	}
	if CheckedKing(next).Valid() {
		return ErrIllegalMove
	}
	next.promotion = NoPieceType
	next.LastMove = [2]Square{m.From, m.To}
	next.Moves = append(next.Moves, m.String())
	next.Turn = g.Turn.Other()
	*g = *next
	return nil
}
