package pvpchess

import (
	"time"

	"github.com/park285/room-chess-bot/internal/chess"
	"github.com/park285/room-chess-bot/internal/storage"
)

// Method records how a game ended.
type Method string

const (
	MethodCheckmate   Method = "checkmate"
	MethodStalemate   Method = "stalemate"
	MethodResignation Method = "resignation"
)

// MoveResult is returned for an accepted move. Game is a copy taken after the
// move; when Result is terminal the game has already left the room.
type MoveResult struct {
	Group    string
	Game     *chess.Game
	Move     chess.Move
	Mover    string
	Opponent string
	Result   chess.Result
	Check    chess.Square
}

// Outcome describes a game that has ended.
type Outcome struct {
	Group   string
	Game    *chess.Game
	Winner  string
	Loser   string
	Draw    bool
	Method  Method
	EndedAt time.Time
}

// BoardView is a read-only copy of a game as seen by one participant.
type BoardView struct {
	Game    *chess.Game
	Viewer  string
	Color   chess.Color
	Options storage.DisplayOptions
	Check   chess.Square
}

func outcomeFor(group string, res *MoveResult, at time.Time) *Outcome {
	o := &Outcome{Group: group, Game: res.Game, EndedAt: at}
	switch res.Result {
	case chess.Checkmate:
		o.Winner, o.Loser, o.Method = res.Mover, res.Opponent, MethodCheckmate
	case chess.Stalemate:
		o.Draw, o.Method = true, MethodStalemate
	default:
		return nil
	}
	return o
}
