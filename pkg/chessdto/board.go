package chessdto

import "time"

// BoardSnapshot is everything a presenter needs to show one position.
type BoardSnapshot struct {
	GameID      string
	White       string
	Black       string
	Turn        string // "white" | "black"
	ToMove      string // player id whose turn it is
	FEN         string // piece placement field
	Orientation string // "" keeps the renderer default
	LastMove    string // "e2e4", empty before the first move
	Check       string // square of a checked king, e.g. "e8"
	MoveCount   int
}

// MoveSummary describes an accepted move.
type MoveSummary struct {
	Board    BoardSnapshot
	Mover    string
	Opponent string
	Move     string
	Result   string // "ongoing" | "checkmate" | "stalemate"
	Finished bool
}

// GameOutcome is reported when a game leaves the room, by resignation or a
// terminal position.
type GameOutcome struct {
	GameID string
	Winner string
	Loser  string
	Draw   bool
	Method string // "checkmate" | "stalemate" | "resignation"
}

// GameListing is one row of the room's live games.
type GameListing struct {
	GameID    string
	White     string
	Black     string
	ToMove    string
	MoveCount int
	StartedAt time.Time
}
