package pvpchess

import (
	"github.com/park285/room-chess-bot/internal/chess"
	"github.com/park285/room-chess-bot/internal/storage"
	"github.com/park285/room-chess-bot/pkg/chessdto"
)

// Snapshot builds the presenter view of game as seen by viewer. With flip
// enabled the board is oriented towards the viewer's side.
func Snapshot(game *chess.Game, viewer string, opts storage.DisplayOptions) chessdto.BoardSnapshot {
	s := chessdto.BoardSnapshot{
		GameID:    game.ID,
		White:     game.White,
		Black:     game.Black,
		Turn:      game.Turn.String(),
		ToMove:    game.PlayerOf(game.Turn),
		FEN:       game.Board.FEN(),
		MoveCount: len(game.Moves),
	}
	if c, ok := game.ColorOf(viewer); ok && opts.Flip {
		s.Orientation = c.String()
	}
	if from, to := game.LastMove[0], game.LastMove[1]; from.Valid() && to.Valid() {
		s.LastMove = from.String() + to.String()
	}
	if k := chess.CheckedKing(game); k.Valid() {
		s.Check = k.String()
	}
	return s
}

func (v *BoardView) Snapshot() chessdto.BoardSnapshot {
	return Snapshot(v.Game, v.Viewer, v.Options)
}

// Summary renders the result for the player who moves next, using that
// player's display options.
func (r *MoveResult) Summary(opponentOpts storage.DisplayOptions) chessdto.MoveSummary {
	return chessdto.MoveSummary{
		Board:    Snapshot(r.Game, r.Opponent, opponentOpts),
		Mover:    r.Mover,
		Opponent: r.Opponent,
		Move:     r.Move.String(),
		Result:   r.Result.String(),
		Finished: r.Result.Terminal(),
	}
}

func (o *Outcome) DTO() chessdto.GameOutcome {
	return chessdto.GameOutcome{
		GameID: o.Game.ID,
		Winner: o.Winner,
		Loser:  o.Loser,
		Draw:   o.Draw,
		Method: string(o.Method),
	}
}

func Listing(games []*chess.Game) []chessdto.GameListing {
	out := make([]chessdto.GameListing, 0, len(games))
	for _, g := range games {
		out = append(out, chessdto.GameListing{
			GameID:    g.ID,
			White:     g.White,
			Black:     g.Black,
			ToMove:    g.PlayerOf(g.Turn),
			MoveCount: len(g.Moves),
			StartedAt: g.StartedAt,
		})
	}
	return out
}
