package chesspresenter

import (
	"context"
	"strings"

	"github.com/park285/room-chess-bot/internal/identity"
	"github.com/park285/room-chess-bot/internal/msgcat"
	"github.com/park285/room-chess-bot/pkg/chessdto"
)

// PrefixProvider exposes the command prefix messages should mention.
type PrefixProvider interface {
	Prefix() string
}

// Longer room listings are folded like the usage text.
const foldGamesOver = 5

type staticPrefix string

func (p staticPrefix) Prefix() string { return string(p) }

// StaticPrefix wraps a fixed prefix.
func StaticPrefix(p string) PrefixProvider { return staticPrefix(p) }

// Formatter renders chess DTOs into chat text using the message catalog.
// Player ids are turned into display names through the identity directory.
type Formatter struct {
	prefixProvider PrefixProvider
	catalog        *msgcat.Catalog
	names          identity.Directory
}

func NewFormatter(provider PrefixProvider, catalog *msgcat.Catalog, names identity.Directory) *Formatter {
	if catalog == nil {
		catalog = msgcat.MustDefault()
	}
	if names == nil {
		names = identity.NewMemoryDirectory()
	}
	return &Formatter{prefixProvider: provider, catalog: catalog, names: names}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

// Text renders an arbitrary catalog key. Prefix is always available to the
// template.
func (f *Formatter) Text(key string, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Prefix"]; !ok {
		data["Prefix"] = f.Prefix()
	}
	return f.catalog.Text(key, data)
}

// Usage is folded behind Kakao's "see more" cut after its first line.
func (f *Formatter) Usage() string {
	return seeMore(f.Text("chess.usage", nil))
}

func (f *Formatter) name(ctx context.Context, id string) string {
	return f.names.Name(ctx, id)
}

func (f *Formatter) mention(ctx context.Context, id string) string {
	return "@" + f.names.Name(ctx, id)
}

// Started announces a new game followed by whose turn it is.
func (f *Formatter) Started(ctx context.Context, s chessdto.BoardSnapshot) string {
	head := f.Text("chess.start", map[string]any{
		"White": f.name(ctx, s.White),
		"Black": f.name(ctx, s.Black),
	})
	return head + "\n" + f.ToMove(ctx, s)
}

// ToMove is the caption shown with a board in an ongoing game.
func (f *Formatter) ToMove(ctx context.Context, s chessdto.BoardSnapshot) string {
	key := "chess.to_move.white"
	if s.Turn == "black" {
		key = "chess.to_move.black"
	}
	line := f.Text(key, map[string]any{"Player": f.mention(ctx, s.ToMove)})
	if s.Check != "" {
		line = f.Text("chess.check", nil) + " " + line
	}
	return line
}

// Move captions the board shown after an accepted move. Finished games get
// the result line instead of the turn prompt.
func (f *Formatter) Move(ctx context.Context, m chessdto.MoveSummary) string {
	switch m.Result {
	case "checkmate":
		return f.Text("chess.checkmate", map[string]any{
			"Winner": f.name(ctx, m.Mover),
			"Loser":  f.mention(ctx, m.Opponent),
		})
	case "stalemate":
		return f.Text("chess.stalemate", map[string]any{
			"Mover":    f.name(ctx, m.Mover),
			"Opponent": f.mention(ctx, m.Opponent),
		})
	}
	return f.ToMove(ctx, m.Board)
}

func (f *Formatter) Resigned(ctx context.Context, o chessdto.GameOutcome) string {
	return f.Text("chess.resign", map[string]any{
		"Loser":  f.name(ctx, o.Loser),
		"Winner": f.mention(ctx, o.Winner),
	})
}

func (f *Formatter) OptionSet(ctx context.Context, player, key, value string) string {
	return f.Text("chess.option_set", map[string]any{
		"Key":    key,
		"Value":  value,
		"Player": f.name(ctx, player),
	})
}

func (f *Formatter) Games(ctx context.Context, games []chessdto.GameListing) string {
	if len(games) == 0 {
		return f.Text("chess.games.empty", nil)
	}
	lines := []string{f.Text("chess.games.header", map[string]any{"Count": len(games)})}
	fold := len(games) > foldGamesOver
	for _, g := range games {
		lines = append(lines, f.Text("chess.games.row", map[string]any{
			"White":  f.name(ctx, g.White),
			"Black":  f.name(ctx, g.Black),
			"Moves":  g.MoveCount,
			"ToMove": f.name(ctx, g.ToMove),
		}))
	}
	out := strings.Join(lines, "\n")
	if fold {
		return seeMore(out)
	}
	return out
}
