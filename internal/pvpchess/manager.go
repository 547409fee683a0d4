package pvpchess

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/chess"
	"github.com/park285/room-chess-bot/internal/chess/notation"
	"github.com/park285/room-chess-bot/internal/obslog"
	"github.com/park285/room-chess-bot/internal/storage"
)

// Manager runs two-player games inside groups. A player is in at most one
// live game per group. All state lives in the group document owned by the
// storage.Store; every mutation is a single exclusive session.
type Manager struct {
	store   *storage.Store
	archive ResultSink
	logger  *zap.Logger

	now  func() time.Time
	coin func() bool
}

func NewManager(store *storage.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = obslog.L()
	}
	return &Manager{store: store, logger: logger, now: time.Now, coin: coinFlip}
}

// AttachArchive wires a sink for finished games.
func (m *Manager) AttachArchive(s ResultSink) {
	if m != nil {
		m.archive = s
	}
}

// coinFlip uses crypto/rand for an unbiased color draw.
func coinFlip() bool {
	n, err := rand.Int(rand.Reader, big.NewInt(2))
	return err == nil && n.Int64() == 1
}

func persistErr(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// update and read report group documents that cannot be loaded as
// ErrPersistence.
func (m *Manager) update(ctx context.Context, group string, fn func(*storage.Guard) error) error {
	return loadErr(m.store.Update(ctx, group, fn))
}

func (m *Manager) read(ctx context.Context, group string, fn func(*storage.GroupGameState) error) error {
	return loadErr(m.store.Read(ctx, group, fn))
}

func loadErr(err error) error {
	if errors.Is(err, storage.ErrLoad) {
		return persistErr(err)
	}
	return err
}

// Start opens a game between a and b. Colors are assigned by a coin flip.
func (m *Manager) Start(ctx context.Context, group, a, b string) (*chess.Game, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" || a == b {
		return nil, ErrUnknownOpponent
	}
	var started *chess.Game
	err := m.update(ctx, group, func(g *storage.Guard) error {
		st := g.State()
		for _, p := range []string{a, b} {
			if st.GameOf(p) != nil {
				g.Discard()
				return &AlreadyInGameError{Player: p}
			}
		}
		white, black := a, b
		if m.coin() {
			white, black = b, a
		}
		game := chess.NewGame(uuid.NewString(), white, black)
		game.StartedAt = m.now()
		st.Games = append(st.Games, game)
		started = game.Clone()
		if err := g.Commit(ctx); err != nil {
			return persistErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("chess_game_start",
		zap.String("group", group),
		zap.String("game_id", started.ID),
		zap.String("white", started.White),
		zap.String("black", started.Black),
	)
	return started, nil
}

// ApplyMove parses text, resolves it against player's game and plays it. The
// game leaves the group when the move ends it.
func (m *Manager) ApplyMove(ctx context.Context, group, player, text string) (*MoveResult, error) {
	var res *MoveResult
	err := m.update(ctx, group, func(g *storage.Guard) error {
		st := g.State()
		game := st.GameOf(player)
		if game == nil {
			g.Discard()
			return ErrNotInGame
		}
		if c, _ := game.ColorOf(player); c != game.Turn {
			g.Discard()
			return ErrWrongTurn
		}
		in, err := notation.Parse(strings.TrimSpace(text))
		if err != nil {
			g.Discard()
			return err
		}
		mv, err := notation.Resolve(in, game)
		if err != nil {
			g.Discard()
			return err
		}
		if err := game.Play(mv); err != nil {
			g.Discard()
			return err
		}
		result := chess.Classify(game)
		res = &MoveResult{
			Group:    group,
			Game:     game.Clone(),
			Move:     mv,
			Mover:    player,
			Opponent: game.Opponent(player),
			Result:   result,
			Check:    chess.CheckedKing(game),
		}
		if result.Terminal() {
			st.RemoveGame(game.ID)
		}
		if err := g.Commit(ctx); err != nil {
			return persistErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("chess_move",
		zap.String("group", group),
		zap.String("game_id", res.Game.ID),
		zap.String("player", player),
		zap.String("move", res.Move.String()),
		zap.String("result", res.Result.String()),
	)
	if o := outcomeFor(group, res, m.now()); o != nil {
		m.finish(ctx, o)
	}
	return res, nil
}

// Resign ends player's game in favor of the opponent.
func (m *Manager) Resign(ctx context.Context, group, player string) (*Outcome, error) {
	var out *Outcome
	err := m.update(ctx, group, func(g *storage.Guard) error {
		st := g.State()
		game := st.GameOf(player)
		if game == nil {
			g.Discard()
			return ErrNotInGame
		}
		st.RemoveGame(game.ID)
		out = &Outcome{
			Group:   group,
			Game:    game.Clone(),
			Winner:  game.Opponent(player),
			Loser:   player,
			Method:  MethodResignation,
			EndedAt: m.now(),
		}
		if err := g.Commit(ctx); err != nil {
			return persistErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("chess_resign",
		zap.String("group", group),
		zap.String("game_id", out.Game.ID),
		zap.String("resigner", player),
		zap.String("winner", out.Winner),
	)
	m.finish(ctx, out)
	return out, nil
}

// finish logs the end of a game and archives it. Archive failures are only
// logged: the group document is already up to date.
func (m *Manager) finish(ctx context.Context, o *Outcome) {
	m.logger.Info("chess_game_end",
		zap.String("group", o.Group),
		zap.String("game_id", o.Game.ID),
		zap.String("method", string(o.Method)),
		zap.String("winner", o.Winner),
		zap.Bool("draw", o.Draw),
	)
	if m.archive == nil {
		return
	}
	if err := m.archive.SaveResult(ctx, o); err != nil {
		m.logger.Error("chess_result_archive_error", zap.String("game_id", o.Game.ID), zap.Error(err))
	}
}

// Board returns player's game for display.
func (m *Manager) Board(ctx context.Context, group, player string) (*BoardView, error) {
	var view *BoardView
	err := m.read(ctx, group, func(st *storage.GroupGameState) error {
		game := st.GameOf(player)
		if game == nil {
			return ErrNotInGame
		}
		c, _ := game.ColorOf(player)
		view = &BoardView{
			Game:    game.Clone(),
			Viewer:  player,
			Color:   c,
			Options: st.OptionsOf(player),
			Check:   chess.CheckedKing(game),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Games lists the group's live games.
func (m *Manager) Games(ctx context.Context, group string) ([]*chess.Game, error) {
	var out []*chess.Game
	err := m.read(ctx, group, func(st *storage.GroupGameState) error {
		for _, g := range st.Games {
			out = append(out, g.Clone())
		}
		return nil
	})
	return out, err
}

// DisplayOptions returns player's options; unknown players get the defaults.
func (m *Manager) DisplayOptions(ctx context.Context, group, player string) (storage.DisplayOptions, error) {
	opts := storage.DefaultDisplayOptions()
	err := m.read(ctx, group, func(st *storage.GroupGameState) error {
		opts = st.OptionsOf(player)
		return nil
	})
	return opts, err
}

// SetDisplayOption changes one option. Only "flip" with "true" or "false" is
// known.
func (m *Manager) SetDisplayOption(ctx context.Context, group, player, key, value string) (storage.DisplayOptions, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.ToLower(strings.TrimSpace(value))
	var flip bool
	switch {
	case key != "flip":
		return storage.DisplayOptions{}, ErrUnknownOption
	case value == "true":
		flip = true
	case value == "false":
		flip = false
	default:
		return storage.DisplayOptions{}, ErrInvalidOptionValue
	}

	var opts storage.DisplayOptions
	err := m.update(ctx, group, func(g *storage.Guard) error {
		o := g.State().MutableOptions(player)
		o.Flip = flip
		opts = *o
		if err := g.Commit(ctx); err != nil {
			return persistErr(err)
		}
		return nil
	})
	if err != nil {
		return storage.DisplayOptions{}, err
	}
	m.logger.Info("chess_option_set",
		zap.String("group", group),
		zap.String("player", player),
		zap.String("key", key),
		zap.Bool("value", flip),
	)
	return opts, nil
}
