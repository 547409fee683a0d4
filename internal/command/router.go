package command

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/adapter/chesspresenter"
	"github.com/park285/room-chess-bot/internal/identity"
	"github.com/park285/room-chess-bot/internal/obslog"
	"github.com/park285/room-chess-bot/internal/pvpchess"
	"github.com/park285/room-chess-bot/internal/storage"
	"github.com/park285/room-chess-bot/pkg/chessdto"
)

// Incoming is one chat line, already stripped of transport details.
type Incoming struct {
	Room   string
	UserID string
	Sender string // display name
	Text   string
}

// Presenter is what the router needs from chesspresenter.Presenter.
type Presenter interface {
	Text(ctx context.Context, room, message string) error
	Board(ctx context.Context, room, caption string, s chessdto.BoardSnapshot) error
}

type Config struct {
	Prefix       string
	AllowedRooms []string
}

// Router maps "<prefix>chess ..." lines onto the session manager and replies
// in the room the command came from.
type Router struct {
	prefix  string
	allowed map[string]struct{}

	manager *pvpchess.Manager
	names   identity.Directory
	format  *chesspresenter.Formatter
	out     Presenter
	logger  *zap.Logger
}

func NewRouter(cfg Config, manager *pvpchess.Manager, names identity.Directory, format *chesspresenter.Formatter, out Presenter, logger *zap.Logger) *Router {
	if logger == nil {
		logger = obslog.L()
	}
	r := &Router{
		prefix:  strings.TrimSpace(cfg.Prefix),
		manager: manager,
		names:   names,
		format:  format,
		out:     out,
		logger:  logger,
	}
	if len(cfg.AllowedRooms) > 0 {
		r.allowed = make(map[string]struct{}, len(cfg.AllowedRooms))
		for _, room := range cfg.AllowedRooms {
			r.allowed[room] = struct{}{}
		}
	}
	return r
}

var commandNames = map[string]bool{"chess": true, "체스": true}

// Handle processes one chat line. Every line in an allowed room refreshes
// the sender's display name. The returned error only reports failed
// replies; command failures are answered in the room.
func (r *Router) Handle(ctx context.Context, in Incoming) error {
	if !r.roomAllowed(in.Room) {
		return nil
	}
	if err := r.names.Remember(ctx, in.UserID, in.Sender); err != nil {
		r.logger.Warn("identity_remember_error", zap.String("user", in.UserID), zap.Error(err))
	}
	args, ok := r.split(in.Text)
	if !ok || strings.TrimSpace(in.UserID) == "" {
		return nil
	}
	err := r.dispatch(ctx, in, args)
	if err == nil {
		return nil
	}
	return r.fail(ctx, in, err)
}

func (r *Router) roomAllowed(room string) bool {
	if r.allowed == nil {
		return true
	}
	_, ok := r.allowed[room]
	return ok
}

// split returns the arguments after "<prefix>chess".
func (r *Router) split(text string) ([]string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, r.prefix) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, r.prefix))
	if len(fields) == 0 || !commandNames[strings.ToLower(fields[0])] {
		return nil, false
	}
	return fields[1:], true
}

func (r *Router) dispatch(ctx context.Context, in Incoming, args []string) error {
	if len(args) == 0 {
		return r.out.Text(ctx, in.Room, r.format.Usage())
	}
	switch strings.ToLower(args[0]) {
	case "start":
		if len(args) == 1 {
			return r.out.Text(ctx, in.Room, r.format.Text("chess.errors.missing_opponent", nil))
		}
		return r.start(ctx, in, strings.Join(args[1:], " "))
	case "resign":
		return r.resign(ctx, in)
	case "help", "?":
		return r.out.Text(ctx, in.Room, r.format.Usage())
	case "board":
		return r.board(ctx, in)
	case "games":
		return r.games(ctx, in)
	case "option":
		if len(args) != 3 {
			return r.out.Text(ctx, in.Room, r.format.Usage())
		}
		return r.option(ctx, in, args[1], args[2])
	case "move":
		if len(args) == 1 {
			return r.out.Text(ctx, in.Room, r.format.Usage())
		}
		return r.move(ctx, in, strings.Join(args[1:], " "))
	default:
		return r.move(ctx, in, strings.Join(args, " "))
	}
}

func (r *Router) start(ctx context.Context, in Incoming, target string) error {
	opponent, err := r.resolvePlayer(ctx, target)
	if err != nil {
		return err
	}
	game, err := r.manager.Start(ctx, in.Room, in.UserID, opponent)
	if err != nil {
		return err
	}
	snap := pvpchess.Snapshot(game, game.White, r.optionsOf(ctx, in.Room, game.White))
	return r.out.Board(ctx, in.Room, r.format.Started(ctx, snap), snap)
}

func (r *Router) move(ctx context.Context, in Incoming, notation string) error {
	res, err := r.manager.ApplyMove(ctx, in.Room, in.UserID, notation)
	if err != nil {
		return err
	}
	summary := res.Summary(r.optionsOf(ctx, in.Room, res.Opponent))
	return r.out.Board(ctx, in.Room, r.format.Move(ctx, summary), summary.Board)
}

func (r *Router) resign(ctx context.Context, in Incoming) error {
	o, err := r.manager.Resign(ctx, in.Room, in.UserID)
	if err != nil {
		return err
	}
	return r.out.Text(ctx, in.Room, r.format.Resigned(ctx, o.DTO()))
}

func (r *Router) board(ctx context.Context, in Incoming) error {
	view, err := r.manager.Board(ctx, in.Room, in.UserID)
	if err != nil {
		return err
	}
	snap := view.Snapshot()
	return r.out.Board(ctx, in.Room, r.format.ToMove(ctx, snap), snap)
}

func (r *Router) games(ctx context.Context, in Incoming) error {
	games, err := r.manager.Games(ctx, in.Room)
	if err != nil {
		return err
	}
	return r.out.Text(ctx, in.Room, r.format.Games(ctx, pvpchess.Listing(games)))
}

func (r *Router) option(ctx context.Context, in Incoming, key, value string) error {
	opts, err := r.manager.SetDisplayOption(ctx, in.Room, in.UserID, key, value)
	if err != nil {
		return optionError{key: strings.ToLower(key), err: err}
	}
	return r.out.Text(ctx, in.Room, r.format.OptionSet(ctx, in.UserID, "flip", strconv.FormatBool(opts.Flip)))
}

// optionsOf falls back to the defaults when the room cannot be read; the
// move itself has already been stored.
func (r *Router) optionsOf(ctx context.Context, room, player string) storage.DisplayOptions {
	opts, err := r.manager.DisplayOptions(ctx, room, player)
	if err != nil {
		r.logger.Warn("chess_options_read_error", zap.String("group", room), zap.String("player", player), zap.Error(err))
		return storage.DefaultDisplayOptions()
	}
	return opts
}

// resolvePlayer accepts "<@id>", "@name", a bare name or a bare id. Names
// are only known once their owner has spoken in an allowed room.
func (r *Router) resolvePlayer(ctx context.Context, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		if id := strings.TrimSpace(s[2 : len(s)-1]); id != "" {
			return id, nil
		}
		return "", unknownPlayerError{name: raw}
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "@"))
	if id, ok := r.names.Lookup(ctx, s); ok {
		return id, nil
	}
	if s != "" && r.names.Name(ctx, s) != identity.Unknown {
		return s, nil
	}
	return "", unknownPlayerError{name: raw}
}
