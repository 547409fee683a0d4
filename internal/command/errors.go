package command

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/chess"
	"github.com/park285/room-chess-bot/internal/pvpchess"
)

type unknownPlayerError struct{ name string }

func (e unknownPlayerError) Error() string { return "unknown player " + e.name }

// optionError keeps the option name for the reply.
type optionError struct {
	key string
	err error
}

func (e optionError) Error() string { return e.key + ": " + e.err.Error() }
func (e optionError) Unwrap() error { return e.err }

var errorKeys = []struct {
	err error
	key string
}{
	{chess.ErrSyntax, "chess.errors.syntax"},
	{chess.ErrAmbiguousMove, "chess.errors.ambiguous"},
	{chess.ErrInvalidPiece, "chess.errors.invalid_piece"},
	{chess.ErrInvalidMove, "chess.errors.invalid_move"},
	{chess.ErrUnexpectedPromotion, "chess.errors.unexpected_promotion"},
	{chess.ErrMissingPromotion, "chess.errors.missing_promotion"},
	{chess.ErrCastleNotAllowed, "chess.errors.illegal_castle"},
	{chess.ErrIllegalMove, "chess.errors.illegal_move"},
	{pvpchess.ErrNotInGame, "chess.errors.not_in_game"},
	{pvpchess.ErrWrongTurn, "chess.errors.wrong_turn"},
	{pvpchess.ErrUnknownOpponent, "chess.errors.unknown_opponent"},
	{pvpchess.ErrUnknownOption, "chess.errors.unknown_option"},
	{pvpchess.ErrInvalidOptionValue, "chess.errors.invalid_option_value"},
	{pvpchess.ErrPersistence, "chess.errors.persistence"},
}

// fail answers err in the room. Only failures that are not the player's
// fault are logged.
func (r *Router) fail(ctx context.Context, in Incoming, err error) error {
	var (
		already *pvpchess.AlreadyInGameError
		unknown unknownPlayerError
		option  optionError
	)
	data := map[string]any{}
	key := "chess.errors.internal"
	switch {
	case errors.As(err, &already):
		key = "chess.errors.already_in_game"
		data["Player"] = r.names.Name(ctx, already.Player)
	case errors.As(err, &unknown):
		key = "chess.errors.unknown_player"
		data["Name"] = unknown.name
	default:
		for _, e := range errorKeys {
			if errors.Is(err, e.err) {
				key = e.key
				break
			}
		}
		if errors.As(err, &option) {
			data["Key"] = option.key
		}
	}

	if !pvpchess.IsUserError(err) && key != "chess.errors.unknown_player" {
		r.logger.Error("chess_command_error",
			zap.String("group", in.Room),
			zap.String("user", in.UserID),
			zap.String("text", in.Text),
			zap.Error(err),
		)
	}
	return r.out.Text(ctx, in.Room, r.format.Text(key, data))
}
