package pvpchess

import (
	"errors"

	"github.com/park285/room-chess-bot/internal/chess"
)

// Session errors. Everything except ErrPersistence is caused by player input
// and leaves the room state untouched.
var (
	ErrNotInGame          = errf("not in a game")
	ErrWrongTurn          = errf("not your turn")
	ErrUnknownOpponent    = errf("cannot play against yourself")
	ErrAlreadyInGame      = errf("already in a game")
	ErrUnknownOption      = errf("unknown option")
	ErrInvalidOptionValue = errf("invalid option value")
	ErrInvalidPiece       = chess.ErrInvalidPiece

	// 저장 실패: 변경 사항은 버려지고 사용자에게 재시도를 안내
	ErrPersistence = errf("game state could not be saved")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error        { return staticErr(s) }

// AlreadyInGameError names the player that blocked a new game.
type AlreadyInGameError struct {
	Player string
}

func (e *AlreadyInGameError) Error() string { return e.Player + " is already in a game" }

func (e *AlreadyInGameError) Is(target error) bool { return target == ErrAlreadyInGame }

var userErrors = []error{
	chess.ErrSyntax,
	chess.ErrAmbiguousMove,
	chess.ErrInvalidMove,
	chess.ErrInvalidPiece,
	chess.ErrUnexpectedPromotion,
	chess.ErrMissingPromotion,
	chess.ErrIllegalMove,
	ErrNotInGame,
	ErrWrongTurn,
	ErrUnknownOpponent,
	ErrAlreadyInGame,
	ErrUnknownOption,
	ErrInvalidOptionValue,
}

// IsUserError reports whether err was caused by player input rather than a
// system failure.
func IsUserError(err error) bool {
	if err == nil {
		return false
	}
	for _, u := range userErrors {
		if errors.Is(err, u) {
			return true
		}
	}
	return false
}
