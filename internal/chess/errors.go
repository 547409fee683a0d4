package chess

import (
	"errors"
	"fmt"
)

// Move input errors. All of them leave the game untouched.
var (
	ErrSyntax              = errors.New("invalid syntax")
	ErrAmbiguousMove       = errors.New("ambiguous move")
	ErrInvalidMove         = errors.New("invalid move")
	ErrInvalidPiece        = errors.New("invalid piece")
	ErrUnexpectedPromotion = errors.New("unexpected promote piece")
	ErrMissingPromotion    = errors.New("don't know what to promote to")
	ErrIllegalMove         = errors.New("illegal move")

	// ErrCastleNotAllowed is an ErrIllegalMove for a castle the king may not
	// make: the right is gone, the path is blocked or the king is attacked on
	// its way.
	ErrCastleNotAllowed = fmt.Errorf("%w: castling not allowed", ErrIllegalMove)
)
