// Package notation turns move text typed by players into concrete moves.
package notation

import (
	"strings"

	"github.com/park285/room-chess-bot/internal/chess"
)

// Kind tags the shape of a parsed move.
type Kind uint8

const (
	// KindPiece names a piece type and destination; the source is found on the board.
	KindPiece Kind = iota
	// KindFromTo carries an explicit source and destination.
	KindFromTo
	// KindCastle is 0-0 or 0-0-0.
	KindCastle
)

// Intent is a parsed but unresolved move.
type Intent struct {
	Kind      Kind
	Kingside  bool
	Piece     chess.PieceType
	Src       chess.Square
	Dst       chess.Square
	SrcFile   int // -1 when absent
	SrcRank   int // -1 when absent
	Promotion chess.PieceType
}

// Parse reads one move. Standard algebraic input is tried first, then the
// coordinate form "e2e4" / "e2-e4" / "e2 e4" / "e2xe4". Either form may end with
// "=Q" style promotion and a "+", "++" or "#" annotation. Anything else is
// chess.ErrSyntax.
func Parse(s string) (Intent, error) {
	if in, ok := parseStandard(s); ok {
		return in, nil
	}
	if in, ok := parseSimple(s); ok {
		return in, nil
	}
	return Intent{}, chess.ErrSyntax
}

func parseStandard(s string) (Intent, bool) {
	in, rest, ok := standardHead(s)
	if !ok {
		return Intent{}, false
	}
	promo, ok := suffix(rest)
	if !ok {
		return Intent{}, false
	}
	in.Promotion = promo
	return in, true
}

// standardHead commits to the first alternative whose prefix matches.
func standardHead(s string) (Intent, string, bool) {
	for _, c := range []struct {
		tag      string
		kingside bool
	}{
		{"0-0-0", false}, {"O-O-O", false}, {"0-0", true}, {"O-O", true},
	} {
		if strings.HasPrefix(s, c.tag) {
			return Intent{Kind: KindCastle, Kingside: c.kingside, SrcFile: -1, SrcRank: -1}, s[len(c.tag):], true
		}
	}

	if dst, rest, ok := square(s); ok {
		return pieceIntent(chess.Pawn, dst, -1, -1), rest, true
	}

	// "exd5"; an uppercase B always means a bishop here
	if len(s) >= 4 && s[0] != 'B' && isCapture(s[1]) {
		if from, ok := chess.FileIndex(s[0]); ok {
			if dst, rest, ok := square(s[2:]); ok {
				return pieceIntent(chess.Pawn, dst, from, -1), rest, true
			}
		}
	}

	if len(s) == 0 {
		return Intent{}, "", false
	}
	pt, ok := chess.PieceTypeFromLetter(s[0])
	if !ok {
		return Intent{}, "", false
	}
	rest := s[1:]
	file, rank := -1, -1
	if _, _, isDst := destination(rest); !isDst && rest != "" {
		if f, ok := chess.FileIndex(rest[0]); ok {
			file, rest = f, rest[1:]
		} else if r, ok := chess.RankIndex(rest[0]); ok {
			rank, rest = r, rest[1:]
		}
	}
	dst, rest, ok := destination(rest)
	if !ok {
		return Intent{}, "", false
	}
	return pieceIntent(pt, dst, file, rank), rest, true
}

func parseSimple(s string) (Intent, bool) {
	src, rest, ok := square(s)
	if !ok {
		return Intent{}, false
	}
	if rest != "" && strings.IndexByte(" -xX", rest[0]) >= 0 {
		rest = rest[1:]
	}
	dst, rest, ok := square(rest)
	if !ok {
		return Intent{}, false
	}
	promo, ok := suffix(rest)
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: KindFromTo, Src: src, Dst: dst, SrcFile: -1, SrcRank: -1, Promotion: promo}, true
}

func pieceIntent(pt chess.PieceType, dst chess.Square, file, rank int) Intent {
	return Intent{Kind: KindPiece, Piece: pt, Dst: dst, SrcFile: file, SrcRank: rank}
}

// suffix consumes an optional promotion and check annotation and requires the
// input to end there.
func suffix(s string) (chess.PieceType, bool) {
	promo := chess.NoPieceType
	if len(s) >= 2 && s[0] == '=' {
		switch s[1] {
		case 'q', 'Q':
			promo = chess.Queen
		case 'n', 'N':
			promo = chess.Knight
		case 'b', 'B':
			promo = chess.Bishop
		case 'r', 'R':
			promo = chess.Rook
		default:
			return chess.NoPieceType, false
		}
		s = s[2:]
	}
	switch s {
	case "", "+", "++", "#":
		return promo, true
	}
	return chess.NoPieceType, false
}

// destination is a square optionally preceded by a capture marker.
func destination(s string) (chess.Square, string, bool) {
	if s != "" && isCapture(s[0]) {
		s = s[1:]
	}
	return square(s)
}

func square(s string) (chess.Square, string, bool) {
	if len(s) < 2 {
		return chess.NoSquare, s, false
	}
	f, ok := chess.FileIndex(s[0])
	if !ok {
		return chess.NoSquare, s, false
	}
	r, ok := chess.RankIndex(s[1])
	if !ok {
		return chess.NoSquare, s, false
	}
	return chess.NewSquare(f, r), s[2:], true
}

func isCapture(c byte) bool { return c == 'x' || c == 'X' }
