package notation

import "github.com/park285/room-chess-bot/internal/chess"

// Resolve finds the concrete move an intent refers to in g. Only the source
// square is resolved here; whether the move is legal is left to Game.Play.
func Resolve(in Intent, g *chess.Game) (chess.Move, error) {
	var src, dst chess.Square
	switch in.Kind {
	case KindCastle:
		rights := g.Castle[g.Turn]
		if (in.Kingside && !rights.Kingside) || (!in.Kingside && !rights.Queenside) {
			return chess.Move{}, chess.ErrCastleNotAllowed
		}
		home := 0
		if g.Turn == chess.Black {
			home = 7
		}
		to := 2
		if in.Kingside {
			to = 6
		}
		src, dst = chess.NewSquare(4, home), chess.NewSquare(to, home)
	case KindFromTo:
		src, dst = in.Src, in.Dst
	case KindPiece:
		found, err := findSource(in, g)
		if err != nil {
			return chess.Move{}, err
		}
		src, dst = found, in.Dst
	default:
		return chess.Move{}, chess.ErrSyntax
	}

	if src == dst {
		return chess.Move{}, chess.ErrInvalidMove
	}

	p := g.Board.At(src)
	promotes := p.Type == chess.Pawn && (dst.Rank() == 0 || dst.Rank() == 7)
	switch {
	case promotes && in.Promotion == chess.NoPieceType:
		return chess.Move{}, chess.ErrMissingPromotion
	case !promotes && in.Promotion != chess.NoPieceType:
		return chess.Move{}, chess.ErrUnexpectedPromotion
	}
	return chess.Move{From: src, To: dst, Promotion: in.Promotion}, nil
}

func findSource(in Intent, g *chess.Game) (chess.Square, error) {
	want := chess.Piece{Type: in.Piece, Color: g.Turn}
	found := chess.NoSquare
	for f := 0; f < 8; f++ {
		if in.SrcFile >= 0 && in.SrcFile != f {
			continue
		}
		for r := 0; r < 8; r++ {
			if in.SrcRank >= 0 && in.SrcRank != r {
				continue
			}
			sq := chess.NewSquare(f, r)
			if g.Board.At(sq) != want || !chess.AttemptMove(want, sq, in.Dst, g, true) {
				continue
			}
			if found.Valid() {
				return chess.NoSquare, chess.ErrAmbiguousMove
			}
			found = sq
		}
	}
	if !found.Valid() {
		return chess.NoSquare, chess.ErrInvalidMove
	}
	return found, nil
}
