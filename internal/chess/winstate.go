package chess

// Result classifies a position for the side to move.
type Result uint8

const (
	Ongoing Result = iota
	Checkmate
	Stalemate
)

func (r Result) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Terminal reports whether the game is over.
func (r Result) Terminal() bool { return r != Ongoing }

// Classify searches every source/destination pair for a move that leaves the
// mover's king safe. The board is fixed-size, so the exhaustive scan is bounded.
// g is not modified.
func Classify(g *Game) Result {
	found := false
	forEachCandidate(g, func(Move) bool {
		found = true
		return false
	})
	if found {
		return Ongoing
	}
	if CheckedKing(g).Valid() {
		return Checkmate
	}
	return Stalemate
}

// LegalMoves lists every legal move for the side to move. Pawn moves onto
// the last rank appear once per promotion piece.
func LegalMoves(g *Game) []Move {
	var out []Move
	forEachCandidate(g, func(m Move) bool {
		if g.Board.At(m.From).Type == Pawn && isLastRank(m.To) {
			for _, t := range [...]PieceType{Queen, Rook, Bishop, Knight} {
				out = append(out, Move{From: m.From, To: m.To, Promotion: t})
			}
			return true
		}
		out = append(out, m)
		return true
	})
	return out
}

// forEachCandidate calls fn for each legal move until fn returns false.
// Promotions are tried as a queen.
func forEachCandidate(g *Game, fn func(Move) bool) {
	for src := range allSquares() {
		p := g.Board.At(src)
		if p.Empty() || p.Color != g.Turn {
			continue
		}
		for dst := range allSquares() {
			if src == dst || !AttemptMove(p, src, dst, g, true) {
				continue
			}
			scratch := *g
			scratch.Moves = nil
			if p.Type == Pawn && isLastRank(dst) {
				scratch.promotion = Queen
			}
			if !AttemptMove(p, src, dst, &scratch, false) || CheckedKing(&scratch).Valid() {
				continue
			}
			if !fn(Move{From: src, To: dst}) {
				return
			}
		}
	}
}

// allSquares yields a1..h8.
func allSquares() func(func(Square) bool) {
	return func(yield func(Square) bool) {
		for r := 0; r < 8; r++ {
			for f := 0; f < 8; f++ {
				if !yield(NewSquare(f, r)) {
					return
				}
			}
		}
	}
}
