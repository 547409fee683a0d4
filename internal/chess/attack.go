package chess

// IsAttacked reports whether the piece standing on sq could be captured by any
// enemy piece. The occupant's color decides which side is the enemy, so an
// empty square is never attacked; callers that need to test an empty square
// place a probe piece on a copy first.
func IsAttacked(sq Square, g *Game) bool {
	target := g.Board.At(sq)
	if target.Empty() {
		return false
	}
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			from := NewSquare(f, r)
			p := g.Board.At(from)
			if p.Empty() || p.Color == target.Color {
				continue
			}
			if AttemptMove(p, from, sq, g, true) {
				return true
			}
		}
	}
	return false
}

// CheckedKing returns the square of the side to move's king when it is in
// check, and NoSquare otherwise.
func CheckedKing(g *Game) Square {
	king := g.Board.Find(Piece{Type: King, Color: g.Turn})
	if !king.Valid() || !IsAttacked(king, g) {
		return NoSquare
	}
	return king
}
