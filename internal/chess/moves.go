package chess

// AttemptMove tries to move p from src to dst.
//
// With simulate set, g is never modified and the result only reports whether
// the move fits p's movement and occupancy rules (pseudo-legality). Attack
// detection is built on this mode. Without simulate the move is applied to g
// in place, including captures, castling rights, the en passant target and
// promotion, and false means nothing was changed.
//
// Whether the mover's own king is left in check is not considered here.
func AttemptMove(p Piece, src, dst Square, g *Game, simulate bool) bool {
	if !src.Valid() || !dst.Valid() || src == dst || p.Empty() {
		return false
	}
	switch p.Type {
	case Pawn:
		return movePawn(src, dst, p.Color, g, simulate)
	case Knight:
		return moveKnight(src, dst, p.Color, g, simulate)
	case Bishop:
		return moveSlider(src, dst, Piece{Type: Bishop, Color: p.Color}, g, simulate)
	case Rook:
		return moveSlider(src, dst, Piece{Type: Rook, Color: p.Color}, g, simulate)
	case Queen:
		return moveSlider(src, dst, Piece{Type: Queen, Color: p.Color}, g, simulate)
	case King:
		return moveKing(src, dst, p.Color, g, simulate)
	}
	return false
}

func homeRank(c Color) int {
	if c == Black {
		return 7
	}
	return 0
}

func isLastRank(sq Square) bool { return sq.Rank() == 0 || sq.Rank() == 7 }

func movePawn(src, dst Square, c Color, g *Game, simulate bool) bool {
	b := &g.Board
	dir, start := 1, 1
	if c == Black {
		dir, start = -1, 6
	}
	df := dst.File() - src.File()
	dr := dst.Rank() - src.Rank()

	epTarget := NoSquare
	passed := NoSquare
	switch {
	case df == 0 && dr == dir:
		if !b.At(dst).Empty() {
			return false
		}
	case df == 0 && dr == 2*dir:
		if src.Rank() != start {
			return false
		}
		mid := src.Offset(0, dir)
		if !b.At(mid).Empty() || !b.At(dst).Empty() {
			return false
		}
		epTarget = mid
	case abs(df) == 1 && dr == dir:
		target := b.At(dst)
		if target.Empty() {
			if !g.EnPassant.Valid() || dst != g.EnPassant {
				return false
			}
			passed = NewSquare(dst.File(), src.Rank())
			if b.At(passed) != (Piece{Type: Pawn, Color: c.Other()}) {
				return false
			}
		} else if target.Color == c {
			return false
		}
	default:
		return false
	}

	if simulate {
		return true
	}

	placed := Piece{Type: Pawn, Color: c}
	if isLastRank(dst) {
		switch g.promotion {
		case Knight, Bishop, Rook, Queen:
			placed.Type = g.promotion
		default:
			return false
		}
	}
	if passed.Valid() {
		b.Clear(passed)
	}
	relocate(g, src, dst, placed)
	g.EnPassant = epTarget
	return true
}

func moveKnight(src, dst Square, c Color, g *Game, simulate bool) bool {
	df := abs(dst.File() - src.File())
	dr := abs(dst.Rank() - src.Rank())
	if df == 0 || dr == 0 || df+dr != 3 {
		return false
	}
	if !enterable(&g.Board, dst, c) {
		return false
	}
	if !simulate {
		relocate(g, src, dst, Piece{Type: Knight, Color: c})
		g.EnPassant = NoSquare
	}
	return true
}

// moveSlider covers rooks, bishops and queens.
func moveSlider(src, dst Square, p Piece, g *Game, simulate bool) bool {
	df := dst.File() - src.File()
	dr := dst.Rank() - src.Rank()
	straight := df == 0 || dr == 0
	diagonal := abs(df) == abs(dr)
	switch p.Type {
	case Rook:
		if !straight {
			return false
		}
	case Bishop:
		if !diagonal {
			return false
		}
	default:
		if !straight && !diagonal {
			return false
		}
	}
	if !pathClear(&g.Board, src, dst) || !enterable(&g.Board, dst, p.Color) {
		return false
	}
	if !simulate {
		relocate(g, src, dst, p)
		g.EnPassant = NoSquare
	}
	return true
}

func moveKing(src, dst Square, c Color, g *Game, simulate bool) bool {
	b := &g.Board
	df := dst.File() - src.File()
	dr := dst.Rank() - src.Rank()
	if abs(dr) > 1 || abs(df) > 2 {
		return false
	}
	if !enterable(b, dst, c) {
		return false
	}
	king := Piece{Type: King, Color: c}

	if abs(df) == 2 {
		home := homeRank(c)
		if dr != 0 || src != NewSquare(4, home) {
			return false
		}
		kingside := df > 0
		rights := g.Castle[c]
		if (kingside && !rights.Kingside) || (!kingside && !rights.Queenside) {
			return false
		}
		step, rookFile := 1, 7
		if !kingside {
			step, rookFile = -1, 0
		}
		rookSq := NewSquare(rookFile, home)
		if b.At(rookSq) != (Piece{Type: Rook, Color: c}) {
			return false
		}
		// The destination lies between king and rook, so it is empty from here
		// on. Attack detection only ever targets occupied squares, which keeps
		// it from reaching this branch.
		for sq := src.Offset(step, 0); sq != rookSq; sq = sq.Offset(step, 0) {
			if !b.At(sq).Empty() {
				return false
			}
		}
		if IsAttacked(src, g) {
			return false
		}
		through := src.Offset(step, 0)
		probe := *g
		probe.Board.Set(through, king)
		probe.Board.Clear(src)
		if IsAttacked(through, &probe) {
			return false
		}
		if simulate {
			return true
		}
		b.Clear(rookSq)
		b.Set(through, Piece{Type: Rook, Color: c})
	} else if simulate {
		return true
	}

	relocate(g, src, dst, king)
	g.Castle[c] = CastleRights{}
	g.EnPassant = NoSquare
	return true
}

// relocate moves p from src to dst and clears any castling right tied to a
// rook corner that is vacated or captured on.
func relocate(g *Game, src, dst Square, p Piece) {
	dropRookRight(g, src)
	dropRookRight(g, dst)
	g.Board.Set(dst, p)
	g.Board.Clear(src)
}

func dropRookRight(g *Game, sq Square) {
	switch sq {
	case NewSquare(0, 0):
		g.Castle[White].Queenside = false
	case NewSquare(7, 0):
		g.Castle[White].Kingside = false
	case NewSquare(0, 7):
		g.Castle[Black].Queenside = false
	case NewSquare(7, 7):
		g.Castle[Black].Kingside = false
	}
}

// pathClear reports whether every square strictly between src and dst is
// empty. src and dst must share a line or diagonal.
func pathClear(b *Board, src, dst Square) bool {
	df := sign(dst.File() - src.File())
	dr := sign(dst.Rank() - src.Rank())
	for sq := src.Offset(df, dr); sq.Valid() && sq != dst; sq = sq.Offset(df, dr) {
		if !b.At(sq).Empty() {
			return false
		}
	}
	return true
}

// enterable reports whether a piece of color c may land on sq.
func enterable(b *Board, sq Square, c Color) bool {
	p := b.At(sq)
	return p.Empty() || p.Color != c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
