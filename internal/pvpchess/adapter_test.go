package pvpchess

import (
	"testing"

	"github.com/park285/room-chess-bot/internal/chess"
	"github.com/park285/room-chess-bot/internal/storage"
)

func TestSnapshotOrientation(t *testing.T) {
	g := chess.NewGame("g1", "w", "b")
	if err := g.Play(chess.Move{From: chess.MustSquare("e2"), To: chess.MustSquare("e4")}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	flip := storage.DisplayOptions{Flip: true}

	white := Snapshot(g, "w", flip)
	black := Snapshot(g, "b", flip)
	if white.Orientation != "white" || black.Orientation != "black" {
		t.Fatalf("orientation: white=%q black=%q", white.Orientation, black.Orientation)
	}
	if noFlip := Snapshot(g, "b", storage.DisplayOptions{}); noFlip.Orientation != "" {
		t.Fatalf("flip off should keep the default orientation, got %q", noFlip.Orientation)
	}
	if white.LastMove != "e2e4" || white.Check != "" || white.ToMove != "b" || white.Turn != "black" {
		t.Fatalf("unexpected snapshot: %+v", white)
	}
	if white.FEN != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Fatalf("FEN = %q", white.FEN)
	}
}

func TestSnapshotCheckSquare(t *testing.T) {
	g := chess.NewGame("g1", "w", "b")
	for _, s := range []string{"e2e4", "f7f6", "d1h5"} {
		m, _ := chess.ParseMove(s)
		if err := g.Play(m); err != nil {
			t.Fatalf("Play(%s): %v", s, err)
		}
	}
	if s := Snapshot(g, "w", storage.DefaultDisplayOptions()); s.Check != "e8" {
		t.Fatalf("check = %q, want e8", s.Check)
	}
}

func TestMoveResultSummaryFacesOpponent(t *testing.T) {
	g := chess.NewGame("g1", "w", "b")
	m := chess.Move{From: chess.MustSquare("d2"), To: chess.MustSquare("d4")}
	if err := g.Play(m); err != nil {
		t.Fatalf("Play: %v", err)
	}
	res := &MoveResult{Game: g, Move: m, Mover: "w", Opponent: "b", Result: chess.Ongoing}
	sum := res.Summary(storage.DefaultDisplayOptions())
	if sum.Board.Orientation != "black" || sum.Move != "d2d4" || sum.Finished {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}
