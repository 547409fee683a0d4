package notation

import (
	"errors"
	"testing"

	"github.com/park285/room-chess-bot/internal/chess"
)

func TestParseStandard(t *testing.T) {
	sq := chess.MustSquare
	cases := []struct {
		in   string
		want Intent
	}{
		{"e4", Intent{Kind: KindPiece, Piece: chess.Pawn, Dst: sq("e4"), SrcFile: -1, SrcRank: -1}},
		{"E4+", Intent{Kind: KindPiece, Piece: chess.Pawn, Dst: sq("e4"), SrcFile: -1, SrcRank: -1}},
		{"exd5", Intent{Kind: KindPiece, Piece: chess.Pawn, Dst: sq("d5"), SrcFile: 4, SrcRank: -1}},
		{"bxc3", Intent{Kind: KindPiece, Piece: chess.Pawn, Dst: sq("c3"), SrcFile: 1, SrcRank: -1}},
		{"Bxc3", Intent{Kind: KindPiece, Piece: chess.Bishop, Dst: sq("c3"), SrcFile: -1, SrcRank: -1}},
		{"Nf3", Intent{Kind: KindPiece, Piece: chess.Knight, Dst: sq("f3"), SrcFile: -1, SrcRank: -1}},
		{"nf3", Intent{Kind: KindPiece, Piece: chess.Knight, Dst: sq("f3"), SrcFile: -1, SrcRank: -1}},
		{"Nge4", Intent{Kind: KindPiece, Piece: chess.Knight, Dst: sq("e4"), SrcFile: 6, SrcRank: -1}},
		{"N3xe4#", Intent{Kind: KindPiece, Piece: chess.Knight, Dst: sq("e4"), SrcFile: -1, SrcRank: 2}},
		{"Qh4#", Intent{Kind: KindPiece, Piece: chess.Queen, Dst: sq("h4"), SrcFile: -1, SrcRank: -1}},
		{"Pe4", Intent{Kind: KindPiece, Piece: chess.Pawn, Dst: sq("e4"), SrcFile: -1, SrcRank: -1}},
		{"a8=Q", Intent{Kind: KindPiece, Piece: chess.Pawn, Dst: sq("a8"), SrcFile: -1, SrcRank: -1, Promotion: chess.Queen}},
		{"bxa8=n++", Intent{Kind: KindPiece, Piece: chess.Pawn, Dst: sq("a8"), SrcFile: 1, SrcRank: -1, Promotion: chess.Knight}},
		{"0-0", Intent{Kind: KindCastle, Kingside: true, SrcFile: -1, SrcRank: -1}},
		{"0-0-0", Intent{Kind: KindCastle, SrcFile: -1, SrcRank: -1}},
		{"O-O-O+", Intent{Kind: KindCastle, SrcFile: -1, SrcRank: -1}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseSimple(t *testing.T) {
	for _, in := range []string{"e2e4", "e2-e4", "e2 e4", "e2xe4", "E2E4", "e2e4+"} {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got.Kind != KindFromTo || got.Src != chess.MustSquare("e2") || got.Dst != chess.MustSquare("e4") {
			t.Fatalf("Parse(%q) = %+v", in, got)
		}
	}
	got, err := Parse("e7-e8=r")
	if err != nil || got.Kind != KindFromTo || got.Promotion != chess.Rook {
		t.Fatalf("Parse(e7-e8=r) = %+v, %v", got, err)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{
		"", "e", "e9", "i4", "Zf3", "Nf", "Nf3 extra", "e2e4e6", "e2--e4",
		"a8=K", "a8=", "e4!", "0-0-0-0", "xe4", "N", "e2/e4", "exd",
	} {
		if got, err := Parse(in); !errors.Is(err, chess.ErrSyntax) {
			t.Fatalf("Parse(%q) = %+v, %v; want ErrSyntax", in, got, err)
		}
	}
}
