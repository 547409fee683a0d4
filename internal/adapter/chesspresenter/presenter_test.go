package chesspresenter

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/park285/room-chess-bot/internal/identity"
	"github.com/park285/room-chess-bot/internal/msgcat"
	"github.com/park285/room-chess-bot/pkg/chessdto"
)

type sent struct {
	room  string
	kind  string
	value string
}

type fakeSender struct{ out []sent }

func (f *fakeSender) SendText(_ context.Context, room, message string) error {
	f.out = append(f.out, sent{room, "text", message})
	return nil
}

func (f *fakeSender) SendImage(_ context.Context, room, imageBase64 string) error {
	f.out = append(f.out, sent{room, "image", imageBase64})
	return nil
}

type fakeFetcher struct {
	urls []string
	body []byte
	err  error
}

func (f *fakeFetcher) Download(_ context.Context, rawURL string) ([]byte, error) {
	f.urls = append(f.urls, rawURL)
	return f.body, f.err
}

func TestImageURL(t *testing.T) {
	s := chessdto.BoardSnapshot{
		FEN:         "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR",
		Orientation: "black",
		LastMove:    "e2e4",
		Check:       "e8",
	}
	want := "https://backscattering.de/web-boardimage/board.png" +
		"?fen=rnbqkbnr%2Fpppppppp%2F8%2F8%2F4P3%2F8%2FPPPP1PPP%2FRNBQKBNR" +
		"&orientation=black&last_move=e2e4&check=e8"
	if got := ImageURL("", s); got != want {
		t.Fatalf("ImageURL =\n%s\nwant\n%s", got, want)
	}

	bare := ImageURL("http://img.local/board.png?size=400", chessdto.BoardSnapshot{FEN: "8/8/8/8/8/8/8/8"})
	if bare != "http://img.local/board.png?size=400&fen=8%2F8%2F8%2F8%2F8%2F8%2F8%2F8" {
		t.Fatalf("ImageURL with existing query = %s", bare)
	}
	if strings.Contains(bare, "orientation") || strings.Contains(bare, "check") {
		t.Fatalf("empty parameters must be omitted: %s", bare)
	}
}

func TestPresenterSendsFetchedImage(t *testing.T) {
	out := &fakeSender{}
	fetch := &fakeFetcher{body: []byte("PNG")}
	p := NewPresenter(out, fetch, "http://img.local/b.png", nil)
	if err := p.Board(context.Background(), "room", "White to move @alice", chessdto.BoardSnapshot{FEN: "8/8/8/8/8/8/8/8"}); err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(out.out) != 2 || out.out[0].kind != "text" || out.out[1].kind != "image" {
		t.Fatalf("sent = %+v", out.out)
	}
	if out.out[1].value != base64.StdEncoding.EncodeToString([]byte("PNG")) {
		t.Fatalf("image payload = %q", out.out[1].value)
	}
	if len(fetch.urls) != 1 || !strings.HasPrefix(fetch.urls[0], "http://img.local/b.png?fen=") {
		t.Fatalf("fetched %v", fetch.urls)
	}
}

func TestPresenterFallsBackToLink(t *testing.T) {
	out := &fakeSender{}
	p := NewPresenter(out, &fakeFetcher{err: errors.New("timeout")}, "", nil)
	if err := p.Board(context.Background(), "room", "", chessdto.BoardSnapshot{FEN: "8/8/8/8/8/8/8/8"}); err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(out.out) != 1 || out.out[0].kind != "text" || !strings.HasPrefix(out.out[0].value, DefaultImageBase) {
		t.Fatalf("sent = %+v", out.out)
	}

	linkOnly := &fakeSender{}
	if err := NewPresenter(linkOnly, nil, "", nil).Board(context.Background(), "room", "caption", chessdto.BoardSnapshot{}); err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(linkOnly.out) != 2 || linkOnly.out[1].value != DefaultImageBase {
		t.Fatalf("link-only sent = %+v", linkOnly.out)
	}
}

func newFormatter(t *testing.T) *Formatter {
	t.Helper()
	names := identity.NewMemoryDirectory()
	ctx := context.Background()
	_ = names.Remember(ctx, "1", "alice")
	_ = names.Remember(ctx, "2", "bob")
	return NewFormatter(StaticPrefix("!"), msgcat.MustDefault(), names)
}

func TestFormatterMessages(t *testing.T) {
	f := newFormatter(t)
	ctx := context.Background()
	board := chessdto.BoardSnapshot{White: "1", Black: "2", Turn: "white", ToMove: "1"}

	if got := f.Started(ctx, board); got != "Game started: alice plays white, bob plays black.\nWhite to move @alice" {
		t.Fatalf("Started = %q", got)
	}
	board.Turn, board.ToMove, board.Check = "black", "2", "e8"
	if got := f.ToMove(ctx, board); got != "Check! Black to move @bob" {
		t.Fatalf("ToMove = %q", got)
	}

	mate := chessdto.MoveSummary{Mover: "2", Opponent: "1", Result: "checkmate", Finished: true}
	if got := f.Move(ctx, mate); got != "Checkmate! bob wins! @alice lost." {
		t.Fatalf("checkmate = %q", got)
	}
	stale := chessdto.MoveSummary{Mover: "1", Opponent: "2", Result: "stalemate", Finished: true}
	if got := f.Move(ctx, stale); got != "Stalemate. Draw between alice and @bob." {
		t.Fatalf("stalemate = %q", got)
	}
	if got := f.Resigned(ctx, chessdto.GameOutcome{Winner: "2", Loser: "1"}); got != "alice resigned, @bob wins!" {
		t.Fatalf("resign = %q", got)
	}
	if got := f.OptionSet(ctx, "1", "flip", "false"); got != `Option "flip" set to false for alice` {
		t.Fatalf("option = %q", got)
	}
	if got := f.Text("chess.errors.unknown_option", nil); !strings.Contains(got, "!chess help") {
		t.Fatalf("prefix not injected: %q", got)
	}
}

func TestFormatterGamesAndUnknownNames(t *testing.T) {
	f := newFormatter(t)
	ctx := context.Background()
	if got := f.Games(ctx, nil); got != "No games in progress in this room." {
		t.Fatalf("empty list = %q", got)
	}
	got := f.Games(ctx, []chessdto.GameListing{{White: "1", Black: "9", ToMove: "9", MoveCount: 3}})
	want := "Games in this room (1):\n• alice vs <unknown>, 3 moves, <unknown> to move"
	if got != want {
		t.Fatalf("Games =\n%s\nwant\n%s", got, want)
	}
}

func TestSeeMoreFoldsAfterFirstLine(t *testing.T) {
	f := newFormatter(t)
	usage := f.Usage()
	head, rest, ok := strings.Cut(usage, kakaoZeroWidthSpace)
	if !ok || head != "♞ Room chess" {
		t.Fatalf("usage head = %q", head)
	}
	if !strings.HasSuffix(strings.TrimLeft(rest, kakaoZeroWidthSpace), "e2e4 / e2-e4.") {
		t.Fatalf("usage body lost: %q", rest)
	}
	if got := seeMore("single line"); got != "single line" {
		t.Fatalf("single line folded: %q", got)
	}

	var many []chessdto.GameListing
	for i := 0; i < foldGamesOver+1; i++ {
		many = append(many, chessdto.GameListing{White: "1", Black: "2", ToMove: "1"})
	}
	if listing := f.Games(context.Background(), many); !strings.Contains(listing, kakaoZeroWidthSpace) {
		t.Fatalf("long listing should be folded")
	}
}
