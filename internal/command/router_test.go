package command

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/adapter/chesspresenter"
	"github.com/park285/room-chess-bot/internal/identity"
	"github.com/park285/room-chess-bot/internal/msgcat"
	"github.com/park285/room-chess-bot/internal/pvpchess"
	"github.com/park285/room-chess-bot/internal/storage"
	"github.com/park285/room-chess-bot/pkg/chessdto"
)

type reply struct {
	room    string
	text    string
	board   *chessdto.BoardSnapshot
	caption string
}

type fakePresenter struct {
	mu      sync.Mutex
	replies []reply
}

func (p *fakePresenter) Text(_ context.Context, room, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply{room: room, text: message})
	return nil
}

func (p *fakePresenter) Board(_ context.Context, room, caption string, s chessdto.BoardSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply{room: room, caption: caption, board: &s})
	return nil
}

func (p *fakePresenter) last(t *testing.T) reply {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.replies) == 0 {
		t.Fatalf("no reply sent")
	}
	return p.replies[len(p.replies)-1]
}

func (p *fakePresenter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.replies)
}

type fixture struct {
	router  *Router
	manager *pvpchess.Manager
	out     *fakePresenter
	mr      *miniredis.Miniredis
}

func newFixture(t *testing.T, allowed ...string) *fixture {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	rdb, err := storage.DialRedis(context.Background(), fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("storage.DialRedis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	names := identity.NewRedisDirectory(rdb, zap.NewNop())
	mgr := pvpchess.NewManager(storage.NewStore(storage.NewRedisBackend(rdb), zap.NewNop()), zap.NewNop())
	out := &fakePresenter{}
	format := chesspresenter.NewFormatter(chesspresenter.StaticPrefix("!"), msgcat.MustDefault(), names)
	r := NewRouter(Config{Prefix: "!", AllowedRooms: allowed}, mgr, names, format, out, zap.NewNop())
	return &fixture{router: r, manager: mgr, out: out, mr: mr}
}

var players = map[string]string{"alice": "1", "bob": "2", "carol": "3"}

func (f *fixture) say(t *testing.T, who, text string) reply {
	t.Helper()
	before := f.out.count()
	if err := f.router.Handle(context.Background(), Incoming{Room: "room", UserID: players[who], Sender: who, Text: text}); err != nil {
		t.Fatalf("Handle(%q): %v", text, err)
	}
	if f.out.count() == before {
		t.Fatalf("%s: %q got no reply", who, text)
	}
	return f.out.last(t)
}

// introduce lets everyone speak once so their names are known.
func (f *fixture) introduce(t *testing.T) {
	t.Helper()
	for who, id := range players {
		if err := f.router.Handle(context.Background(), Incoming{Room: "room", UserID: id, Sender: who, Text: "hi"}); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}
	if f.out.count() != 0 {
		t.Fatalf("plain chat must not be answered")
	}
}

// startGame starts alice vs bob and returns the names of white and black.
func (f *fixture) startGame(t *testing.T) (string, string) {
	t.Helper()
	f.introduce(t)
	rep := f.say(t, "alice", "!chess start @bob")
	if rep.board == nil || !strings.HasPrefix(rep.caption, "Game started") {
		t.Fatalf("start reply = %+v", rep)
	}
	games, err := f.manager.Games(context.Background(), "room")
	if err != nil || len(games) != 1 {
		t.Fatalf("Games = %v, %v", games, err)
	}
	white, black := "alice", "bob"
	if games[0].White == players["bob"] {
		white, black = "bob", "alice"
	}
	if rep.board.ToMove != players[white] || !strings.Contains(rep.caption, "White to move @"+white) {
		t.Fatalf("start caption = %q", rep.caption)
	}
	return white, black
}

func TestHelpAndUsage(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"!chess", "!chess help", "!CHESS ?", "!체스"} {
		rep := f.say(t, "alice", text)
		if !strings.Contains(rep.text, "!chess start <@opponent>") {
			t.Fatalf("%q: reply = %q", text, rep.text)
		}
	}
	if rep := f.say(t, "alice", "!chess option flip"); !strings.Contains(rep.text, "!chess help") {
		t.Fatalf("option without value should print usage, got %q", rep.text)
	}
	if rep := f.say(t, "alice", "!chess start"); !strings.Contains(rep.text, "Who do you want to play?") {
		t.Fatalf("start without opponent = %q", rep.text)
	}
}

func TestIgnoresOtherTraffic(t *testing.T) {
	f := newFixture(t, "room")
	for _, text := range []string{"chess help", "!chessboard", "!other", ""} {
		if err := f.router.Handle(context.Background(), Incoming{Room: "room", UserID: "1", Sender: "alice", Text: text}); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}
	if err := f.router.Handle(context.Background(), Incoming{Room: "elsewhere", UserID: "1", Sender: "alice", Text: "!chess help"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if f.out.count() != 0 {
		t.Fatalf("unexpected replies: %+v", f.out.replies)
	}
}

func TestStartErrors(t *testing.T) {
	f := newFixture(t)
	f.introduce(t)
	if rep := f.say(t, "alice", "!chess start @dave"); rep.text != "I don't know @dave yet. They need to say something in this room first." {
		t.Fatalf("unknown opponent = %q", rep.text)
	}
	if rep := f.say(t, "alice", "!chess start @alice"); rep.text != "Choose someone else to play against." {
		t.Fatalf("self play = %q", rep.text)
	}
	f.say(t, "alice", "!chess start <@2>")
	if rep := f.say(t, "carol", "!chess start bob"); rep.text != "bob is already in a game." {
		t.Fatalf("busy opponent = %q", rep.text)
	}
}

func TestPlayThroughCommands(t *testing.T) {
	f := newFixture(t)
	white, black := f.startGame(t)

	rep := f.say(t, white, "!chess e4")
	if rep.board == nil || rep.board.LastMove != "e2e4" || rep.caption != "Black to move @"+black {
		t.Fatalf("after e4: %+v", rep)
	}
	if rep.board.Orientation != "black" {
		t.Fatalf("board should face the player to move, got %q", rep.board.Orientation)
	}
	if rep := f.say(t, white, "!chess d4"); rep.text != "It's not your turn." {
		t.Fatalf("wrong turn = %q", rep.text)
	}
	if rep := f.say(t, black, "!chess zz9"); !strings.HasPrefix(rep.text, "Could not read that move.") {
		t.Fatalf("syntax = %q", rep.text)
	}
	if rep := f.say(t, black, "!chess move e7 e5"); rep.board == nil || rep.board.LastMove != "e7e5" {
		t.Fatalf("move with a space: %+v", rep)
	}
	if rep := f.say(t, white, "!chess Ke3"); rep.text != "Invalid move." {
		t.Fatalf("king jump = %q", rep.text)
	}
	if rep := f.say(t, "carol", "!chess e4"); !strings.HasPrefix(rep.text, "You are not in a game.") {
		t.Fatalf("outsider = %q", rep.text)
	}

	rep = f.say(t, black, "!chess board")
	if rep.board == nil || rep.caption != "White to move @"+white || rep.board.Orientation != "black" {
		t.Fatalf("board = %+v", rep)
	}

	rep = f.say(t, "carol", "!chess games")
	if !strings.HasPrefix(rep.text, "Games in this room (1):") || !strings.Contains(rep.text, "2 moves") {
		t.Fatalf("games = %q", rep.text)
	}
}

func TestFoolsMateEndsGame(t *testing.T) {
	f := newFixture(t)
	white, black := f.startGame(t)
	f.say(t, white, "!chess f3")
	f.say(t, black, "!chess e5")
	f.say(t, white, "!chess g4")
	rep := f.say(t, black, "!chess Qh4#")
	if rep.caption != fmt.Sprintf("Checkmate! %s wins! @%s lost.", black, white) {
		t.Fatalf("mate caption = %q", rep.caption)
	}
	if rep.board == nil || rep.board.Check != "e1" {
		t.Fatalf("final board = %+v", rep.board)
	}
	if rep := f.say(t, white, "!chess board"); !strings.HasPrefix(rep.text, "You are not in a game.") {
		t.Fatalf("after mate = %q", rep.text)
	}
}

func TestResignAndOptions(t *testing.T) {
	f := newFixture(t)
	white, black := f.startGame(t)

	if rep := f.say(t, black, "!chess option flip false"); rep.text != fmt.Sprintf(`Option "flip" set to false for %s`, black) {
		t.Fatalf("option = %q", rep.text)
	}
	if rep := f.say(t, black, "!chess option FLIP maybe"); rep.text != `Invalid option value for "flip"` {
		t.Fatalf("bad value = %q", rep.text)
	}
	if rep := f.say(t, black, "!chess option colour red"); rep.text != "Invalid option name. Type !chess help for a list of options." {
		t.Fatalf("bad name = %q", rep.text)
	}
	rep := f.say(t, white, "!chess e4")
	if rep.board.Orientation != "" {
		t.Fatalf("flip disabled: orientation = %q", rep.board.Orientation)
	}

	if rep := f.say(t, white, "!chess resign"); rep.text != fmt.Sprintf("%s resigned, @%s wins!", white, black) {
		t.Fatalf("resign = %q", rep.text)
	}
	if rep := f.say(t, "carol", "!chess games"); rep.text != "No games in progress in this room." {
		t.Fatalf("games after resign = %q", rep.text)
	}
}

func TestPersistenceFailureIsReported(t *testing.T) {
	f := newFixture(t)
	white, _ := f.startGame(t)
	f.mr.SetError("ERR backend unavailable")
	if rep := f.say(t, white, "!chess e4"); rep.text != "Game storage is unavailable right now. Please try again." {
		t.Fatalf("persistence = %q", rep.text)
	}
	f.mr.SetError("")
	if rep := f.say(t, white, "!chess e4"); rep.board == nil || rep.board.LastMove != "e2e4" {
		t.Fatalf("retry after outage: %+v", rep)
	}
}

func TestUnreadableRoomIsReportedAsPersistence(t *testing.T) {
	f := newFixture(t)
	f.mr.SetError("ERR backend unavailable")
	if rep := f.say(t, "alice", "!chess board"); rep.text != "Game storage is unavailable right now. Please try again." {
		t.Fatalf("board during outage = %q", rep.text)
	}
	f.mr.SetError("")
	if rep := f.say(t, "alice", "!chess board"); !strings.Contains(rep.text, "not in a game") {
		t.Fatalf("board after outage = %q", rep.text)
	}
}

func TestCastleRefusalIsExplained(t *testing.T) {
	f := newFixture(t)
	white, _ := f.startGame(t)
	rep := f.say(t, white, "!chess O-O")
	if !strings.HasPrefix(rep.text, "You can't castle") {
		t.Fatalf("blocked castle = %q", rep.text)
	}
}
