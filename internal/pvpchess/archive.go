package pvpchess

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	_ "github.com/lib/pq"
)

// ResultSink receives games once they have left the room.
type ResultSink interface {
	SaveResult(ctx context.Context, o *Outcome) error
}

// PostgresArchive stores finished games in the chess_results table.
type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(databaseURL string) (*PostgresArchive, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresArchive{db: db}, nil
}

func (a *PostgresArchive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS chess_results (
    game_id       TEXT PRIMARY KEY,
    group_id      TEXT NOT NULL,
    white_id      TEXT NOT NULL,
    black_id      TEXT NOT NULL,
    result        TEXT NOT NULL,
    result_method TEXT NOT NULL,
    moves_uci     JSONB NOT NULL,
    pgn           TEXT NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    ended_at      TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT NOT NULL
)`

// EnsureSchema creates the results table when missing.
func (a *PostgresArchive) EnsureSchema(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, schemaSQL)
	return err
}

// SaveResult upserts one finished game.
func (a *PostgresArchive) SaveResult(ctx context.Context, o *Outcome) error {
	if a == nil || a.db == nil || o == nil || o.Game == nil {
		return nil
	}
	g := o.Game
	result := pgnResult(o)
	movesRaw, err := json.Marshal(nonNil(g.Moves))
	if err != nil {
		return err
	}
	duration := o.EndedAt.Sub(g.StartedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO chess_results (
        game_id, group_id, white_id, black_id,
        result, result_method, moves_uci, pgn,
        started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
      ) ON CONFLICT (game_id) DO UPDATE SET
        group_id=EXCLUDED.group_id,
        white_id=EXCLUDED.white_id,
        black_id=EXCLUDED.black_id,
        result=EXCLUDED.result,
        result_method=EXCLUDED.result_method,
        moves_uci=EXCLUDED.moves_uci,
        pgn=EXCLUDED.pgn,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err = a.db.ExecContext(ctx, q,
		g.ID, o.Group, g.White, g.Black,
		result, string(o.Method), string(movesRaw), buildPGN(o, result),
		g.StartedAt, o.EndedAt, duration,
	)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func pgnResult(o *Outcome) string {
	switch {
	case o.Draw:
		return "1/2-1/2"
	case o.Winner != "" && o.Winner == o.Game.White:
		return "1-0"
	case o.Winner != "" && o.Winner == o.Game.Black:
		return "0-1"
	}
	return "*"
}

func buildPGN(o *Outcome, result string) string {
	g := o.Game
	var b strings.Builder
	date := o.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	b.WriteString("[Event \"Room chess\"]\n")
	b.WriteString(fmt.Sprintf("[Site \"%s\"]\n", sanitizePGN(o.Group)))
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", sanitizePGN(g.White)))
	b.WriteString(fmt.Sprintf("[Black \"%s\"]\n", sanitizePGN(g.Black)))
	if o.Method != "" {
		b.WriteString(fmt.Sprintf("[Termination \"%s\"]\n", sanitizePGN(string(o.Method))))
	}
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", result))

	moves, ok := sanMoves(g.Moves)
	if !ok {
		moves = g.Moves
	}
	for i := 0; i < len(moves); i += 2 {
		b.WriteString(fmt.Sprintf("%d. %s", i/2+1, moves[i]))
		if i+1 < len(moves) {
			b.WriteString(" ")
			b.WriteString(moves[i+1])
		}
		b.WriteString(" ")
	}
	b.WriteString(result)
	return b.String()
}

// sanMoves replays coordinate moves from the initial position and returns
// their SAN. ok is false when any move does not replay.
func sanMoves(moves []string) ([]string, bool) {
	game := nchess.NewGame()
	uci := nchess.UCINotation{}
	out := make([]string, 0, len(moves))
	for _, mv := range moves {
		pos := game.Position()
		decoded, err := uci.Decode(pos, mv)
		if err != nil {
			return nil, false
		}
		out = append(out, nchess.AlgebraicNotation{}.Encode(pos, decoded))
		if err := game.PushNotationMove(mv, uci, nil); err != nil {
			return nil, false
		}
	}
	return out, true
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
