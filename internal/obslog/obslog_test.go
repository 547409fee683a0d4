package obslog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitFromEnvWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chess.log")
	t.Setenv("LOG_TO_CONSOLE", "false")
	t.Setenv("LOG_TO_FILE", "true")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "warn")
	t.Cleanup(func() { Set(nil) })

	if err := InitFromEnv(); err != nil {
		t.Fatalf("InitFromEnv: %v", err)
	}
	L().Info("chess_move", zap.String("move", "e2e4"))
	L().Warn("group_state_load_error", zap.String("group", "room"))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 1 {
		t.Fatalf("info should be filtered at warn level, got %d lines:\n%s", len(lines), raw)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, lines[0])
	}
	if entry["msg"] != "group_state_load_error" || entry["level"] != "warn" || entry["group"] != "room" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestOptionsFromEnvLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		t.Setenv("LOG_LEVEL", in)
		if got := OptionsFromEnv().Level; got != want {
			t.Fatalf("LOG_LEVEL=%q -> %v, want %v", in, got, want)
		}
	}
}

func TestOptionsFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "LOG_TO_CONSOLE", "LOG_TO_FILE", "LOG_FILE", "LOG_FORMAT", "LOG_CALLER"} {
		t.Setenv(k, "")
	}
	o := OptionsFromEnv()
	if !o.Console || o.File != defaultLogFile || o.Format != FormatLegacy || o.Caller {
		t.Fatalf("defaults = %+v", o)
	}
	t.Setenv("LOG_TO_FILE", "false")
	t.Setenv("LOG_FORMAT", "xml")
	if o := OptionsFromEnv(); o.File != "" || o.Format != FormatLegacy {
		t.Fatalf("file disabled / unknown format = %+v", o)
	}
}

func TestSetNilResetsToNop(t *testing.T) {
	Set(nil)
	if L() == nil {
		t.Fatalf("L() must never be nil")
	}
	L().Info("ignored")
}
