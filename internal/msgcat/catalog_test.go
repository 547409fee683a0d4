package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedCatalogRenders(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("chess.checkmate", map[string]any{"Winner": "alice", "Loser": "bob"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Checkmate! alice wins! bob lost." {
		t.Fatalf("checkmate = %q", got)
	}
	usage := c.Text("chess.usage", map[string]any{"Prefix": "!"})
	for _, want := range []string{"!chess start", "!chess resign", "!chess option flip"} {
		if !strings.Contains(usage, want) {
			t.Fatalf("usage lacks %q:\n%s", want, usage)
		}
	}
	if strings.HasSuffix(usage, "\n") {
		t.Fatalf("rendered text should not end with a newline")
	}
}

func TestEveryKeyParses(t *testing.T) {
	c := MustDefault()
	if len(c.Keys()) < 20 {
		t.Fatalf("embedded catalog looks truncated: %v", c.Keys())
	}
	for _, k := range c.Keys() {
		if _, err := c.template(k); err != nil {
			t.Fatalf("key %s: %v", k, err)
		}
	}
}

func TestMissingDataIsAnError(t *testing.T) {
	c := MustDefault()
	if _, err := c.Render("chess.resign", map[string]any{"Winner": "alice"}); err == nil {
		t.Fatalf("expected an error for missing template data")
	}
	if _, err := c.Render("chess.nope", nil); err == nil {
		t.Fatalf("expected an error for an unknown key")
	}
	if got := c.Text("chess.nope", nil); got != "chess.nope" {
		t.Fatalf("Text fallback = %q", got)
	}
}

func TestOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("10-ko.yaml", "chess:\n  errors:\n    wrong_turn: \"상대 차례입니다.\"\n")
	write("notes.txt", "ignored")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("chess.errors.wrong_turn", nil); got != "상대 차례입니다." {
		t.Fatalf("override not applied: %q", got)
	}
	if !c.Has("chess.errors.invalid_move") {
		t.Fatalf("defaults lost after override")
	}

	write("20-dup.yml", "chess:\n  errors:\n    wrong_turn: again\n")
	if _, err := New(dir); err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("duplicate override key: err = %v", err)
	}
}

func TestRejectsNonStringLeaves(t *testing.T) {
	if _, err := parseYAMLToFlat([]byte("chess:\n  count: 3\n")); err == nil {
		t.Fatalf("numeric leaf should be rejected")
	}
}
