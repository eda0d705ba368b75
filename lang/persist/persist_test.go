package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeff082chen/tinybasic/lang/lexer"
	"github.com/jeff082chen/tinybasic/lang/program"
)

func TestWithExtension(t *testing.T) {
	if got := WithExtension("prog"); got != "prog.tb" {
		t.Errorf("WithExtension(prog) = %q, want prog.tb", got)
	}
	if got := WithExtension("prog.bas"); got != "prog.bas" {
		t.Errorf("WithExtension(prog.bas) = %q, want prog.bas", got)
	}
}

func TestSaveThenLoadProducesSameListing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.tb")

	orig := program.New()
	orig.Set(10, lexer.Lex("LET X = 2")[1:])
	orig.Set(20, lexer.Lex("LET Y = X ^ 10")[1:])
	orig.Set(30, lexer.Lex("PRINT Y")[1:])

	if err := Save(path, orig); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := program.New()
	if err := Load(path, loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, n := range orig.Ascending() {
		origBody, _ := orig.Get(n)
		loadedBody, ok := loaded.Get(n)
		if !ok {
			t.Fatalf("line %d missing after round trip", n)
		}
		if SerializeLine(n, origBody) != SerializeLine(n, loadedBody) {
			t.Errorf("line %d: round trip mismatch: %q vs %q",
				n, SerializeLine(n, origBody), SerializeLine(n, loadedBody))
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := Load(filepath.Join(dir, "nope.tb"), program.New())
	if err == nil {
		t.Fatal("expected file-not-found error")
	}
}

func TestLoadRejectsNonNumericLeadingToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.tb")
	if err := os.WriteFile(path, []byte("PRINT 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Load(path, program.New()); err == nil {
		t.Fatal("expected line-number-expected error")
	}
}
