// Package persist implements C6: the textual on-disk representation of a
// program (spec.md §6) and the SAVE/LOAD bridge, running the lexer in
// reverse to serialise and forwards again to re-parse.
package persist

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeff082chen/tinybasic/lang/basicerr"
	"github.com/jeff082chen/tinybasic/lang/lexer"
	"github.com/jeff082chen/tinybasic/lang/program"
	"github.com/jeff082chen/tinybasic/lang/token"
)

// WithExtension appends the default ".tb" extension to filename if it has
// none.
func WithExtension(filename string) string {
	if !strings.Contains(filename, ".") {
		return filename + ".tb"
	}
	return filename
}

// SerializeLine renders line number n and its body the way LIST/SAVE do:
// the line number, then each token separated by single spaces, STRING
// tokens wrapped in double quotes and NUM tokens in canonical form.
func SerializeLine(n int, body token.List) string {
	parts := make([]string, 0, len(body)+1)
	parts = append(parts, strconv.Itoa(n))
	for _, t := range body {
		switch t.Kind {
		case token.NUM:
			parts = append(parts, token.FormatNumber(t.Num))
		case token.STRING:
			parts = append(parts, `"`+t.Lexeme+`"`)
		default:
			parts = append(parts, t.Lexeme)
		}
	}
	return strings.Join(parts, " ")
}

// Save writes every stored line of buf to filename, ascending.
func Save(filename string, buf *program.Buffer) error {
	f, err := os.Create(filename)
	if err != nil {
		return basicerr.New(basicerr.InvalidFilename, filename)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, n := range buf.Ascending() {
		body, _ := buf.Get(n)
		if _, err := fmt.Fprintln(w, SerializeLine(n, body)); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load clears buf and repopulates it by re-lexing each non-empty line of
// filename. A non-numeric leading token on any line aborts the load
// without touching buf, so a failed LOAD never leaves a half-replaced
// program behind.
func Load(filename string, buf *program.Buffer) error {
	f, err := os.Open(filename)
	if err != nil {
		return basicerr.New(basicerr.FileNotFound, filename)
	}
	defer f.Close()

	fresh := program.New()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		toks := lexer.Lex(line)
		if len(toks) == 0 {
			continue
		}
		if toks[0].Kind != token.NUM {
			return basicerr.New(basicerr.LineNumberExpected, line)
		}
		n := int(toks[0].Num)
		fresh.Set(n, toks[1:])
	}
	if err := sc.Err(); err != nil {
		return err
	}
	buf.ReplaceWith(fresh)
	return nil
}
