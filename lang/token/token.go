// Package token defines the token vocabulary produced by lang/lexer and
// consumed by lang/eval and lang/interp.
package token

import (
	"fmt"
	"math"
	"strconv"
)

// Kind classifies a Token. The kind is fixed at lex time and never mutated
// afterwards.
type Kind int

const (
	// UNKNOWN marks a lexeme that matched none of the classification rules;
	// it is kept rather than dropped so the evaluator can report exactly
	// which lexeme it choked on.
	UNKNOWN Kind = iota
	NUM
	STRING
	RESVD
	ID
	OP
	PAREN
	ASGN
)

var kindNames = [...]string{
	UNKNOWN: "UNKNOWN",
	NUM:     "NUM",
	STRING:  "STRING",
	RESVD:   "RESVD",
	ID:      "ID",
	OP:      "OP",
	PAREN:   "PAREN",
	ASGN:    "ASGN",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single lexical unit. NUM tokens carry their value in Num;
// every other kind carries its text in Lexeme. STRING tokens carry the
// unquoted payload.
type Token struct {
	Kind   Kind
	Lexeme string
	Num    float64
}

func (t Token) String() string {
	if t.Kind == NUM {
		return FormatNumber(t.Num)
	}
	if t.Kind == STRING {
		return fmt.Sprintf("%q", t.Lexeme)
	}
	return t.Lexeme
}

// List is a flat token stream: the unit the lexer produces and the
// evaluator and dispatcher both consume directly, with no intermediate
// tree.
type List []Token

// FormatNumber renders f the canonical way: as an integer when it is
// exactly integral, otherwise in the default decimal form.
func FormatNumber(f float64) string {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
		if f >= -9.007199254740992e15 && f <= 9.007199254740992e15 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
