package lexer

import (
	"reflect"
	"testing"

	"github.com/jeff082chen/tinybasic/lang/token"
)

func num(f float64) token.Token    { return token.Token{Kind: token.NUM, Num: f} }
func str(s string) token.Token     { return token.Token{Kind: token.STRING, Lexeme: s} }
func resvd(s string) token.Token   { return token.Token{Kind: token.RESVD, Lexeme: s} }
func ident(s string) token.Token   { return token.Token{Kind: token.ID, Lexeme: s} }
func op(s string) token.Token      { return token.Token{Kind: token.OP, Lexeme: s} }
func paren(s string) token.Token   { return token.Token{Kind: token.PAREN, Lexeme: s} }
func asgn() token.Token            { return token.Token{Kind: token.ASGN, Lexeme: "="} }
func unknown(s string) token.Token { return token.Token{Kind: token.UNKNOWN, Lexeme: s} }

type lexTestcase struct {
	name  string
	input string
	want  token.List
}

var lexTests = []lexTestcase{
	{"empty", "", token.List{}},
	{"blank", "   ", token.List{}},
	{"line number", "10 PRINT 1", token.List{num(10), resvd("PRINT"), num(1)}},
	{"string literal", `LET A$ = "foo"`, token.List{resvd("LET"), ident("A$"), asgn(), str("foo")}},
	{"parens no space", "PRINT(1+2)*3", token.List{
		resvd("PRINT"), paren("("), num(1), op("+"), num(2), paren(")"), op("*"), num(3),
	}},
	{"constant lowercase", "PRINT pi", token.List{resvd("PRINT"), num(Constants["PI"])}},
	{"reserved lowercase", "print 1", token.List{resvd("PRINT"), num(1)}},
	{"math function token", "PRINT SIN 0", token.List{resvd("PRINT"), op("SIN"), num(0)}},
	{"comparison operators", "1 == 2", token.List{num(1), op("=="), num(2)}},
	{"shift operators", "1 << 3", token.List{num(1), op("<<"), num(3)}},
	{"concat operator", `A$ . "1"`, token.List{ident("A$"), op("."), str("1")}},
	{"unknown lexeme", "PRINT @", token.List{resvd("PRINT"), unknown("@")}},
	{"identifier case preserved", "LET myVar = 1", token.List{resvd("LET"), ident("myVar"), asgn(), num(1)}},
}

func TestLex(t *testing.T) {
	for _, tt := range lexTests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lex(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lex(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLexEmptyLineYieldsNoTokens(t *testing.T) {
	if got := Lex(""); len(got) != 0 {
		t.Errorf("Lex(\"\") = %#v, want empty", got)
	}
}
