// Package eval implements C2: a precedence-ordered recursive descent over a
// flat token.List. It holds no state of its own beyond the token list it is
// currently working through; each call is a pure function of its inputs.
//
// The recursion scheme in spec.md §4.2 makes every operator at a given
// level right-associative, with the leftmost operator at that level
// becoming the root of the subtree. This is deliberate, observed behaviour
// inherited from the original interpreter, not a bug: Eval must reproduce
// it rather than "fix" it into conventional left-associativity.
package eval

import (
	"math"

	"github.com/jeff082chen/tinybasic/lang/basicerr"
	"github.com/jeff082chen/tinybasic/lang/lexer"
	"github.com/jeff082chen/tinybasic/lang/store"
	"github.com/jeff082chen/tinybasic/lang/token"
)

// levels is the operator table, lowest precedence first. Level 6 (the
// last) holds every unary prefix operator: "!" and every math-function
// name.
var levels = [][]string{
	{"==", "!=", ">", "<", ">=", "<="},
	{"<<", ">>"},
	{"."},
	{"+", "-"},
	{"*", "/", "&", "|", "%"},
	{"^"},
	nil, // unary level; populated in init from lexer.MathFunctions plus "!"
}

var unaryOps map[string]bool

func init() {
	unaryOps = map[string]bool{"!": true}
	for name := range lexer.MathFunctions {
		unaryOps[name] = true
	}
}

func isLevelOp(level int, lexeme string) bool {
	if level == len(levels)-1 {
		return unaryOps[lexeme]
	}
	for _, op := range levels[level] {
		if op == lexeme {
			return true
		}
	}
	return false
}

var zero store.Value

// Eval evaluates tokens against scope, starting at precedence level 0.
func Eval(scope store.Scope, tokens token.List) (store.Value, error) {
	return evalLevel(scope, tokens, 0)
}

func evalLevel(scope store.Scope, tokens token.List, level int) (store.Value, error) {
	if level >= len(levels) {
		return evalAtom(scope, tokens)
	}

	var left token.List
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case token.PAREN:
			if tok.Lexeme != "(" {
				return zero, basicerr.New(basicerr.UnmatchedParens, "")
			}
			close, ok := matchingClose(tokens, i)
			if !ok {
				return zero, basicerr.New(basicerr.UnmatchedParens, "")
			}
			val, err := evalLevel(scope, tokens[i+1:close], 0)
			if err != nil {
				return zero, err
			}
			left = append(left, valueToken(val))
			i = close
		case token.OP:
			if isLevelOp(level, tok.Lexeme) {
				return applyOp(scope, tok.Lexeme, left, tokens[i+1:], level)
			}
			left = append(left, tok)
		case token.NUM, token.STRING, token.ID:
			left = append(left, tok)
		default:
			return zero, basicerr.New(basicerr.UnknownOperand, tok.String())
		}
	}
	return evalLevel(scope, left, level+1)
}

// valueToken lifts an already-evaluated Value back into a single token so
// a parenthesised subexpression's result can take its place in the
// enclosing token stream.
func valueToken(v store.Value) token.Token {
	if v.Kind == store.Number {
		return token.Token{Kind: token.NUM, Num: v.Num}
	}
	return token.Token{Kind: token.STRING, Lexeme: v.Str}
}

func matchingClose(tokens token.List, open int) (int, bool) {
	depth := 1
	for i := open + 1; i < len(tokens); i++ {
		if tokens[i].Kind != token.PAREN {
			continue
		}
		switch tokens[i].Lexeme {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth == 0 {
			return i, true
		}
	}
	return 0, false
}

// evalAtom is level 7: what remains of `left` after every operator table
// has been walked must be a single NUM, STRING, or ID token.
func evalAtom(scope store.Scope, tokens token.List) (store.Value, error) {
	if len(tokens) == 0 {
		return zero, basicerr.New(basicerr.OperatorMissingOperand, "")
	}
	if len(tokens) > 1 {
		return zero, basicerr.New(basicerr.UnknownOperand, tokens[1].String())
	}
	tok := tokens[0]
	switch tok.Kind {
	case token.NUM:
		return store.Num(tok.Num), nil
	case token.STRING:
		return store.Str(tok.Lexeme), nil
	case token.ID:
		v, ok := scope[tok.Lexeme]
		if !ok {
			return zero, basicerr.New(basicerr.VariableUninitialized, tok.Lexeme)
		}
		return v, nil
	default:
		return zero, basicerr.New(basicerr.UnknownOperand, tok.String())
	}
}

// applyOp evaluates one operator node: left (tokens before the operator,
// not yet consumed) and rest (tokens after it), recursing at the same
// level for both sides. Unary operators reject a non-empty left.
func applyOp(scope store.Scope, op string, left, rest token.List, level int) (store.Value, error) {
	if unaryOps[op] {
		if len(left) != 0 {
			return zero, basicerr.New(basicerr.OperandTypeMismatch, op+" is a unary operator")
		}
		if len(rest) == 0 {
			return zero, basicerr.New(basicerr.OperatorMissingOperand, op)
		}
		right, err := evalLevel(scope, rest, level)
		if err != nil {
			return zero, err
		}
		return applyUnary(op, right)
	}

	if len(left) == 0 || len(rest) == 0 {
		return zero, basicerr.New(basicerr.OperatorMissingOperand, op)
	}

	// & and | are logical short-circuit operators: the right side is only
	// evaluated (and so only fails on e.g. an uninitialised variable) when
	// the left side's truthiness doesn't already decide the result.
	if op == "&" || op == "|" {
		leftVal, err := evalLevel(scope, left, level)
		if err != nil {
			return zero, err
		}
		if leftVal.Kind != store.Number {
			return zero, basicerr.New(basicerr.OperandTypeMismatch, op)
		}
		if op == "&" && leftVal.Num == 0 {
			return store.Num(0), nil
		}
		if op == "|" && leftVal.Num != 0 {
			return store.Num(1), nil
		}
		rightVal, err := evalLevel(scope, rest, level)
		if err != nil {
			return zero, err
		}
		if rightVal.Kind != store.Number {
			return zero, basicerr.New(basicerr.OperandTypeMismatch, op)
		}
		return store.Num(boolNum(rightVal.Num != 0)), nil
	}

	leftVal, err := evalLevel(scope, left, level)
	if err != nil {
		return zero, err
	}
	rightVal, err := evalLevel(scope, rest, level)
	if err != nil {
		return zero, err
	}
	return applyBinary(op, leftVal, rightVal)
}

func applyUnary(op string, v store.Value) (store.Value, error) {
	if op == "!" {
		if v.Kind != store.Number {
			return zero, basicerr.New(basicerr.OperandTypeMismatch, "!")
		}
		return store.Num(boolNum(v.Num == 0)), nil
	}
	fn, ok := lexer.MathFunctions[op]
	if !ok {
		return zero, basicerr.New(basicerr.UnknownOperand, op)
	}
	if v.Kind != store.Number {
		return zero, basicerr.New(basicerr.OperandTypeMismatch, op)
	}
	return store.Num(fn(v.Num)), nil
}

func applyBinary(op string, l, r store.Value) (store.Value, error) {
	switch op {
	case "==", "!=", ">", "<", ">=", "<=":
		return compare(op, l, r)
	case "<<", ">>":
		return shift(op, l, r)
	case ".":
		return store.Str(l.Text() + r.Text()), nil
	case "+":
		return numOp(op, l, r, func(a, b float64) float64 { return a + b })
	case "-":
		return numOp(op, l, r, func(a, b float64) float64 { return a - b })
	case "*":
		return numOp(op, l, r, func(a, b float64) float64 { return a * b })
	case "/":
		return numOp(op, l, r, func(a, b float64) float64 { return a / b })
	case "%":
		return numOp(op, l, r, math.Mod)
	case "^":
		return numOp(op, l, r, math.Pow)
	}
	return zero, basicerr.New(basicerr.UnknownOperand, op)
}

func numOp(op string, l, r store.Value, fn func(a, b float64) float64) (store.Value, error) {
	if l.Kind != store.Number || r.Kind != store.Number {
		return zero, basicerr.New(basicerr.OperandTypeMismatch, op)
	}
	return store.Num(fn(l.Num, r.Num)), nil
}

func compare(op string, l, r store.Value) (store.Value, error) {
	if l.Kind != r.Kind {
		switch op {
		case "==":
			return store.Num(0), nil
		case "!=":
			return store.Num(1), nil
		default:
			return zero, basicerr.New(basicerr.OperandTypeMismatch, op)
		}
	}
	var less, equal bool
	if l.Kind == store.Number {
		less, equal = l.Num < r.Num, l.Num == r.Num
	} else {
		less, equal = l.Str < r.Str, l.Str == r.Str
	}
	var result bool
	switch op {
	case "==":
		result = equal
	case "!=":
		result = !equal
	case "<":
		result = less
	case ">":
		result = !less && !equal
	case "<=":
		result = less || equal
	case ">=":
		result = !less || equal
	}
	return store.Num(boolNum(result)), nil
}

func shift(op string, l, r store.Value) (store.Value, error) {
	if l.Kind != store.Number || r.Kind != store.Number {
		return zero, basicerr.New(basicerr.OperandTypeMismatch, op)
	}
	if l.Num != math.Trunc(l.Num) || r.Num != math.Trunc(r.Num) {
		return zero, basicerr.New(basicerr.OperandTypeMismatch, op)
	}
	li, ri := int64(l.Num), int64(r.Num)
	if op == "<<" {
		return store.Num(float64(li << uint(ri))), nil
	}
	return store.Num(float64(li >> uint(ri))), nil
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
