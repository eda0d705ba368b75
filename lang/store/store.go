// Package store implements C3: the variable scope stack, the three
// pseudo-registers, and value typing. It knows nothing about programs or
// token lists; from lang/token it uses only the variable-name and
// number-formatting helpers.
package store

import (
	"github.com/jeff082chen/tinybasic/lang/basicerr"
	"github.com/jeff082chen/tinybasic/lang/token"
)

// Kind tags a Value as a number or a string; booleans are numbers (0/1).
type Kind int

const (
	Number Kind = iota
	Text
)

// Value is the tagged union every expression evaluates to.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Num wraps a float64 as a numeric Value.
func Num(f float64) Value { return Value{Kind: Number, Num: f} }

// Str wraps a string as a text Value.
func Str(s string) Value { return Value{Kind: Text, Str: s} }

// Truthy reports whether v counts as true. Only numbers participate in
// truthiness; spec.md encodes booleans as 0/1 numbers.
func (v Value) Truthy() bool { return v.Kind == Number && v.Num != 0 }

// Text renders v the way PRINT/LIST/SAVE/concatenation do: integral
// numbers without a decimal point, strings verbatim.
func (v Value) Text() string {
	if v.Kind == Number {
		return token.FormatNumber(v.Num)
	}
	return v.Str
}

// Scope is one variable environment: a flat name -> Value map.
type Scope map[string]Value

func (s Scope) clone() Scope {
	c := make(Scope, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Stack is the ordered sequence of scopes described by spec.md's "scope
// stack": the head (last element) is visible to the currently executing
// statement. A fresh Stack starts with one empty scope.
type Stack struct {
	scopes []Scope
}

// NewStack returns a Stack with a single empty scope.
func NewStack() *Stack {
	return &Stack{scopes: []Scope{{}}}
}

// Top returns the current (head) scope.
func (s *Stack) Top() Scope { return s.scopes[len(s.scopes)-1] }

// Push opens a fresh, empty scope on top of the stack (GOSUB).
func (s *Stack) Push() { s.scopes = append(s.scopes, Scope{}) }

// Pop discards the top scope (RETURN). The caller must ensure Depth() > 1.
func (s *Stack) Pop() { s.scopes = s.scopes[:len(s.scopes)-1] }

// Depth reports how many scopes are stacked.
func (s *Stack) Depth() int { return len(s.scopes) }

// Reset collapses the stack back to a single empty scope (CLEAR, RUN).
func (s *Stack) Reset() { s.scopes = []Scope{{}} }

// SnapshotTop takes a shallow copy of the top scope, for FOR's
// save/restore semantics (spec.md §4.5 and the Open Question it resolves:
// only the top scope is snapshotted, not the whole stack).
func (s *Stack) SnapshotTop() Scope { return s.Top().clone() }

// PruneIntroduced deletes from the top scope every binding not present in
// before. It is FOR's "restore the top scope from the snapshot" step:
// variables introduced during the loop (the iterator included) vanish,
// but variables that already existed before the loop keep whatever value
// the loop body left them with.
func (s *Stack) PruneIntroduced(before Scope) {
	top := s.Top()
	for k := range top {
		if _, ok := before[k]; !ok {
			delete(top, k)
		}
	}
}

// Assign writes name into the top scope, enforcing that name's type marker
// (trailing '$' or not) matches value's tag.
func (s *Stack) Assign(name string, v Value) error {
	wantText := token.IsStringName(name)
	if wantText != (v.Kind == Text) {
		return basicerr.New(basicerr.VariableTypeMismatch, name)
	}
	s.Top()[name] = v
	return nil
}

// Lookup reads name from the top scope.
func (s *Stack) Lookup(name string) (Value, bool) {
	v, ok := s.Top()[name]
	return v, ok
}

// Registers holds the three pseudo-registers A, S, T. They live outside
// any scope and persist across scope changes, but are reset on CLEAR and
// on RUN entry/exit.
type Registers struct {
	A, S, T float64
}

// Reset zeroes all three registers.
func (r *Registers) Reset() { *r = Registers{} }
