// Package interp implements C4 (statement dispatcher) and C5 (control-flow
// engine): dispatch, RUN's program-counter loop, GOTO, GOSUB/RETURN, FOR,
// and IF/THEN/ELSE. It bundles every piece of mutable state the original
// interpreter kept at module scope - program buffer, line pointer, scope
// stack, return stack, registers - into a single Interpreter value passed
// through by reference, per spec.md §9's design note against hidden
// singletons.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"

	"github.com/jeff082chen/tinybasic/lang/basicerr"
	"github.com/jeff082chen/tinybasic/lang/program"
	"github.com/jeff082chen/tinybasic/lang/store"
	"github.com/jeff082chen/tinybasic/lang/token"
)

// Interpreter holds every piece of state a running TinyBASIC program can
// observe or mutate.
type Interpreter struct {
	Out io.Writer
	In  *bufio.Reader

	// Confirm, if set, is asked before SAVE silently overwrites an
	// existing file. The REPL wires this to a real y/n prompt; script
	// mode and tests leave it nil, which always overwrites.
	Confirm func(prompt string) bool

	Program   *program.Buffer
	Scopes    *store.Stack
	Registers store.Registers

	returnStack []int
	linePointer int

	stopExecution bool
	printReady    bool
}

// New returns an Interpreter wired to stdin/stdout with a fresh program
// buffer and scope stack.
func New() *Interpreter {
	return &Interpreter{
		Out:     os.Stdout,
		In:      bufio.NewReader(os.Stdin),
		Program: program.New(),
		Scopes:  store.NewStack(),
	}
}

// PrintReady reports whether the REPL should print its "ready" prompt
// before the next input line. A stored-line assignment suppresses it.
func (ip *Interpreter) PrintReady() bool { return ip.printReady }

// reset collapses the scope stack, empties the return stack, and zeroes
// the registers - the state CLEAR and RUN both reset.
func (ip *Interpreter) reset() {
	ip.Scopes.Reset()
	ip.returnStack = ip.returnStack[:0]
	ip.Registers.Reset()
}

// Dispatch is the statement dispatcher (C4). Given a non-empty token list
// it either stores a line-numbered program line (no execution) or
// dispatches a reserved-word command. It is re-entrant: IF/FOR/RUN feed
// statement bodies back through Dispatch exactly like a fresh input line.
func (ip *Interpreter) Dispatch(tokens token.List) error {
	if len(tokens) == 0 {
		return nil
	}
	ip.printReady = true

	if tokens[0].Kind == token.NUM {
		ip.storeLine(tokens)
		ip.printReady = false
		return nil
	}
	if tokens[0].Kind != token.RESVD {
		return ip.fail(basicerr.New(basicerr.UnknownCommand, tokens[0].String()))
	}
	if err := ip.execCommand(tokens[0].Lexeme, tokens[1:]); err != nil {
		return ip.fail(err)
	}
	return nil
}

// fail prints err's diagnostic exactly once and raises stopExecution. It
// is the single print site every handler failure funnels through, so a
// failure deep inside an IF/FOR/RUN nesting is never reported twice.
func (ip *Interpreter) fail(err error) error {
	fmt.Fprintln(ip.Out, err.Error())
	ip.stopExecution = true
	return err
}

func (ip *Interpreter) storeLine(tokens token.List) {
	n := int(tokens[0].Num)
	ip.Program.Set(n, tokens[1:])
}

// RunExecutionHalted catches an unexpected internal panic the way the REPL
// boundary does (spec.md §6's "Execution halted" diagnostic) and reports
// it without terminating the process.
func RunExecutionHalted(out io.Writer, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			_, file, line, _ := runtime.Caller(0)
			err, ok := r.(error)
			class := "panic"
			detail := fmt.Sprint(r)
			if ok {
				class = reflect.TypeOf(err).String()
				detail = err.Error()
			}
			fmt.Fprintf(out, "Execution halted:\n%s:%d: [%s] %s\n", file, line, class, detail)
		}
	}()
	fn()
}
