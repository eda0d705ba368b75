package interp

import (
	"bufio"
	"strings"
	"testing"

	"github.com/jeff082chen/tinybasic/lang/lexer"
)

func newTestInterp() (*Interpreter, *strings.Builder) {
	ip := New()
	var out strings.Builder
	ip.Out = &out
	ip.In = bufio.NewReader(strings.NewReader(""))
	return ip, &out
}

func feed(ip *Interpreter, lines ...string) {
	for _, line := range lines {
		ip.Dispatch(lexer.Lex(line))
	}
}

func TestDispatchStoresLineNumberedStatements(t *testing.T) {
	ip, _ := newTestInterp()
	feed(ip, "10 PRINT 1")
	if _, ok := ip.Program.Get(10); !ok {
		t.Fatal("expected line 10 to be stored, not executed")
	}
	if ip.PrintReady() {
		t.Error("storing a line should suppress the ready prompt")
	}
}

func TestRunProgramPowerExpression(t *testing.T) {
	ip, out := newTestInterp()
	feed(ip,
		"10 LET X = 2",
		"20 LET Y = X ^ 10",
		"30 PRINT Y",
		"RUN",
	)
	if got, want := out.String(), "1024\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunProgramGosubReturn(t *testing.T) {
	ip, out := newTestInterp()
	feed(ip,
		`10 GOSUB 100`,
		`20 PRINT "back"`,
		`30 END`,
		`100 PRINT "sub"`,
		`110 RETURN`,
		"RUN",
	)
	if got, want := out.String(), "sub\nback\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunProgramForAccumulatesAndPrunesIterator(t *testing.T) {
	ip, out := newTestInterp()
	feed(ip,
		"10 LET S = 0",
		"20 FOR I = 1 TO 5 DO LET S = S + I",
		"30 PRINT S",
		"RUN",
	)
	if got, want := out.String(), "15\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	// RUN resets Store on exit (spec.md §4.5), so the whole scope is gone,
	// not just the loop iterator - DIR after RUN is always empty.
	var dirOut strings.Builder
	ip.Out = &dirOut
	feed(ip, "DIR")
	if dirOut.String() != "" {
		t.Errorf("DIR after RUN should be empty, got %q", dirOut.String())
	}
}

func TestForPrunesIteratorButKeepsPriorVariableMidRun(t *testing.T) {
	// Same scenario, observed from inside the run (a DIR statement
	// immediately after the FOR, before RUN's own final reset fires) so
	// the FOR-specific prune behaviour is visible on its own.
	ip, out := newTestInterp()
	feed(ip,
		"10 LET S = 0",
		"20 FOR I = 1 TO 5 DO LET S = S + I",
		"30 DIR",
		"RUN",
	)
	if strings.Contains(out.String(), "I =") {
		t.Errorf("DIR mid-run still mentions the loop iterator: %q", out.String())
	}
	if !strings.Contains(out.String(), "S = 15") {
		t.Errorf("DIR mid-run should show S = 15, got %q", out.String())
	}
}

func TestRunProgramIfThenElse(t *testing.T) {
	ip, out := newTestInterp()
	feed(ip,
		`10 LET X = 1`,
		`20 IF X == 1 THEN PRINT "yes" ELSE PRINT "no"`,
		"RUN",
	)
	if got, want := out.String(), "yes\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunProgramIfBranchFailureReportsOnce(t *testing.T) {
	ip, out := newTestInterp()
	feed(ip,
		`10 IF 1 THEN PRINT Z`,
		"RUN",
	)
	if n := strings.Count(out.String(), "Error:"); n != 1 {
		t.Errorf("expected exactly one error line, got %d in %q", n, out.String())
	}
}

func TestRunProgramGotoLoopsUntilEnd(t *testing.T) {
	ip, out := newTestInterp()
	feed(ip,
		"10 LET X = 0",
		"20 LET X = X + 1",
		"30 PRINT X",
		"40 IF X < 3 THEN GOTO 20",
		"RUN",
	)
	if got, want := out.String(), "1\n2\n3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestClearResetsScopesAndRegisters(t *testing.T) {
	ip, _ := newTestInterp()
	feed(ip, "LET X = 1", "STA 5")
	feed(ip, "CLEAR")
	if _, ok := ip.Scopes.Lookup("X"); ok {
		t.Error("CLEAR should drop variable bindings")
	}
	if ip.Registers.A != 0 {
		t.Error("CLEAR should reset registers")
	}
}
