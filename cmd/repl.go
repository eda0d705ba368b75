package cmd

import (
	"fmt"
	"io"

	prompt "github.com/c-bata/go-prompt"

	"github.com/jeff082chen/tinybasic/lang/interp"
	"github.com/jeff082chen/tinybasic/lang/lexer"
)

const version = "0.1"

// readyPrompt is the variant printed before an input line when the
// interpreter's printReady flag is set (spec.md §6: ">>> " or "OK." are
// both attested variants; this repo uses the former).
const readyPrompt = ">>> "

var promptState struct {
	LivePrefix          string
	LivePrefixIsEnabled bool
}

// RunPrompt starts the go-prompt-backed interactive session, the teacher's
// own REPL dependency wired to a *interp.Interpreter instead of the
// teacher's *runtime.Interpreter. Unlike the teacher's bracket-balancing
// multi-line continuation (TinyBASIC has no brackets spanning lines), the
// live prefix here only ever toggles between the ready prompt and its
// absence, driven by printReady (a stored-line assignment suppresses the
// next prompt).
func RunPrompt(out io.Writer) {
	ip := interp.New()
	ip.Out = out
	ip.Confirm = confirmOverwrite

	fmt.Fprintln(out, bannerText())
	promptState.LivePrefix = readyPrompt
	promptState.LivePrefixIsEnabled = true

	p := prompt.New(
		executor(ip),
		completer,
		prompt.OptionPrefix(readyPrompt),
		prompt.OptionLivePrefix(changeLivePrefix),
		prompt.OptionTitle("tinybasic"),
	)
	p.Run()
	fmt.Fprintln(out, "Bye!")
}

func executor(ip *interp.Interpreter) func(string) {
	return func(in string) {
		interp.RunExecutionHalted(ip.Out, func() { ip.Dispatch(lexer.Lex(in)) })
		if ip.PrintReady() {
			promptState.LivePrefix = readyPrompt
		} else {
			promptState.LivePrefix = ""
		}
	}
}

func changeLivePrefix() (string, bool) {
	return promptState.LivePrefix, promptState.LivePrefixIsEnabled
}

func completer(in prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "PRINT", Description: "evaluate and print an expression"},
		{Text: "LET", Description: "assign a variable"},
		{Text: "RUN", Description: "execute the stored program"},
		{Text: "LIST", Description: "list the stored program"},
		{Text: "GOTO", Description: "jump to a line"},
		{Text: "GOSUB", Description: "call a line as a subroutine"},
		{Text: "RETURN", Description: "return from GOSUB"},
		{Text: "FOR", Description: "FOR id = start TO end DO body"},
		{Text: "IF", Description: "IF cond THEN stmt [ELSE stmt]"},
		{Text: "SAVE", Description: "save the program to a file"},
		{Text: "LOAD", Description: "load a program from a file"},
		{Text: "DIR", Description: "list current variable bindings"},
		{Text: "CLEAR", Description: "clear variables and registers"},
		{Text: "EXIT", Description: "quit"},
	}
	return prompt.FilterHasPrefix(s, in.GetWordBeforeCursor(), true)
}

// confirmOverwrite is wired as the Interpreter's SAVE confirmation: a real
// y/n prompt on the controlling terminal, per spec.md §4.6.
func confirmOverwrite(msg string) bool {
	fmt.Printf("%s ", msg)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}
