package cmd

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeff082chen/tinybasic/lang/interp"
	"github.com/jeff082chen/tinybasic/lang/lexer"
)

var usageReminder = "Usage: ./tinybasic [script.tb]"

// Run starts the command line process, returning an exit code when the
// process is finished: file mode executes a script and returns, no file
// argument drops into the interactive prompt.
func Run() int {
	if len(os.Args) > 2 {
		log.Fatalln(usageReminder)
	} else if len(os.Args) == 2 {
		filename := os.Args[1]
		if filename == "" {
			log.Fatalln(usageReminder)
		}
		if err := runFile(filename); err != nil {
			log.Printf(err.Error())
			return 65
		}
		return 0
	}
	RunPrompt(os.Stdout)
	return 0
}

// runFile reads filename in full and feeds it to the interpreter one line
// at a time, in the teacher's style of loading the whole script up front
// (see the original main.go's ioutil.ReadFile) rather than streaming it.
func runFile(filename string) error {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("encountered error with opening/reading the file input: %s", filepath.Base(filename))
	}
	ip := interp.New()
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	for sc.Scan() {
		ip.Dispatch(lexer.Lex(sc.Text()))
	}
	return sc.Err()
}

func bannerText() string {
	return "Tiny BASIC (" + version + ")"
}
