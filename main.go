package main

import (
	"os"

	"github.com/jeff082chen/tinybasic/cmd"
)

func main() {
	os.Exit(cmd.Run())
}
