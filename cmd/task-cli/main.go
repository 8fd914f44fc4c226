package main

import (
	"os"

	"github.com/richgo/task-cli/cmd/task-cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
