package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/richgo/task-cli/pkg/config"
	"github.com/richgo/task-cli/pkg/task"
)

// colorEnabled decides whether list output is colored. In auto mode color is
// only used for a terminal stdout; fatih/color already honors NO_COLOR.
func colorEnabled(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return out == io.Writer(os.Stdout) && !color.NoColor
}

func statusColor(s task.Status) *color.Color {
	var c *color.Color
	switch s {
	case task.StatusPending:
		c = color.New(color.FgYellow)
	case task.StatusInProgress:
		c = color.New(color.FgCyan)
	case task.StatusDone:
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.Reset)
	}
	c.EnableColor()
	return c
}
