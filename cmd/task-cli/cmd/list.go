package cmd

import (
	"github.com/richgo/task-cli/pkg/task"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing todos",
		Long: `Print every task as "<id>: <task> [<status>]" in stored order.

The store file is never created by list; a missing or empty store is
reported as "No existing task(s)." with exit status 1.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run("list", a.svc.List)
		},
	}
}

// listFormatter renders tasks for list, coloring the status when enabled.
func listFormatter(colored bool) task.Formatter {
	if !colored {
		return task.Task.String
	}
	return func(t task.Task) string {
		t.Status = task.Status(statusColor(t.Status).Sprint(string(t.Status)))
		return t.String()
	}
}
