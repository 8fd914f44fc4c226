package cmd

import (
	"github.com/richgo/task-cli/pkg/task"
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task>",
		Short: "Add a new todo",
		Long: `Append a pending task with the next sequential ID.

Creates the store file if it does not exist yet. Prints nothing on success.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run("add", func() (task.Result, error) {
				return a.svc.Add(args[0])
			})
		},
	}
}
