package cmd

import (
	"github.com/richgo/task-cli/pkg/task"
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete an existing todo",
		Long:  `Remove a task and renumber the remaining ones 1..N, keeping their order.`,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run("delete", func() (task.Result, error) {
				return a.svc.Delete(args[0])
			})
		},
	}
}
