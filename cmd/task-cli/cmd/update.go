package cmd

import (
	"github.com/richgo/task-cli/pkg/task"
	"github.com/spf13/cobra"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <task-id> <task>",
		Short: "Update an existing todo",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run("update", func() (task.Result, error) {
				return a.svc.Update(args[0], args[1])
			})
		},
	}
}
