package cmd

import (
	"fmt"

	"github.com/richgo/task-cli/pkg/task"
	"github.com/spf13/cobra"
)

// newMarkCmd builds a command that sets a fixed status.
func newMarkCmd(a *app, name string, status task.Status) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <task-id>",
		Short: fmt.Sprintf("Mark an existing todo '%s'", status),
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(name, func() (task.Result, error) {
				return a.svc.SetStatus(args[0], status)
			})
		},
	}
}
