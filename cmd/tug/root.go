package main

import (
	"github.com/spf13/cobra"

	"github.com/squili/tug/internal/logger"
)

func newRootCmd(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tug",
		Short:         "Reconcile declared container infrastructure against a running daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newSyncCmd(log))
	cmd.AddCommand(newDownCmd(log))
	cmd.AddCommand(newQueryCmd(log))
	cmd.AddCommand(newDebugCmd(log))

	return cmd
}
