package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squili/tug/internal/document"
	"github.com/squili/tug/internal/logger"
)

func newDebugCmd(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Diagnostic subcommands that don't reconcile anything",
	}

	cmd.AddCommand(newDebugPingCmd(log))
	cmd.AddCommand(newDebugValidateCmd(log))

	return cmd
}

func newDebugPingCmd(log *logger.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured container runtime is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			rt, err := connectLogged(log, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			log.Info("ping...")
			if err := rt.Ping(cmd.Context()); err != nil {
				return err
			}
			log.Info("...pong!")
			return nil
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func newDebugValidateCmd(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <directory>",
		Short: "Parse a directory of documents and print the result without connecting to a runtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", doc)
			return nil
		},
	}

	return cmd
}
