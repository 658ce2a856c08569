package main

import (
	"github.com/spf13/cobra"

	"github.com/squili/tug/internal/document"
	"github.com/squili/tug/internal/engine"
	"github.com/squili/tug/internal/logger"
	"github.com/squili/tug/internal/plan"
	"github.com/squili/tug/internal/reconcile"
)

func newSyncCmd(log *logger.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sync <directory>",
		Short: "Parse a directory of documents and reconcile the runtime to match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := args[0]

			doc, err := document.Load(directory)
			if err != nil {
				return err
			}

			store, err := plan.Build(doc)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			rt, err := connectLogged(log, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			rc := &reconcile.Context{
				Runtime:   rt,
				Group:     cfg.Group,
				RootDir:   directory,
				Logger:    log,
				Resolved:  reconcile.NewResolvedTables(),
				Backtrack: &reconcile.ActionQueue{},
				Finalize:  &reconcile.ActionQueue{},
			}

			log.Info("executing plan")
			limit := cfg.ConcurrencyLimit
			var runErr error
			if limit > 0 {
				runErr = engine.RunWithLimit(cmd.Context(), store, rc, limit)
			} else {
				runErr = engine.Run(cmd.Context(), store, rc)
			}
			if runErr != nil {
				return runErr
			}

			log.Info("done!")
			return nil
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}
