package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/squili/tug/internal/logger"
	"github.com/squili/tug/internal/reconcile"
)

// newDownCmd tears down every container and network carrying this group's
// label. Volumes are deliberately left alone: down is a reset of running
// state, not a data-retention decision.
func newDownCmd(log *logger.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop and remove every container and network belonging to this group",
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

			ctx := cmd.Context()
			groupFilter := []reconcile.LabelFilter{reconcile.LabelEquals(reconcile.LabelGroup, cfg.Group)}

			containers, err := rt.ListContainers(ctx, groupFilter)
			if err != nil {
				return err
			}
			for _, c := range containers {
				if err := tearDownContainer(ctx, rt, c); err != nil {
					return err
				}
				log.Info("removed container " + c.ID)
			}

			networks, err := rt.ListNetworks(ctx, groupFilter)
			if err != nil {
				return err
			}
			for _, n := range networks {
				if err := rt.DeleteNetwork(ctx, n.ID); err != nil {
					return err
				}
				log.Info("removed network " + n.Name)
			}

			return nil
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func tearDownContainer(ctx context.Context, rt reconcile.Runtime, c reconcile.ContainerSummary) error {
	if c.Running {
		if err := rt.StopContainer(ctx, c.ID); err != nil {
			return err
		}
	}
	return rt.DeleteContainer(ctx, c.ID)
}
