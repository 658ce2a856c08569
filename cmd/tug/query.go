package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squili/tug/internal/logger"
	"github.com/squili/tug/internal/reconcile"
)

func newQueryCmd(log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Look up runtime resources belonging to this group by name",
	}

	cmd.AddCommand(newQueryContainerCmd(log))
	cmd.AddCommand(newQueryNetworkCmd(log))
	cmd.AddCommand(newQueryVolumeCmd(log))

	return cmd
}

func nameFilter(group, name string) []reconcile.LabelFilter {
	return []reconcile.LabelFilter{
		reconcile.LabelEquals(reconcile.LabelGroup, group),
		reconcile.LabelEquals(reconcile.LabelName, name),
	}
}

func newQueryContainerCmd(log *logger.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "container <name>",
		Short: "Print the runtime ID of a container declared under this group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			rt, err := connect(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			matches, err := rt.ListContainers(cmd.Context(), nameFilter(cfg.Group, args[0]))
			if err != nil {
				return err
			}
			for _, c := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			}
			return nil
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func newQueryNetworkCmd(log *logger.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "network <name>",
		Short: "Print the runtime ID of a network declared under this group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			rt, err := connect(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			matches, err := rt.ListNetworks(cmd.Context(), nameFilter(cfg.Group, args[0]))
			if err != nil {
				return err
			}
			for _, n := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), n.ID)
			}
			return nil
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func newQueryVolumeCmd(log *logger.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "volume <name>",
		Short: "Print the runtime name of a volume declared under this group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			rt, err := connect(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			matches, err := rt.ListVolumes(cmd.Context(), nameFilter(cfg.Group, args[0]))
			if err != nil {
				return err
			}
			for _, v := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), v.Name)
			}
			return nil
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}
