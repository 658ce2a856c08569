package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squili/tug/internal/logger"
	"github.com/squili/tug/internal/runtimeclient"
	"github.com/squili/tug/internal/tugconfig"
)

// configFlag adds the shared --config flag every subcommand that talks to
// a daemon or reads process configuration accepts.
func configFlag(cmd *cobra.Command, dest *string) {
	cmd.Flags().StringVar(dest, "config", "", "Path to the tug configuration file (default: $TUG_CONFIG or the OS config directory)")
}

func loadConfig(path string) (*tugconfig.Config, error) {
	if path == "" {
		var err error
		path, err = tugconfig.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return tugconfig.Load(path)
}

func connect(cfg *tugconfig.Config) (*runtimeclient.Client, error) {
	var tls *runtimeclient.TLSOptions
	if cfg.TLS != nil {
		tls = &runtimeclient.TLSOptions{
			CAFile:   cfg.TLS.CAFile,
			CertFile: cfg.TLS.CertFile,
			KeyFile:  cfg.TLS.KeyFile,
		}
	}

	client, err := runtimeclient.New(runtimeclient.Options{
		Host:       cfg.Host,
		APIVersion: cfg.APIVersion,
		TLS:        tls,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to container runtime: %w", err)
	}
	return client, nil
}

// connectLogged wraps connect with the "connecting to container runtime"
// log line query subcommands suppress by calling connect directly.
func connectLogged(log *logger.Logger, cfg *tugconfig.Config) (*runtimeclient.Client, error) {
	log.Info("connecting to container runtime")
	return connect(cfg)
}
