// Package runtimeclient implements reconcile.Runtime against a real
// Docker-compatible daemon via github.com/docker/docker/client, the same
// SDK the pack's volaticloud bot runtime uses.
package runtimeclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/squili/tug/internal/reconcile"
)

// TLSOptions configures client-certificate TLS against the daemon, loaded
// from PEM files the way an operator's daemon.json / docker context would
// lay them out.
type TLSOptions struct {
	CAFile   string
	CertFile string
	KeyFile  string
}

// Options configures a new Client.
type Options struct {
	// Host is a Docker-style endpoint: unix:///var/run/docker.sock,
	// tcp://host:2376, etc.
	Host string
	// APIVersion pins the negotiated API version. Empty negotiates the
	// highest version both client and daemon support.
	APIVersion string
	TLS        *TLSOptions
}

// Client adapts a *client.Client to reconcile.Runtime.
type Client struct {
	cli *client.Client
}

var _ reconcile.Runtime = (*Client)(nil)

// New dials the configured daemon and returns a ready-to-use Client. It
// does not ping the daemon; callers that need a liveness check should
// call Ping.
func New(opts Options) (*Client, error) {
	clientOpts := []client.Opt{
		client.WithHost(opts.Host),
		client.WithAPIVersionNegotiation(),
	}
	if opts.APIVersion != "" {
		clientOpts = append(clientOpts, client.WithVersion(opts.APIVersion))
	}

	if opts.TLS != nil {
		tlsConfig, err := loadTLSConfig(opts.TLS)
		if err != nil {
			return nil, fmt.Errorf("loading TLS config: %w", err)
		}
		clientOpts = append(clientOpts, client.WithHTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		}))
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	return &Client{cli: cli}, nil
}

// Close releases the underlying HTTP transport.
func (c *Client) Close() error {
	return c.cli.Close()
}

// Ping verifies the daemon is reachable, backing `tug debug ping`.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx)
	return err
}

func loadTLSConfig(opts *TLSOptions) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading client certificate: %w", err)
	}

	caPEM, err := os.ReadFile(opts.CAFile)
	if err != nil {
		return nil, fmt.Errorf("reading CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in %s", opts.CAFile)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
	}, nil
}

// labelFilterArgs translates reconcile's runtime-agnostic label filters
// into the docker/docker filters.Args the client package expects.
func labelFilterArgs(filterList []reconcile.LabelFilter) filters.Args {
	args := filters.NewArgs()
	for _, f := range filterList {
		if f.ExistsOnly {
			args.Add("label", f.Key)
			continue
		}
		args.Add("label", fmt.Sprintf("%s=%s", f.Key, f.Value))
	}
	return args
}
