package runtimeclient

import (
	"context"
	"fmt"

	dockernetwork "github.com/docker/docker/api/types/network"

	"github.com/squili/tug/internal/reconcile"
)

// labelDNSEnabled records the DNS-enabled attribute Docker has no native
// summary field for (unlike Podman's dns_enabled network option), so
// reconciliation can read it back at list time.
const labelDNSEnabled = "X-Tug-DNS-Enabled"

func (c *Client) ListNetworks(ctx context.Context, filterList []reconcile.LabelFilter) ([]reconcile.NetworkSummary, error) {
	networks, err := c.cli.NetworkList(ctx, dockernetwork.ListOptions{Filters: labelFilterArgs(filterList)})
	if err != nil {
		return nil, fmt.Errorf("listing networks: %w", err)
	}

	summaries := make([]reconcile.NetworkSummary, 0, len(networks))
	for _, net := range networks {
		summaries = append(summaries, reconcile.NetworkSummary{
			ID:         net.ID,
			Name:       net.Name,
			DNSEnabled: net.Labels[labelDNSEnabled] == "true",
			Driver:     net.Driver,
			Internal:   net.Internal,
		})
	}
	return summaries, nil
}

func (c *Client) CreateNetwork(ctx context.Context, name string, spec reconcile.NetworkSpec) (reconcile.NetworkSummary, error) {
	labels := make(map[string]string, len(spec.Labels)+1)
	for k, v := range spec.Labels {
		labels[k] = v
	}
	labels[labelDNSEnabled] = fmt.Sprintf("%t", spec.DNSEnabled)

	resp, err := c.cli.NetworkCreate(ctx, name, dockernetwork.CreateOptions{
		Driver:   spec.Driver,
		Internal: spec.Internal,
		Labels:   labels,
	})
	if err != nil {
		return reconcile.NetworkSummary{}, fmt.Errorf("creating network %q: %w", name, err)
	}

	return reconcile.NetworkSummary{
		ID:         resp.ID,
		Name:       name,
		DNSEnabled: spec.DNSEnabled,
		Driver:     spec.Driver,
		Internal:   spec.Internal,
	}, nil
}

func (c *Client) DeleteNetwork(ctx context.Context, id string) error {
	if err := c.cli.NetworkRemove(ctx, id); err != nil {
		return fmt.Errorf("deleting network %s: %w", id, err)
	}
	return nil
}
