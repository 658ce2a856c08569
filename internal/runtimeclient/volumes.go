package runtimeclient

import (
	"context"
	"fmt"

	dockervolume "github.com/docker/docker/api/types/volume"

	"github.com/squili/tug/internal/reconcile"
)

func (c *Client) ListVolumes(ctx context.Context, filterList []reconcile.LabelFilter) ([]reconcile.VolumeSummary, error) {
	resp, err := c.cli.VolumeList(ctx, dockervolume.ListOptions{Filters: labelFilterArgs(filterList)})
	if err != nil {
		return nil, fmt.Errorf("listing volumes: %w", err)
	}

	summaries := make([]reconcile.VolumeSummary, 0, len(resp.Volumes))
	for _, vol := range resp.Volumes {
		summaries = append(summaries, reconcile.VolumeSummary{
			Name:   vol.Name,
			Driver: vol.Driver,
		})
	}
	return summaries, nil
}

func (c *Client) CreateVolume(ctx context.Context, name string, spec reconcile.VolumeSpec) (reconcile.VolumeSummary, error) {
	vol, err := c.cli.VolumeCreate(ctx, dockervolume.CreateOptions{
		Name:   name,
		Driver: spec.Driver,
		Labels: spec.Labels,
	})
	if err != nil {
		return reconcile.VolumeSummary{}, fmt.Errorf("creating volume %q: %w", name, err)
	}

	return reconcile.VolumeSummary{Name: vol.Name, Driver: vol.Driver}, nil
}

func (c *Client) DeleteVolume(ctx context.Context, name string) error {
	if err := c.cli.VolumeRemove(ctx, name, true); err != nil {
		return fmt.Errorf("deleting volume %s: %w", name, err)
	}
	return nil
}
