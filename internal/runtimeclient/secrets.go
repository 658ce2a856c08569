package runtimeclient

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/swarm"

	"github.com/squili/tug/internal/reconcile"
)

// Secrets are a Swarm-mode resource in Docker: tug never creates them,
// only resolves references to secrets an operator has already created,
// exactly as the original tool documents.

func (c *Client) ListSecrets(ctx context.Context) ([]reconcile.SecretSummary, error) {
	secrets, err := c.cli.SecretList(ctx, swarm.SecretListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing secrets: %w", err)
	}

	summaries := make([]reconcile.SecretSummary, 0, len(secrets))
	for _, secret := range secrets {
		summaries = append(summaries, reconcile.SecretSummary{
			ID:     secret.ID,
			Name:   secret.Spec.Annotations.Name,
			Labels: secret.Spec.Annotations.Labels,
		})
	}
	return summaries, nil
}

func (c *Client) InspectSecret(ctx context.Context, id string) (reconcile.SecretInspect, error) {
	secret, _, err := c.cli.SecretInspectWithRaw(ctx, id)
	if err != nil {
		return reconcile.SecretInspect{}, fmt.Errorf("inspecting secret %s: %w", id, err)
	}

	return reconcile.SecretInspect{
		ID:        secret.ID,
		UpdatedAt: secret.Meta.UpdatedAt.UnixMilli(),
	}, nil
}
