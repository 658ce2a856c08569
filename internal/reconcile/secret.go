package reconcile

import (
	"context"
	"fmt"

	"github.com/squili/tug/internal/plan"
	tugerrors "github.com/squili/tug/pkg/errors"
)

// Secret resolves a single referenced secret entity. Secrets are never
// created by the tool: the reconciler lists all secrets, prefers one
// bearing this run's (group, name) labels, otherwise falls back to a
// secret whose runtime name equals the desired name.
func Secret(ctx context.Context, rc *Context, action plan.SecretAction) error {
	secrets, err := rc.Runtime.ListSecrets(ctx)
	if err != nil {
		return fmt.Errorf("listing secrets for %q: %w", action.Name, err)
	}

	for _, secret := range secrets {
		if secret.Labels[LabelGroup] == rc.Group && secret.Labels[LabelName] == action.Name {
			rc.Resolved.SetSecret(action.Resolved, secret.ID)
			return nil
		}
	}

	for _, secret := range secrets {
		if secret.Name == action.Name {
			rc.Resolved.SetSecret(action.Resolved, secret.ID)
			return nil
		}
	}

	return tugerrors.NewSecretNotFoundError(action.Name, action.Line)
}
