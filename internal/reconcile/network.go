package reconcile

import (
	"context"
	"fmt"

	"github.com/squili/tug/internal/plan"
)

// Network reconciles a single declared network entity: zero matches
// creates one, one matching attribute set adopts it, anything else
// schedules the mismatched matches for deletion at finalize and creates
// a fresh one.
func Network(ctx context.Context, rc *Context, action plan.NetworkAction) error {
	matches, err := rc.Runtime.ListNetworks(ctx, []LabelFilter{
		LabelEquals(LabelGroup, rc.Group),
		LabelEquals(LabelName, action.Name),
	})
	if err != nil {
		return fmt.Errorf("listing networks for %q: %w", action.Name, err)
	}

	if len(matches) == 0 {
		return createNetwork(ctx, rc, action)
	}

	first := matches[0]
	if len(matches) == 1 &&
		first.DNSEnabled == action.DNSEnabled &&
		first.Driver == action.Driver &&
		first.Internal == action.Internal {
		rc.Resolved.SetNetwork(action.Resolved, first.Name)
		return nil
	}

	for _, match := range matches {
		rc.Finalize.Push(plan.DeleteNetwork{ID: match.ID})
	}

	return createNetwork(ctx, rc, action)
}

func createNetwork(ctx context.Context, rc *Context, action plan.NetworkAction) error {
	created, err := rc.Runtime.CreateNetwork(ctx, action.Name, NetworkSpec{
		DNSEnabled: action.DNSEnabled,
		Driver:     action.Driver,
		Internal:   action.Internal,
		Labels: map[string]string{
			LabelGroup: rc.Group,
			LabelName:  action.Name,
		},
	})
	if err != nil {
		return fmt.Errorf("creating network %q: %w", action.Name, err)
	}

	rc.Backtrack.Push(plan.DeleteNetwork{ID: created.ID})
	rc.Resolved.SetNetwork(action.Resolved, created.Name)
	return nil
}
