package reconcile

import (
	"context"
	"fmt"

	"github.com/squili/tug/internal/plan"
	tugerrors "github.com/squili/tug/pkg/errors"
)

// Image reconciles a single declared image entity: list by reference,
// adopt the first match, or pull on miss unless the entity is local-only.
func Image(ctx context.Context, rc *Context, action plan.ImageAction) error {
	matches, err := rc.Runtime.ListImages(ctx, action.Reference)
	if err != nil {
		return fmt.Errorf("listing images for %q: %w", action.Reference, err)
	}

	if len(matches) > 0 {
		if len(matches) > 1 {
			rc.Logger.Warn(fmt.Sprintf("multiple images matched reference %q, choosing the first", action.Reference))
		}
		rc.Resolved.SetImage(action.Resolved, matches[0].ID)
		return nil
	}

	if action.Local {
		return tugerrors.NewImageNotFoundError(action.Name, action.Reference, action.Line)
	}

	events, err := rc.Runtime.PullImage(ctx, action.Reference)
	if err != nil {
		return fmt.Errorf("pulling image %q: %w", action.Reference, err)
	}

	for event := range events {
		if event.Error != "" {
			return fmt.Errorf("pulling image %q: %s", action.Reference, event.Error)
		}
		if event.ID != "" {
			rc.Resolved.SetImage(action.Resolved, event.ID)
			return nil
		}
	}

	return fmt.Errorf("pull stream for %q completed without a resolved image id", action.Reference)
}
