package reconcile

import (
	"context"
	"fmt"

	"github.com/squili/tug/internal/plan"
)

// Volume reconciles a single declared volume entity, the same adopt/
// recreate shape as Network but comparing only the driver attribute.
func Volume(ctx context.Context, rc *Context, action plan.VolumeAction) error {
	matches, err := rc.Runtime.ListVolumes(ctx, []LabelFilter{
		LabelEquals(LabelGroup, rc.Group),
		LabelEquals(LabelName, action.Name),
	})
	if err != nil {
		return fmt.Errorf("listing volumes for %q: %w", action.Name, err)
	}

	if len(matches) == 0 {
		return createVolume(ctx, rc, action)
	}

	first := matches[0]
	if len(matches) == 1 && first.Driver == action.Driver {
		rc.Resolved.SetVolume(action.Resolved, first.Name)
		return nil
	}

	for _, match := range matches {
		rc.Finalize.Push(plan.DeleteVolume{Name: match.Name})
	}

	return createVolume(ctx, rc, action)
}

func createVolume(ctx context.Context, rc *Context, action plan.VolumeAction) error {
	created, err := rc.Runtime.CreateVolume(ctx, action.Name, VolumeSpec{
		Driver: action.Driver,
		Labels: map[string]string{
			LabelGroup: rc.Group,
			LabelName:  action.Name,
		},
	})
	if err != nil {
		return fmt.Errorf("creating volume %q: %w", action.Name, err)
	}

	rc.Resolved.SetVolume(action.Resolved, created.Name)
	rc.Backtrack.Push(plan.DeleteVolume{Name: created.Name})
	return nil
}
