package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/squili/tug/internal/plan"
)

// Garbage lists every runtime container carrying this run's group label
// and a name label at all, and for each whose name is not in the
// declared set: if it is running, stops it (concurrently across victims)
// and pushes RestartContainer onto backtrack; every such container gets
// DeleteContainer pushed onto finalize. Deletion itself waits for overall
// run success.
func Garbage(ctx context.Context, rc *Context, action plan.GarbageAction) error {
	containers, err := rc.Runtime.ListContainers(ctx, []LabelFilter{
		LabelEquals(LabelGroup, rc.Group),
		LabelExists(LabelName),
	})
	if err != nil {
		return fmt.Errorf("listing containers for garbage pass: %w", err)
	}

	var toStop []string
	for _, container := range containers {
		name, ok := container.Labels[LabelName]
		if !ok {
			continue
		}
		if _, declared := action.ContainerNames[name]; declared {
			continue
		}

		if container.Running {
			toStop = append(toStop, container.ID)
			rc.Backtrack.Push(plan.RestartContainer{ID: container.ID})
		}
		rc.Finalize.Push(plan.DeleteContainer{ID: container.ID})
	}

	var wg sync.WaitGroup
	errs := make([]error, len(toStop))
	for i, id := range toStop {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			if err := rc.Runtime.StopContainer(ctx, id); err != nil {
				errs[i] = fmt.Errorf("stopping container %s during garbage pass: %w", id, err)
			}
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
