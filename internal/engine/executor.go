// Package engine runs the admission-loop scheduler that drives a plan's
// steps to completion against a container runtime, then drains whichever
// post-action queue the run's outcome calls for.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/squili/tug/internal/plan"
	"github.com/squili/tug/internal/reconcile"
)

// DefaultConcurrencyLimit bounds how many steps may be in flight at once.
// The admission loop only dispatches while the limit is above 1, so the
// effective parallelism is one less than this value.
const DefaultConcurrencyLimit = 5

type completion struct {
	stepID int
	err    error
}

// Run drives every step in store to completion against rc's runtime,
// honoring dependency order and the concurrency limit, then runs the
// finalize queue on overall success or the backtrack queue on failure.
// A non-nil error joins every step failure and any error encountered
// while running finalize or backtrack.
func Run(ctx context.Context, store *plan.Store, rc *reconcile.Context) error {
	return run(ctx, store, rc, DefaultConcurrencyLimit)
}

// RunWithLimit behaves like Run but overrides the admission window.
// Values below 2 fall back to DefaultConcurrencyLimit, since the
// scheduler's off-by-one reservation requires at least one slot above
// the dispatch threshold.
func RunWithLimit(ctx context.Context, store *plan.Store, rc *reconcile.Context, limit int) error {
	if limit < 2 {
		limit = DefaultConcurrencyLimit
	}
	return run(ctx, store, rc, limit)
}

func run(ctx context.Context, store *plan.Store, rc *reconcile.Context, startingLimit int) error {
	if store.Len() == 0 {
		rc.Logger.Debug("no steps")
		return nil
	}

	toStart := store.Ready()
	completions := make(chan completion, startingLimit)
	concurrencyLimit := startingLimit

	var failures []error

	dispatch := func(id int) {
		store.MarkRunning(id)
		action := store.Action(id)
		go func() {
			completions <- completion{stepID: id, err: runStep(ctx, rc, action)}
		}()
	}

	for len(toStart) > 0 || concurrencyLimit != startingLimit {
		for concurrencyLimit > 1 && len(toStart) > 0 {
			id := toStart[len(toStart)-1]
			toStart = toStart[:len(toStart)-1]
			concurrencyLimit--
			rc.Logger.Debug(fmt.Sprintf("dispatching step %d", id))
			dispatch(id)
		}

		result := <-completions
		concurrencyLimit++

		if result.err != nil {
			failures = append(failures, fmt.Errorf("step %d: %w", result.stepID, result.err))
			break
		}

		toStart = append(toStart, store.Complete(result.stepID)...)
	}

	for concurrencyLimit < startingLimit {
		result := <-completions
		concurrencyLimit++
		if result.err != nil {
			failures = append(failures, fmt.Errorf("step %d: %w", result.stepID, result.err))
		}
	}

	if len(failures) == 0 {
		rc.Logger.Debug("finalizing")
		if err := runPostActions(ctx, rc.Runtime, rc.Finalize.Drain()); err != nil {
			failures = append(failures, fmt.Errorf("finalizing: %w", err))
		}
		return errors.Join(failures...)
	}

	rc.Logger.Debug("failure state reached, running backtrack")
	if err := runPostActions(ctx, rc.Runtime, rc.Backtrack.Drain()); err != nil {
		failures = append(failures, fmt.Errorf("during backtrack: %w", err))
	}

	return errors.Join(failures...)
}

func runStep(ctx context.Context, rc *reconcile.Context, action plan.Action) error {
	switch a := action.(type) {
	case plan.ImageAction:
		return reconcile.Image(ctx, rc, a)
	case plan.NetworkAction:
		return reconcile.Network(ctx, rc, a)
	case plan.VolumeAction:
		return reconcile.Volume(ctx, rc, a)
	case plan.SecretAction:
		return reconcile.Secret(ctx, rc, a)
	case plan.GarbageAction:
		return reconcile.Garbage(ctx, rc, a)
	case plan.ContainerAction:
		return reconcile.Container(ctx, rc, a)
	default:
		return fmt.Errorf("unknown step action type %T", action)
	}
}

func runPostActions(ctx context.Context, runtime reconcile.Runtime, actions []plan.PostAction) error {
	if len(actions) == 0 {
		return nil
	}

	results := make([]error, len(actions))
	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action plan.PostAction) {
			defer wg.Done()
			results[i] = runPostAction(ctx, runtime, action)
		}(i, action)
	}
	wg.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runPostAction(ctx context.Context, runtime reconcile.Runtime, action plan.PostAction) error {
	switch a := action.(type) {
	case plan.DeleteContainer:
		return runtime.DeleteContainer(ctx, a.ID)
	case plan.RestartContainer:
		return runtime.StartContainer(ctx, a.ID)
	case plan.DeleteNetwork:
		return runtime.DeleteNetwork(ctx, a.ID)
	case plan.DeleteVolume:
		return runtime.DeleteVolume(ctx, a.Name)
	default:
		return fmt.Errorf("unknown post-action type %T", action)
	}
}
