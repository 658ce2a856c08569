package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squili/tug/internal/plan"
	"github.com/squili/tug/internal/reconcile"
)

func newTestContext(runtime reconcile.Runtime) *reconcile.Context {
	return &reconcile.Context{
		Runtime:   runtime,
		Group:     "test-group",
		RootDir:   ".",
		Resolved:  reconcile.NewResolvedTables(),
		Backtrack: &reconcile.ActionQueue{},
		Finalize:  &reconcile.ActionQueue{},
	}
}

func TestImageAdoptsExistingMatch(t *testing.T) {
	runtime := newFakeRuntime()
	runtime.images["example.org/app:latest"] = reconcile.ImageSummary{ID: "sha256:existing"}

	rc := newTestContext(runtime)
	ref := plan.ResolvedRef{Kind: plan.ResolvedImage, ID: 1}

	err := reconcile.Image(context.Background(), rc, plan.ImageAction{
		Resolved:  ref,
		Name:      "app",
		Reference: "example.org/app:latest",
	})
	require.NoError(t, err)

	id, ok := rc.Resolved.Image(ref)
	require.True(t, ok)
	require.Equal(t, "sha256:existing", id)
}

func TestImageLocalOnlyMissingIsError(t *testing.T) {
	runtime := newFakeRuntime()
	rc := newTestContext(runtime)

	err := reconcile.Image(context.Background(), rc, plan.ImageAction{
		Resolved:  plan.ResolvedRef{Kind: plan.ResolvedImage, ID: 1},
		Name:      "app",
		Reference: "example.org/app:latest",
		Local:     true,
		Line:      7,
	})
	require.Error(t, err)
}

func TestImagePullsOnMiss(t *testing.T) {
	runtime := newFakeRuntime()
	runtime.pullResults = []reconcile.PullEvent{{ID: "sha256:pulled"}}

	rc := newTestContext(runtime)
	ref := plan.ResolvedRef{Kind: plan.ResolvedImage, ID: 1}

	err := reconcile.Image(context.Background(), rc, plan.ImageAction{
		Resolved:  ref,
		Name:      "app",
		Reference: "example.org/app:latest",
	})
	require.NoError(t, err)

	id, ok := rc.Resolved.Image(ref)
	require.True(t, ok)
	require.Equal(t, "sha256:pulled", id)
}

func TestImagePullStreamErrorPropagates(t *testing.T) {
	runtime := newFakeRuntime()
	runtime.pullResults = []reconcile.PullEvent{{Error: "manifest unknown"}}

	rc := newTestContext(runtime)
	err := reconcile.Image(context.Background(), rc, plan.ImageAction{
		Resolved:  plan.ResolvedRef{Kind: plan.ResolvedImage, ID: 1},
		Name:      "app",
		Reference: "example.org/app:latest",
	})
	require.Error(t, err)
}
