package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squili/tug/internal/plan"
	"github.com/squili/tug/internal/reconcile"
)

func TestSecretPrefersGroupLabeledMatch(t *testing.T) {
	runtime := newFakeRuntime()
	runtime.secrets = []reconcile.SecretSummary{
		{ID: "secret-by-name", Name: "db-password"},
		{ID: "secret-labeled", Name: "unrelated-runtime-name", Labels: map[string]string{
			reconcile.LabelGroup: "test-group",
			reconcile.LabelName:  "db-password",
		}},
	}

	rc := newTestContext(runtime)
	ref := plan.ResolvedRef{Kind: plan.ResolvedSecret, ID: 1}

	err := reconcile.Secret(context.Background(), rc, plan.SecretAction{Resolved: ref, Name: "db-password"})
	require.NoError(t, err)

	id, ok := rc.Resolved.Secret(ref)
	require.True(t, ok)
	require.Equal(t, "secret-labeled", id)
}

func TestSecretFallsBackToRuntimeName(t *testing.T) {
	runtime := newFakeRuntime()
	runtime.secrets = []reconcile.SecretSummary{
		{ID: "secret-by-name", Name: "db-password"},
	}

	rc := newTestContext(runtime)
	ref := plan.ResolvedRef{Kind: plan.ResolvedSecret, ID: 1}

	err := reconcile.Secret(context.Background(), rc, plan.SecretAction{Resolved: ref, Name: "db-password"})
	require.NoError(t, err)

	id, ok := rc.Resolved.Secret(ref)
	require.True(t, ok)
	require.Equal(t, "secret-by-name", id)
}

func TestSecretMissingIsError(t *testing.T) {
	runtime := newFakeRuntime()
	rc := newTestContext(runtime)

	err := reconcile.Secret(context.Background(), rc, plan.SecretAction{
		Resolved: plan.ResolvedRef{Kind: plan.ResolvedSecret, ID: 1},
		Name:     "missing",
		Line:     12,
	})
	require.Error(t, err)
}
