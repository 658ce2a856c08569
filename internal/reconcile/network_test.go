package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squili/tug/internal/plan"
	"github.com/squili/tug/internal/reconcile"
)

func TestNetworkCreatesWhenAbsent(t *testing.T) {
	runtime := newFakeRuntime()
	rc := newTestContext(runtime)
	ref := plan.ResolvedRef{Kind: plan.ResolvedNetwork, ID: 1}

	err := reconcile.Network(context.Background(), rc, plan.NetworkAction{
		Resolved: ref,
		Name:     "front",
		Driver:   "bridge",
	})
	require.NoError(t, err)
	require.NotNil(t, runtime.createdNetwork)

	name, ok := rc.Resolved.Network(ref)
	require.True(t, ok)
	require.Equal(t, "front", name)

	actions := rc.Backtrack.Drain()
	require.Len(t, actions, 1)
	require.Equal(t, plan.DeleteNetwork{ID: "net-front"}, actions[0])
}

func TestNetworkAdoptsMatchingAttributes(t *testing.T) {
	runtime := newFakeRuntime()
	runtime.networks["existing"] = reconcile.NetworkSummary{
		ID: "existing", Name: "existing-name", Driver: "bridge", DNSEnabled: true,
	}
	rc := newTestContext(runtime)
	ref := plan.ResolvedRef{Kind: plan.ResolvedNetwork, ID: 1}

	err := reconcile.Network(context.Background(), rc, plan.NetworkAction{
		Resolved:   ref,
		Name:       "front",
		Driver:     "bridge",
		DNSEnabled: true,
	})
	require.NoError(t, err)

	name, ok := rc.Resolved.Network(ref)
	require.True(t, ok)
	require.Equal(t, "existing-name", name)
	require.Nil(t, runtime.createdNetwork)
}

func TestNetworkRecreatesOnMismatch(t *testing.T) {
	runtime := newFakeRuntime()
	runtime.networks["stale"] = reconcile.NetworkSummary{ID: "stale", Name: "stale-name", Driver: "macvlan"}

	rc := newTestContext(runtime)
	ref := plan.ResolvedRef{Kind: plan.ResolvedNetwork, ID: 1}

	err := reconcile.Network(context.Background(), rc, plan.NetworkAction{
		Resolved: ref,
		Name:     "front",
		Driver:   "bridge",
	})
	require.NoError(t, err)
	require.NotNil(t, runtime.createdNetwork)

	finalized := rc.Finalize.Drain()
	require.Len(t, finalized, 1)
	require.Equal(t, plan.DeleteNetwork{ID: "stale"}, finalized[0])
}
