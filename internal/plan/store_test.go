package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreReadyReturnsDependencyFreeSteps(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := store.Add(GarbageAction{}, nil)
	b := store.Add(ImageAction{Name: "img"}, nil)
	store.Add(ContainerAction{Name: "c"}, map[int]struct{}{a: {}, b: {}})

	ready := store.Ready()
	require.ElementsMatch(t, []int{a, b}, ready)
}

func TestStoreCompleteUnblocksDependents(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := store.Add(GarbageAction{}, nil)
	b := store.Add(ImageAction{Name: "img"}, nil)
	c := store.Add(ContainerAction{Name: "c"}, map[int]struct{}{a: {}, b: {}})

	require.Empty(t, store.Complete(a))
	newlyReady := store.Complete(b)
	require.Equal(t, []int{c}, newlyReady)
}

func TestStoreCompleteOnlyUnblocksWhenAllDependenciesDone(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := store.Add(GarbageAction{}, nil)
	b := store.Add(ImageAction{Name: "img"}, nil)
	d := store.Add(ImageAction{Name: "other"}, nil)
	store.Add(ContainerAction{Name: "c"}, map[int]struct{}{a: {}, b: {}, d: {}})

	require.Empty(t, store.Complete(a))
	require.Empty(t, store.Complete(b))
	newlyReady := store.Complete(d)
	require.Len(t, newlyReady, 1)
}
