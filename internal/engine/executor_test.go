package engine_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squili/tug/internal/engine"
	"github.com/squili/tug/internal/plan"
	"github.com/squili/tug/internal/reconcile"
)

// stubRuntime is a minimal reconcile.Runtime covering only what the
// executor's two scenario tests exercise.
type stubRuntime struct {
	images map[string]reconcile.ImageSummary

	createContainerErr error
	created            []reconcile.ContainerSpec
	started            []string
	deleted            []string
	restarted          []string
}

func (s *stubRuntime) ListContainers(context.Context, []reconcile.LabelFilter) ([]reconcile.ContainerSummary, error) {
	return nil, nil
}

func (s *stubRuntime) InspectContainer(context.Context, string) (reconcile.ContainerInspect, error) {
	return reconcile.ContainerInspect{}, errors.New("not implemented")
}

func (s *stubRuntime) CreateContainer(_ context.Context, spec reconcile.ContainerSpec) (string, error) {
	if s.createContainerErr != nil {
		return "", s.createContainerErr
	}
	s.created = append(s.created, spec)
	return "new-container", nil
}

func (s *stubRuntime) StartContainer(_ context.Context, id string) error {
	s.started = append(s.started, id)
	return nil
}

func (s *stubRuntime) StopContainer(context.Context, string) error { return nil }

func (s *stubRuntime) DeleteContainer(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRuntime) CopyToContainer(_ context.Context, _ string, _ string, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (s *stubRuntime) ListImages(_ context.Context, reference string) ([]reconcile.ImageSummary, error) {
	if summary, ok := s.images[reference]; ok {
		return []reconcile.ImageSummary{summary}, nil
	}
	return nil, nil
}

func (s *stubRuntime) PullImage(context.Context, string) (<-chan reconcile.PullEvent, error) {
	ch := make(chan reconcile.PullEvent, 1)
	ch <- reconcile.PullEvent{ID: "sha256:pulled"}
	close(ch)
	return ch, nil
}

func (s *stubRuntime) ListNetworks(context.Context, []reconcile.LabelFilter) ([]reconcile.NetworkSummary, error) {
	return nil, nil
}

func (s *stubRuntime) CreateNetwork(_ context.Context, name string, spec reconcile.NetworkSpec) (reconcile.NetworkSummary, error) {
	return reconcile.NetworkSummary{ID: "net-" + name, Name: name}, nil
}

func (s *stubRuntime) DeleteNetwork(context.Context, string) error { return nil }

func (s *stubRuntime) ListVolumes(context.Context, []reconcile.LabelFilter) ([]reconcile.VolumeSummary, error) {
	return nil, nil
}

func (s *stubRuntime) CreateVolume(_ context.Context, name string, spec reconcile.VolumeSpec) (reconcile.VolumeSummary, error) {
	return reconcile.VolumeSummary{Name: name, Driver: spec.Driver}, nil
}

func (s *stubRuntime) DeleteVolume(context.Context, string) error { return nil }

func (s *stubRuntime) ListSecrets(context.Context) ([]reconcile.SecretSummary, error) { return nil, nil }

func (s *stubRuntime) InspectSecret(context.Context, string) (reconcile.SecretInspect, error) {
	return reconcile.SecretInspect{}, errors.New("not implemented")
}

var _ reconcile.Runtime = (*stubRuntime)(nil)

func newTestRC(runtime reconcile.Runtime) *reconcile.Context {
	return &reconcile.Context{
		Runtime:   runtime,
		Group:     "default",
		RootDir:   ".",
		Resolved:  reconcile.NewResolvedTables(),
		Backtrack: &reconcile.ActionQueue{},
		Finalize:  &reconcile.ActionQueue{},
	}
}

func TestRunEmptyStoreIsNoOp(t *testing.T) {
	store := plan.NewStore()
	rc := newTestRC(&stubRuntime{})

	err := engine.Run(context.Background(), store, rc)
	require.NoError(t, err)
}

func TestRunColdCreate(t *testing.T) {
	store := plan.NewStore()
	imageRef := plan.ResolvedRef{Kind: plan.ResolvedImage, ID: 1}
	imageStep := store.Add(plan.ImageAction{
		Resolved:  imageRef,
		Name:      "app",
		Reference: "docker.io/nginx:1.25",
	}, nil)
	store.Add(plan.ContainerAction{
		Name:  "c1",
		Image: imageRef,
		Ports: []plan.ContainerPort{{Container: 80, Host: 80}},
	}, map[int]struct{}{imageStep: {}})

	runtime := &stubRuntime{images: map[string]reconcile.ImageSummary{}}
	rc := newTestRC(runtime)

	err := engine.Run(context.Background(), store, rc)
	require.NoError(t, err)

	require.Len(t, runtime.created, 1)
	require.Equal(t, "sha256:pulled", runtime.created[0].Image)
	require.Equal(t, []string{"new-container"}, runtime.started)

	// The container reconciler always pushes its own teardown onto
	// backtrack; on a successful run that entry is simply never run.
	require.Equal(t, []plan.PostAction{plan.DeleteContainer{ID: "new-container"}}, rc.Backtrack.Drain())
	require.Empty(t, rc.Finalize.Drain())
}

func TestRunFailureRunsBacktrackAndLeavesImageAdoptionInPlace(t *testing.T) {
	store := plan.NewStore()
	imageRef := plan.ResolvedRef{Kind: plan.ResolvedImage, ID: 1}
	imageStep := store.Add(plan.ImageAction{
		Resolved:  imageRef,
		Name:      "app",
		Reference: "docker.io/nginx:1.25",
	}, nil)
	store.Add(plan.ContainerAction{
		Name:  "c1",
		Image: imageRef,
	}, map[int]struct{}{imageStep: {}})

	runtime := &stubRuntime{
		images:             map[string]reconcile.ImageSummary{"docker.io/nginx:1.25": {ID: "sha256:existing"}},
		createContainerErr: errors.New("daemon unavailable"),
	}
	rc := newTestRC(runtime)

	err := engine.Run(context.Background(), store, rc)
	require.Error(t, err)

	require.Empty(t, runtime.created)
	require.Empty(t, runtime.deleted)
	require.Empty(t, runtime.restarted)
}
