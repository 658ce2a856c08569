package reconcile_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/squili/tug/internal/reconcile"
)

// fakeRuntime is an in-memory stand-in for a container-runtime Runtime,
// hand-populated by each test with whatever remote state it needs.
type fakeRuntime struct {
	mu sync.Mutex

	containers        map[string]*reconcile.ContainerInspect
	containerSummary  map[string]reconcile.ContainerSummary
	createdContainers []reconcile.ContainerSpec
	stopped           []string
	started           []string
	deletedContainers []string
	copies            []string

	images      map[string]reconcile.ImageSummary
	pullResults []reconcile.PullEvent
	pullErr     error

	networks       map[string]reconcile.NetworkSummary
	createdNetwork *reconcile.NetworkSpec
	deletedNetwork []string

	volumes       map[string]reconcile.VolumeSummary
	createdVolume *reconcile.VolumeSpec
	deletedVolume []string

	secrets        []reconcile.SecretSummary
	secretInspects map[string]reconcile.SecretInspect

	nextContainerID int
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		containers:       make(map[string]*reconcile.ContainerInspect),
		containerSummary: make(map[string]reconcile.ContainerSummary),
		images:           make(map[string]reconcile.ImageSummary),
		networks:         make(map[string]reconcile.NetworkSummary),
		volumes:          make(map[string]reconcile.VolumeSummary),
		secretInspects:   make(map[string]reconcile.SecretInspect),
	}
}

func matchesFilters(labels map[string]string, filters []reconcile.LabelFilter) bool {
	for _, filter := range filters {
		value, ok := labels[filter.Key]
		if !ok {
			return false
		}
		if !filter.ExistsOnly && value != filter.Value {
			return false
		}
	}
	return true
}

func (f *fakeRuntime) ListContainers(_ context.Context, filters []reconcile.LabelFilter) ([]reconcile.ContainerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []reconcile.ContainerSummary
	for _, summary := range f.containerSummary {
		if matchesFilters(summary.Labels, filters) {
			out = append(out, summary)
		}
	}
	return out, nil
}

func (f *fakeRuntime) InspectContainer(_ context.Context, id string) (reconcile.ContainerInspect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inspect, ok := f.containers[id]
	if !ok {
		return reconcile.ContainerInspect{}, fmt.Errorf("no such container %s", id)
	}
	return *inspect, nil
}

func (f *fakeRuntime) CreateContainer(_ context.Context, spec reconcile.ContainerSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextContainerID++
	id := fmt.Sprintf("created-%d", f.nextContainerID)
	f.createdContainers = append(f.createdContainers, spec)
	f.containers[id] = &reconcile.ContainerInspect{
		ID:      id,
		ImageID: spec.Image,
		Command: spec.Command,
		Labels:  spec.Labels,
	}
	f.containerSummary[id] = reconcile.ContainerSummary{ID: id, Labels: spec.Labels, Running: false}
	return id, nil
}

func (f *fakeRuntime) StartContainer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, id)
	if summary, ok := f.containerSummary[id]; ok {
		summary.Running = true
		summary.State = "running"
		f.containerSummary[id] = summary
	}
	return nil
}

func (f *fakeRuntime) StopContainer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, id)
	if summary, ok := f.containerSummary[id]; ok {
		summary.Running = false
		summary.State = "stopped"
		f.containerSummary[id] = summary
	}
	return nil
}

func (f *fakeRuntime) DeleteContainer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedContainers = append(f.deletedContainers, id)
	delete(f.containers, id)
	delete(f.containerSummary, id)
	return nil
}

func (f *fakeRuntime) CopyToContainer(_ context.Context, id, destPath string, tarStream io.Reader) error {
	if _, err := io.Copy(io.Discard, tarStream); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies = append(f.copies, id+":"+destPath)
	return nil
}

func (f *fakeRuntime) ListImages(_ context.Context, reference string) ([]reconcile.ImageSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if summary, ok := f.images[reference]; ok {
		return []reconcile.ImageSummary{summary}, nil
	}
	return nil, nil
}

func (f *fakeRuntime) PullImage(_ context.Context, _ string) (<-chan reconcile.PullEvent, error) {
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	ch := make(chan reconcile.PullEvent, len(f.pullResults))
	for _, event := range f.pullResults {
		ch <- event
	}
	close(ch)
	return ch, nil
}

func (f *fakeRuntime) ListNetworks(_ context.Context, filters []reconcile.LabelFilter) ([]reconcile.NetworkSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []reconcile.NetworkSummary
	for _, summary := range f.networks {
		out = append(out, summary)
	}
	_ = filters
	return out, nil
}

func (f *fakeRuntime) CreateNetwork(_ context.Context, name string, spec reconcile.NetworkSpec) (reconcile.NetworkSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdNetwork = &spec
	summary := reconcile.NetworkSummary{ID: "net-" + name, Name: name, DNSEnabled: spec.DNSEnabled, Driver: spec.Driver, Internal: spec.Internal}
	f.networks[summary.ID] = summary
	return summary, nil
}

func (f *fakeRuntime) DeleteNetwork(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedNetwork = append(f.deletedNetwork, id)
	delete(f.networks, id)
	return nil
}

func (f *fakeRuntime) ListVolumes(_ context.Context, filters []reconcile.LabelFilter) ([]reconcile.VolumeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []reconcile.VolumeSummary
	for _, summary := range f.volumes {
		out = append(out, summary)
	}
	_ = filters
	return out, nil
}

func (f *fakeRuntime) CreateVolume(_ context.Context, name string, spec reconcile.VolumeSpec) (reconcile.VolumeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdVolume = &spec
	summary := reconcile.VolumeSummary{Name: name, Driver: spec.Driver}
	f.volumes[name] = summary
	return summary, nil
}

func (f *fakeRuntime) DeleteVolume(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedVolume = append(f.deletedVolume, name)
	delete(f.volumes, name)
	return nil
}

func (f *fakeRuntime) ListSecrets(_ context.Context) ([]reconcile.SecretSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secrets, nil
}

func (f *fakeRuntime) InspectSecret(_ context.Context, id string) (reconcile.SecretInspect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inspect, ok := f.secretInspects[id]
	if !ok {
		return reconcile.SecretInspect{}, fmt.Errorf("no such secret %s", id)
	}
	return inspect, nil
}

var _ reconcile.Runtime = (*fakeRuntime)(nil)
