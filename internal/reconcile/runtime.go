// Package reconcile compares remote container-runtime state against the
// resolved desired state for one step and issues the runtime calls needed
// to converge them: one reconciler function per resource kind.
package reconcile

import (
	"context"
	"io"

	"github.com/squili/tug/internal/document"
)

// LabelFilter selects runtime resources by label. A filter with
// ExistsOnly set matches any resource carrying Key regardless of value,
// mirroring the runtime's "label-key-exists" filter form.
type LabelFilter struct {
	Key        string
	Value      string
	ExistsOnly bool
}

// LabelEquals matches resources where label Key equals Value.
func LabelEquals(key, value string) LabelFilter {
	return LabelFilter{Key: key, Value: value}
}

// LabelExists matches resources carrying label Key, any value.
func LabelExists(key string) LabelFilter {
	return LabelFilter{Key: key, ExistsOnly: true}
}

// PortBinding is one container/host port pairing as reported or requested
// on a container.
type PortBinding struct {
	ContainerPort uint16
	HostPort      uint16
	Protocol      document.Protocol
}

// MountBinding is one named-volume attachment as reported or requested on
// a container.
type MountBinding struct {
	VolumeName  string
	Destination string
}

// NetworkAttachment is one network attachment as reported or requested on
// a container.
type NetworkAttachment struct {
	NetworkName string
	Aliases     []string
}

// ContainerSummary is the list-view shape of a runtime container.
type ContainerSummary struct {
	ID      string
	Labels  map[string]string
	State   string
	Running bool
}

// ContainerInspect is the detailed shape of a runtime container, as
// returned by an inspect call.
type ContainerInspect struct {
	ID       string
	ImageID  string
	Command  []string
	Ports    []PortBinding
	Networks []NetworkAttachment
	Mounts   []MountBinding
	Labels   map[string]string
	Running  bool
}

// ContainerSpec is a fully-resolved request to create a container.
type ContainerSpec struct {
	Image    string
	Command  []string
	Ports    []PortBinding
	Networks []NetworkAttachment
	Mounts   []MountBinding
	Env      map[string]string
	Labels   map[string]string
}

// ImageSummary is one matched runtime image.
type ImageSummary struct {
	ID string
}

// PullEvent is one message from a streaming image pull. Exactly one of ID
// or Error is set per event that terminates the stream's interest; other
// progress events may carry neither.
type PullEvent struct {
	ID    string
	Error string
}

// NetworkSummary is one matched runtime network.
type NetworkSummary struct {
	ID         string
	Name       string
	DNSEnabled bool
	Driver     string
	Internal   bool
}

// NetworkSpec is a request to create a network.
type NetworkSpec struct {
	DNSEnabled bool
	Driver     string
	Internal   bool
	Labels     map[string]string
}

// VolumeSummary is one matched runtime volume.
type VolumeSummary struct {
	Name   string
	Driver string
}

// VolumeSpec is a request to create a volume.
type VolumeSpec struct {
	Driver string
	Labels map[string]string
}

// SecretSummary is one matched runtime secret.
type SecretSummary struct {
	ID     string
	Name   string
	Labels map[string]string
}

// SecretInspect is the detailed shape of a runtime secret.
type SecretInspect struct {
	ID        string
	UpdatedAt int64
}

// Runtime is the container-runtime capability the engine reconciles
// against: a Docker/Podman-compatible HTTP API, abstracted so the engine
// and reconcilers never import a concrete client SDK directly.
type Runtime interface {
	ListContainers(ctx context.Context, filters []LabelFilter) ([]ContainerSummary, error)
	InspectContainer(ctx context.Context, id string) (ContainerInspect, error)
	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string) error
	DeleteContainer(ctx context.Context, id string) error
	CopyToContainer(ctx context.Context, id, destPath string, tarStream io.Reader) error

	ListImages(ctx context.Context, reference string) ([]ImageSummary, error)
	PullImage(ctx context.Context, reference string) (<-chan PullEvent, error)

	ListNetworks(ctx context.Context, filters []LabelFilter) ([]NetworkSummary, error)
	CreateNetwork(ctx context.Context, name string, spec NetworkSpec) (NetworkSummary, error)
	DeleteNetwork(ctx context.Context, id string) error

	ListVolumes(ctx context.Context, filters []LabelFilter) ([]VolumeSummary, error)
	CreateVolume(ctx context.Context, name string, spec VolumeSpec) (VolumeSummary, error)
	DeleteVolume(ctx context.Context, name string) error

	ListSecrets(ctx context.Context) ([]SecretSummary, error)
	InspectSecret(ctx context.Context, id string) (SecretInspect, error)
}
