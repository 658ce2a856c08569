// Package plan builds and stores the DAG of reconciliation steps that the
// engine executes: resolved-ref minting, step construction, dependency
// tracking, and the post-action queues reconcilers append to.
package plan

import "github.com/squili/tug/internal/document"

// ResolvedKind tags which entity kind a ResolvedRef was minted for.
type ResolvedKind int

const (
	ResolvedImage ResolvedKind = iota
	ResolvedNetwork
	ResolvedVolume
	ResolvedSecret
)

func (k ResolvedKind) String() string {
	switch k {
	case ResolvedImage:
		return "image"
	case ResolvedNetwork:
		return "network"
	case ResolvedVolume:
		return "volume"
	case ResolvedSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// ResolvedRef is the opaque (kind, dense integer) handle minted by the
// Plan Builder for every image/network/volume/secret entity. A container
// step references these, never the original declared name, once the plan
// is built.
type ResolvedRef struct {
	Kind ResolvedKind
	ID   int
}

// Action is the tagged union of per-kind step payloads. Exactly one
// concrete type is assigned to a Step at construction time and never
// changes; reconcilers type-switch on it.
type Action interface {
	isAction()
}

// ImageAction reconciles a single declared image entity.
type ImageAction struct {
	Resolved  ResolvedRef
	Name      string
	Reference string
	Local     bool
	Line      int
}

func (ImageAction) isAction() {}

// NetworkAction reconciles a single declared network entity.
type NetworkAction struct {
	Resolved   ResolvedRef
	Name       string
	DNSEnabled bool
	Internal   bool
	Driver     string
}

func (NetworkAction) isAction() {}

// VolumeAction reconciles a single declared volume entity.
type VolumeAction struct {
	Resolved ResolvedRef
	Name     string
	Driver   string
}

func (VolumeAction) isAction() {}

// SecretAction resolves a single referenced secret entity. Secrets are
// never created by the tool.
type SecretAction struct {
	Resolved ResolvedRef
	Name     string
	Line     int
}

func (SecretAction) isAction() {}

// GarbageAction stops and schedules deletion of any runtime container
// carrying this run's group label whose name is not in ContainerNames.
type GarbageAction struct {
	ContainerNames map[string]struct{}
}

func (GarbageAction) isAction() {}

// ContainerPort is one resolved container/host port pairing.
type ContainerPort struct {
	Container uint16
	Host      uint16
	Protocol  document.Protocol
}

// ContainerInject is one resolved host-to-container copy declaration.
type ContainerInject struct {
	At   string
	Path string
}

// ContainerNetwork attaches a container to a resolved network.
type ContainerNetwork struct {
	Resolved ResolvedRef
	Aliases  []string
}

// ContainerMount attaches a resolved volume to a container.
type ContainerMount struct {
	Kind        document.MountKind
	Resolved    ResolvedRef
	Destination string
}

// ContainerSecret binds a resolved secret into a container's environment.
type ContainerSecret struct {
	Resolved ResolvedRef
	Target   string
}

// ContainerAction reconciles a single declared container entity, fully
// resolved against the image/network/volume/secret tables built earlier
// in the same plan.
type ContainerAction struct {
	Name     string
	Command  []string
	Image    ResolvedRef
	Ports    []ContainerPort
	Injects  []ContainerInject
	Networks []ContainerNetwork
	Mounts   []ContainerMount
	Secrets  []ContainerSecret
}

func (ContainerAction) isAction() {}
