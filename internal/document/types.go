// Package document defines the abstract document model consumed by the
// plan builder: images, networks, volumes, and containers declared across
// a directory of *.tug.yaml files.
package document

// Document is an unordered collection of the four named-entity kinds a
// declared deployment can contain.
type Document struct {
	Images     []Image
	Networks   []Network
	Volumes    []Volume
	Containers []Container
}

// Image declares a named reference to a runtime image.
type Image struct {
	Name      string
	Reference string
	Local     bool
	Line      int
}

// Network declares a named container network.
type Network struct {
	Name       string
	DNSEnabled bool
	Internal   bool
	Driver     string
	Line       int
}

// Volume declares a named persistent volume.
type Volume struct {
	Name   string
	Driver string
	Line   int
}

// Protocol is the transport protocol of a container port mapping.
type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

// Port is one container/host port pairing.
type Port struct {
	Container uint16
	Host      uint16
	Protocol  Protocol
	Line      int
}

// Inject is a host source tree (Path) copied into the container under At
// after creation. Line is the declaration's source line.
type Inject struct {
	At   string
	Path string
	Line int
}

// ContainerNetwork attaches a container to a declared network under
// zero or more aliases.
type ContainerNetwork struct {
	Name    string
	Aliases []string
	Line    int
}

// MountKind enumerates the supported mount sources. Only named volumes
// are supported today.
type MountKind string

const (
	MountKindVolume MountKind = "volume"
)

// Mount attaches a declared volume to a container at Destination.
type Mount struct {
	Kind        MountKind
	Name        string
	Destination string
	Line        int
}

// SecretMount binds a declared secret into a container's environment
// under Target.
type SecretMount struct {
	Name   string
	Target string
	Line   int
}

// Container declares a single reconcilable container workload.
type Container struct {
	Name     string
	Image    string
	Command  string
	Ports    []Port
	Injects  []Inject
	Networks []ContainerNetwork
	Mounts   []Mount
	Secrets  []SecretMount
	Line     int
}
