package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML captures the declaration's source line alongside its fields.
func (img *Image) UnmarshalYAML(node *yaml.Node) error {
	var shadow struct {
		Name      string `yaml:"name"`
		Reference string `yaml:"reference"`
		Local     bool   `yaml:"local"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}
	img.Name = shadow.Name
	img.Reference = shadow.Reference
	img.Local = shadow.Local
	img.Line = node.Line
	return nil
}

// UnmarshalYAML captures the declaration's source line alongside its fields.
func (n *Network) UnmarshalYAML(node *yaml.Node) error {
	shadow := struct {
		Name       string `yaml:"name"`
		DNSEnabled bool   `yaml:"dns_enabled"`
		Internal   bool   `yaml:"internal"`
		Driver     string `yaml:"driver"`
	}{Driver: "bridge"}
	if err := node.Decode(&shadow); err != nil {
		return err
	}
	n.Name = shadow.Name
	n.DNSEnabled = shadow.DNSEnabled
	n.Internal = shadow.Internal
	n.Driver = shadow.Driver
	n.Line = node.Line
	return nil
}

// UnmarshalYAML captures the declaration's source line alongside its fields.
func (v *Volume) UnmarshalYAML(node *yaml.Node) error {
	shadow := struct {
		Name   string `yaml:"name"`
		Driver string `yaml:"driver"`
	}{Driver: "local"}
	if err := node.Decode(&shadow); err != nil {
		return err
	}
	v.Name = shadow.Name
	v.Driver = shadow.Driver
	v.Line = node.Line
	return nil
}

// UnmarshalYAML accepts either a bare port number (shorthand, same port on
// both sides, tcp) or an explicit mapping of container/host/protocol.
func (p *Port) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var shorthand uint16
		if err := node.Decode(&shorthand); err != nil {
			return err
		}
		p.Container = shorthand
		p.Host = shorthand
		p.Protocol = ProtocolTCP
		p.Line = node.Line
		return nil
	}

	shadow := struct {
		Container uint16 `yaml:"container"`
		Host      uint16 `yaml:"host"`
		Protocol  string `yaml:"protocol"`
	}{Protocol: "tcp"}
	if err := node.Decode(&shadow); err != nil {
		return err
	}

	protocol := ProtocolTCP
	switch shadow.Protocol {
	case "tcp", "":
		protocol = ProtocolTCP
	case "udp":
		protocol = ProtocolUDP
	default:
		return fmt.Errorf("unknown port protocol %q", shadow.Protocol)
	}

	p.Container = shadow.Container
	p.Host = shadow.Host
	p.Protocol = protocol
	p.Line = node.Line
	return nil
}

// UnmarshalYAML captures the declaration's source line alongside its fields.
func (i *Inject) UnmarshalYAML(node *yaml.Node) error {
	var shadow struct {
		At   string `yaml:"at"`
		Path string `yaml:"path"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}
	i.At = shadow.At
	i.Path = shadow.Path
	i.Line = node.Line
	return nil
}

// UnmarshalYAML accepts either a bare network name (shorthand, no aliases)
// or an explicit mapping of name/aliases.
func (cn *ContainerNetwork) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		cn.Name = name
		cn.Aliases = nil
		cn.Line = node.Line
		return nil
	}

	var shadow struct {
		Name    string   `yaml:"name"`
		Aliases []string `yaml:"aliases"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}
	cn.Name = shadow.Name
	cn.Aliases = shadow.Aliases
	cn.Line = node.Line
	return nil
}

// UnmarshalYAML captures the declaration's source line alongside its fields.
func (m *Mount) UnmarshalYAML(node *yaml.Node) error {
	shadow := struct {
		Kind        string `yaml:"type"`
		Name        string `yaml:"name"`
		Destination string `yaml:"destination"`
	}{Kind: string(MountKindVolume)}
	if err := node.Decode(&shadow); err != nil {
		return err
	}

	switch MountKind(shadow.Kind) {
	case MountKindVolume:
		m.Kind = MountKindVolume
	default:
		return fmt.Errorf("unknown mount type %q", shadow.Kind)
	}

	m.Name = shadow.Name
	m.Destination = shadow.Destination
	m.Line = node.Line
	return nil
}

// UnmarshalYAML captures the declaration's source line alongside its fields.
func (s *SecretMount) UnmarshalYAML(node *yaml.Node) error {
	var shadow struct {
		Name   string `yaml:"name"`
		Target string `yaml:"target"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}
	s.Name = shadow.Name
	s.Target = shadow.Target
	s.Line = node.Line
	return nil
}

// UnmarshalYAML captures the declaration's source line alongside its fields.
func (c *Container) UnmarshalYAML(node *yaml.Node) error {
	var shadow struct {
		Name     string             `yaml:"name"`
		Image    string             `yaml:"image"`
		Command  string             `yaml:"command"`
		Ports    []Port             `yaml:"ports"`
		Injects  []Inject           `yaml:"injects"`
		Networks []ContainerNetwork `yaml:"networks"`
		Mounts   []Mount            `yaml:"mounts"`
		Secrets  []SecretMount      `yaml:"secrets"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}

	c.Name = shadow.Name
	c.Image = shadow.Image
	c.Command = shadow.Command
	c.Ports = shadow.Ports
	c.Injects = shadow.Injects
	c.Networks = shadow.Networks
	c.Mounts = shadow.Mounts
	c.Secrets = shadow.Secrets
	c.Line = node.Line
	return nil
}
