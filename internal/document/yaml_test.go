package document

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestContainerUnmarshalYAMLCapturesLine(t *testing.T) {
	t.Parallel()

	yamlStr := `
name: web
image: img
command: "nginx -g 'daemon off;'"
ports:
  - 80
  - container: 8443
    host: 443
    protocol: udp
injects:
  - at: /etc/app.conf
    path: ./app.conf
networks:
  - frontend
  - name: backend
    aliases: [svc, api]
mounts:
  - type: volume
    name: data
    destination: /var/lib/data
secrets:
  - name: api_key
    target: API_KEY
`
	var c Container
	require.NoError(t, yaml.Unmarshal([]byte(yamlStr), &c))

	require.Equal(t, "web", c.Name)
	require.Equal(t, "img", c.Image)
	require.Equal(t, 2, c.Line)

	require.Len(t, c.Ports, 2)
	require.Equal(t, Port{Container: 80, Host: 80, Protocol: ProtocolTCP, Line: c.Ports[0].Line}, c.Ports[0])
	require.Equal(t, uint16(8443), c.Ports[1].Container)
	require.Equal(t, uint16(443), c.Ports[1].Host)
	require.Equal(t, ProtocolUDP, c.Ports[1].Protocol)

	require.Len(t, c.Injects, 1)
	require.Equal(t, "/etc/app.conf", c.Injects[0].At)
	require.Equal(t, "./app.conf", c.Injects[0].Path)

	require.Len(t, c.Networks, 2)
	require.Equal(t, "frontend", c.Networks[0].Name)
	require.Empty(t, c.Networks[0].Aliases)
	require.Equal(t, "backend", c.Networks[1].Name)
	require.Equal(t, []string{"svc", "api"}, c.Networks[1].Aliases)

	require.Len(t, c.Mounts, 1)
	require.Equal(t, MountKindVolume, c.Mounts[0].Kind)
	require.Equal(t, "data", c.Mounts[0].Name)
	require.Equal(t, "/var/lib/data", c.Mounts[0].Destination)

	require.Len(t, c.Secrets, 1)
	require.Equal(t, "api_key", c.Secrets[0].Name)
	require.Equal(t, "API_KEY", c.Secrets[0].Target)
}

func TestNetworkUnmarshalYAMLAppliesDriverDefault(t *testing.T) {
	t.Parallel()

	var n Network
	require.NoError(t, yaml.Unmarshal([]byte(`
name: frontend
dns_enabled: true
`), &n))

	require.Equal(t, "frontend", n.Name)
	require.True(t, n.DNSEnabled)
	require.False(t, n.Internal)
	require.Equal(t, "bridge", n.Driver)
}

func TestVolumeUnmarshalYAMLAppliesDriverDefault(t *testing.T) {
	t.Parallel()

	var v Volume
	require.NoError(t, yaml.Unmarshal([]byte(`name: data`), &v))

	require.Equal(t, "data", v.Name)
	require.Equal(t, "local", v.Driver)
}

func TestPortUnmarshalYAMLRejectsUnknownProtocol(t *testing.T) {
	t.Parallel()

	var p Port
	err := yaml.Unmarshal([]byte(`
container: 80
host: 80
protocol: sctp
`), &p)
	require.Error(t, err)
}
