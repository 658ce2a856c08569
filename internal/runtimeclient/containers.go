package runtimeclient

import (
	"context"
	"fmt"
	"io"
	"strconv"

	dockercontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	dockernetwork "github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"

	"github.com/squili/tug/internal/document"
	"github.com/squili/tug/internal/reconcile"
)

func (c *Client) ListContainers(ctx context.Context, filterList []reconcile.LabelFilter) ([]reconcile.ContainerSummary, error) {
	containers, err := c.cli.ContainerList(ctx, dockercontainer.ListOptions{
		All:     true,
		Filters: labelFilterArgs(filterList),
	})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	summaries := make([]reconcile.ContainerSummary, 0, len(containers))
	for _, container := range containers {
		summaries = append(summaries, reconcile.ContainerSummary{
			ID:      container.ID,
			Labels:  container.Labels,
			State:   container.State,
			Running: container.State == "running",
		})
	}
	return summaries, nil
}

func (c *Client) InspectContainer(ctx context.Context, id string) (reconcile.ContainerInspect, error) {
	inspect, err := c.cli.ContainerInspect(ctx, id)
	if err != nil {
		return reconcile.ContainerInspect{}, fmt.Errorf("inspecting container %s: %w", id, err)
	}

	result := reconcile.ContainerInspect{
		ID:      inspect.ID,
		ImageID: inspect.Image,
	}
	if inspect.Config != nil {
		result.Command = inspect.Config.Cmd
		result.Labels = inspect.Config.Labels
	}
	if inspect.State != nil {
		result.Running = inspect.State.Running
	}

	for _, m := range inspect.Mounts {
		if m.Type != mount.TypeVolume {
			continue
		}
		result.Mounts = append(result.Mounts, reconcile.MountBinding{
			VolumeName:  m.Name,
			Destination: m.Destination,
		})
	}

	if inspect.NetworkSettings != nil {
		if inspect.NetworkSettings.Ports != nil {
			result.Ports = portBindingsFromNat(inspect.NetworkSettings.Ports)
		}
		for name, endpoint := range inspect.NetworkSettings.Networks {
			result.Networks = append(result.Networks, reconcile.NetworkAttachment{
				NetworkName: name,
				Aliases:     endpoint.Aliases,
			})
		}
	}

	return result, nil
}

func portBindingsFromNat(portMap nat.PortMap) []reconcile.PortBinding {
	var bindings []reconcile.PortBinding
	for containerPort, hostBindings := range portMap {
		protocol := document.ProtocolTCP
		if containerPort.Proto() == "udp" {
			protocol = document.ProtocolUDP
		}
		cPort, err := strconv.Atoi(containerPort.Port())
		if err != nil {
			continue
		}
		for _, hostBinding := range hostBindings {
			hPort, err := strconv.Atoi(hostBinding.HostPort)
			if err != nil {
				continue
			}
			bindings = append(bindings, reconcile.PortBinding{
				ContainerPort: uint16(cPort),
				HostPort:      uint16(hPort),
				Protocol:      protocol,
			})
		}
	}
	return bindings
}

func (c *Client) CreateContainer(ctx context.Context, spec reconcile.ContainerSpec) (string, error) {
	exposedPorts := nat.PortSet{}
	portBindings := nat.PortMap{}
	for _, port := range spec.Ports {
		natPort, err := nat.NewPort(string(port.Protocol), strconv.Itoa(int(port.ContainerPort)))
		if err != nil {
			return "", fmt.Errorf("building port spec %d/%s: %w", port.ContainerPort, port.Protocol, err)
		}
		exposedPorts[natPort] = struct{}{}
		portBindings[natPort] = append(portBindings[natPort], nat.PortBinding{
			HostIP:   "0.0.0.0",
			HostPort: strconv.Itoa(int(port.HostPort)),
		})
	}

	mounts := make([]mount.Mount, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:   mount.TypeVolume,
			Source: m.VolumeName,
			Target: m.Destination,
		})
	}

	endpointsConfig := make(map[string]*dockernetwork.EndpointSettings, len(spec.Networks))
	for _, attachment := range spec.Networks {
		endpointsConfig[attachment.NetworkName] = &dockernetwork.EndpointSettings{
			Aliases: attachment.Aliases,
		}
	}

	env := make([]string, 0, len(spec.Env))
	for key, value := range spec.Env {
		env = append(env, key+"="+value)
	}

	resp, err := c.cli.ContainerCreate(ctx,
		&dockercontainer.Config{
			Image:        spec.Image,
			Cmd:          spec.Command,
			Env:          env,
			Labels:       spec.Labels,
			ExposedPorts: exposedPorts,
		},
		&dockercontainer.HostConfig{
			Mounts:       mounts,
			PortBindings: portBindings,
		},
		&dockernetwork.NetworkingConfig{EndpointsConfig: endpointsConfig},
		nil,
		"",
	)
	if err != nil {
		return "", fmt.Errorf("creating container: %w", err)
	}

	return resp.ID, nil
}

func (c *Client) StartContainer(ctx context.Context, id string) error {
	if err := c.cli.ContainerStart(ctx, id, dockercontainer.StartOptions{}); err != nil {
		return fmt.Errorf("starting container %s: %w", id, err)
	}
	return nil
}

func (c *Client) StopContainer(ctx context.Context, id string) error {
	if err := c.cli.ContainerStop(ctx, id, dockercontainer.StopOptions{}); err != nil {
		return fmt.Errorf("stopping container %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteContainer(ctx context.Context, id string) error {
	if err := c.cli.ContainerRemove(ctx, id, dockercontainer.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("deleting container %s: %w", id, err)
	}
	return nil
}

func (c *Client) CopyToContainer(ctx context.Context, id, destPath string, tarStream io.Reader) error {
	err := c.cli.CopyToContainer(ctx, id, destPath, tarStream, dockercontainer.CopyToContainerOptions{})
	if err != nil {
		return fmt.Errorf("copying archive to container %s at %s: %w", id, destPath, err)
	}
	return nil
}
