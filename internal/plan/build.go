package plan

import (
	"github.com/google/shlex"

	"github.com/squili/tug/internal/document"
	tugerrors "github.com/squili/tug/pkg/errors"
)

type namedStep struct {
	resolved ResolvedRef
	stepID   int
	line     int
}

// Build translates a document into a populated Store, or returns a
// plan-time error. It is strictly single-threaded and performs no I/O.
//
// Order: one Garbage step naming every declared container; one step per
// image/network/volume entity (duplicate names within a kind are a
// DuplicateNameError); one Secret step per first-seen distinct secret
// name referenced by any container; finally one Container step per
// declared container, with its dependency set the union of every
// producer step it references.
func Build(doc *document.Document) (*Store, error) {
	store := NewStore()

	store.Add(GarbageAction{ContainerNames: declaredContainerNames(doc)}, nil)

	images, err := buildImages(store, doc)
	if err != nil {
		return nil, err
	}

	networks, err := buildNetworks(store, doc)
	if err != nil {
		return nil, err
	}

	volumes, err := buildVolumes(store, doc)
	if err != nil {
		return nil, err
	}

	secrets := buildSecrets(store, doc)

	if err := buildContainers(store, doc, images, networks, volumes, secrets); err != nil {
		return nil, err
	}

	return store, nil
}

func declaredContainerNames(doc *document.Document) map[string]struct{} {
	names := make(map[string]struct{}, len(doc.Containers))
	for _, c := range doc.Containers {
		names[c.Name] = struct{}{}
	}
	return names
}

func buildImages(store *Store, doc *document.Document) (map[string]namedStep, error) {
	seen := make(map[string]namedStep, len(doc.Images))
	for i, image := range doc.Images {
		resolved := ResolvedRef{Kind: ResolvedImage, ID: i + 1}
		stepID := store.Add(ImageAction{
			Resolved:  resolved,
			Name:      image.Name,
			Reference: image.Reference,
			Local:     image.Local,
			Line:      image.Line,
		}, nil)

		if prior, exists := seen[image.Name]; exists {
			return nil, tugerrors.NewDuplicateNameError("image", image.Name, prior.line, image.Line)
		}
		seen[image.Name] = namedStep{resolved: resolved, stepID: stepID, line: image.Line}
	}
	return seen, nil
}

func buildNetworks(store *Store, doc *document.Document) (map[string]namedStep, error) {
	seen := make(map[string]namedStep, len(doc.Networks))
	for i, network := range doc.Networks {
		resolved := ResolvedRef{Kind: ResolvedNetwork, ID: i + 1}
		stepID := store.Add(NetworkAction{
			Resolved:   resolved,
			Name:       network.Name,
			DNSEnabled: network.DNSEnabled,
			Internal:   network.Internal,
			Driver:     network.Driver,
		}, nil)

		if prior, exists := seen[network.Name]; exists {
			return nil, tugerrors.NewDuplicateNameError("network", network.Name, prior.line, network.Line)
		}
		seen[network.Name] = namedStep{resolved: resolved, stepID: stepID, line: network.Line}
	}
	return seen, nil
}

func buildVolumes(store *Store, doc *document.Document) (map[string]namedStep, error) {
	seen := make(map[string]namedStep, len(doc.Volumes))
	for i, volume := range doc.Volumes {
		resolved := ResolvedRef{Kind: ResolvedVolume, ID: i + 1}
		stepID := store.Add(VolumeAction{
			Resolved: resolved,
			Name:     volume.Name,
			Driver:   volume.Driver,
		}, nil)

		if prior, exists := seen[volume.Name]; exists {
			return nil, tugerrors.NewDuplicateNameError("volume", volume.Name, prior.line, volume.Line)
		}
		seen[volume.Name] = namedStep{resolved: resolved, stepID: stepID, line: volume.Line}
	}
	return seen, nil
}

// buildSecrets mints one resolved ref and Secret step per first-seen
// distinct secret name referenced across all containers. Unlike
// images/networks/volumes, secrets are not declared entities of their
// own — they are discovered by walking container references.
func buildSecrets(store *Store, doc *document.Document) map[string]namedStep {
	seen := make(map[string]namedStep)
	counter := 1
	for _, container := range doc.Containers {
		for _, secret := range container.Secrets {
			if _, exists := seen[secret.Name]; exists {
				continue
			}
			resolved := ResolvedRef{Kind: ResolvedSecret, ID: counter}
			counter++
			stepID := store.Add(SecretAction{Resolved: resolved, Name: secret.Name, Line: secret.Line}, nil)
			seen[secret.Name] = namedStep{resolved: resolved, stepID: stepID, line: secret.Line}
		}
	}
	return seen
}

func buildContainers(store *Store, doc *document.Document, images, networks, volumes, secrets map[string]namedStep) error {
	declaredNames := make(map[string]int, len(doc.Containers))

	for _, container := range doc.Containers {
		if priorLine, exists := declaredNames[container.Name]; exists {
			return tugerrors.NewDuplicateNameError("container", container.Name, priorLine, container.Line)
		}
		declaredNames[container.Name] = container.Line

		if err := checkDuplicateInjectPaths(container); err != nil {
			return err
		}

		image, ok := images[container.Image]
		if !ok {
			return tugerrors.NewUnknownThingError("image", container.Image, container.Line)
		}

		dependencies := map[int]struct{}{image.stepID: {}}

		containerNetworks := make([]ContainerNetwork, 0, len(container.Networks))
		for _, n := range container.Networks {
			resolved, ok := networks[n.Name]
			if !ok {
				return tugerrors.NewUnknownThingError("network", n.Name, n.Line)
			}
			containerNetworks = append(containerNetworks, ContainerNetwork{
				Resolved: resolved.resolved,
				Aliases:  n.Aliases,
			})
			dependencies[resolved.stepID] = struct{}{}
		}

		containerMounts := make([]ContainerMount, 0, len(container.Mounts))
		for _, m := range container.Mounts {
			resolved, ok := volumes[m.Name]
			if !ok {
				return tugerrors.NewUnknownThingError("volume", m.Name, m.Line)
			}
			containerMounts = append(containerMounts, ContainerMount{
				Kind:        m.Kind,
				Resolved:    resolved.resolved,
				Destination: m.Destination,
			})
			dependencies[resolved.stepID] = struct{}{}
		}

		containerSecrets := make([]ContainerSecret, 0, len(container.Secrets))
		for _, s := range container.Secrets {
			resolved, ok := secrets[s.Name]
			if !ok {
				return tugerrors.NewUnknownThingError("secret", s.Name, s.Line)
			}
			containerSecrets = append(containerSecrets, ContainerSecret{
				Resolved: resolved.resolved,
				Target:   s.Target,
			})
			dependencies[resolved.stepID] = struct{}{}
		}

		var command []string
		if container.Command != "" {
			split, err := shlex.Split(container.Command)
			if err != nil {
				return tugerrors.NewMalformedCommandError(container.Name, container.Command, container.Line, err)
			}
			command = split
		}

		ports := make([]ContainerPort, 0, len(container.Ports))
		for _, p := range container.Ports {
			ports = append(ports, ContainerPort{Container: p.Container, Host: p.Host, Protocol: p.Protocol})
		}

		injects := make([]ContainerInject, 0, len(container.Injects))
		for _, inj := range container.Injects {
			injects = append(injects, ContainerInject{At: inj.At, Path: inj.Path})
		}

		store.Add(ContainerAction{
			Name:     container.Name,
			Command:  command,
			Image:    image.resolved,
			Ports:    ports,
			Injects:  injects,
			Networks: containerNetworks,
			Mounts:   containerMounts,
			Secrets:  containerSecrets,
		}, dependencies)
	}

	return nil
}

func checkDuplicateInjectPaths(container document.Container) error {
	seen := make(map[string]int, len(container.Injects))
	for _, inject := range container.Injects {
		if priorLine, exists := seen[inject.At]; exists {
			return tugerrors.NewDuplicateInjectPathError(container.Name, inject.At, priorLine, inject.Line)
		}
		seen[inject.At] = inject.Line
	}
	return nil
}
