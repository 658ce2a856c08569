package reconcile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/squili/tug/internal/archive"
	"github.com/squili/tug/internal/fingerprint"
	"github.com/squili/tug/internal/plan"
)

// fullSecret carries a resolved secret's target env name alongside the
// data needed to both bind it on create and fingerprint it for compare.
type fullSecret struct {
	id        string
	target    string
	updatedAt int64
}

// Container reconciles a single declared container: adopt a matching
// remote container as-is, restart a stopped-but-matching one, or stop and
// recreate anything that disagrees with the desired image, command,
// ports, networks, mounts, or content fingerprints.
func Container(ctx context.Context, rc *Context, action plan.ContainerAction) error {
	matches, err := rc.Runtime.ListContainers(ctx, []LabelFilter{
		LabelEquals(LabelGroup, rc.Group),
		LabelEquals(LabelName, action.Name),
	})
	if err != nil {
		return fmt.Errorf("listing containers for %q: %w", action.Name, err)
	}

	if len(matches) == 0 {
		return createContainer(ctx, rc, action, nil, nil)
	}

	first := matches[0]
	inspected, err := rc.Runtime.InspectContainer(ctx, first.ID)
	if err != nil {
		return fmt.Errorf("inspecting container %q: %w", action.Name, err)
	}

	desiredImage, _ := rc.Resolved.Image(action.Image)

	if len(matches) == 1 &&
		inspected.ImageID == desiredImage &&
		slices.Equal(inspected.Command, action.Command) &&
		checkPortMappings(action.Ports, inspected.Ports) &&
		checkNetworkMappings(rc, action.Networks, inspected.Networks) &&
		checkMountMappings(rc, action.Mounts, inspected.Mounts) {

		fingerprintCache := make(map[string]fingerprint.InjectNode)
		injectNamesMatch, injectFingerprintsMatch := compareInjects(rc, action, inspected.Labels, fingerprintCache)

		secretsMatch, fulls, err := compareSecrets(ctx, rc, action, inspected.Labels)
		if err != nil {
			return fmt.Errorf("comparing secret fingerprints for %q: %w", action.Name, err)
		}

		if injectNamesMatch && injectFingerprintsMatch && secretsMatch {
			if !first.Running {
				if err := rc.Runtime.StartContainer(ctx, first.ID); err != nil {
					return fmt.Errorf("starting container %q: %w", action.Name, err)
				}
			}
			return nil
		}

		for _, match := range matches {
			if err := rc.Runtime.StopContainer(ctx, match.ID); err != nil {
				return fmt.Errorf("stopping container %q: %w", action.Name, err)
			}
			rc.Backtrack.Push(plan.RestartContainer{ID: match.ID})
			rc.Finalize.Push(plan.DeleteContainer{ID: match.ID})
		}

		return createContainer(ctx, rc, action, fingerprintCache, fulls)
	}

	for _, match := range matches {
		if err := rc.Runtime.StopContainer(ctx, match.ID); err != nil {
			return fmt.Errorf("stopping container %q: %w", action.Name, err)
		}
		rc.Backtrack.Push(plan.RestartContainer{ID: match.ID})
		rc.Finalize.Push(plan.DeleteContainer{ID: match.ID})
	}

	return createContainer(ctx, rc, action, nil, nil)
}

// compareInjects decides whether the remote container's recorded inject
// fingerprint (if any) still matches the declared injects. The fingerprint
// cache is populated as a side effect so createContainer can reuse any
// freshly-computed nodes instead of re-walking the filesystem.
func compareInjects(rc *Context, action plan.ContainerAction, labels map[string]string, cache map[string]fingerprint.InjectNode) (namesMatch, fingerprintsMatch bool) {
	tree, ok := fingerprint.DecodeInjectTree(labels[LabelInjectFingerprint])
	if !ok {
		return len(action.Injects) == 0, true
	}

	requested := make(map[string]struct{}, len(action.Injects))
	for _, inject := range action.Injects {
		requested[inject.At] = struct{}{}
	}
	if len(requested) != len(tree) {
		return false, true
	}
	for at := range requested {
		if _, ok := tree[at]; !ok {
			return false, true
		}
	}

	fingerprintsMatch = true
	for _, inject := range action.Injects {
		compare := tree[inject.At]
		node, bad, err := fingerprint.ComputeNode(filepath.Join(rc.RootDir, inject.Path), &compare)
		if err != nil {
			fingerprintsMatch = false
			break
		}
		cache[inject.At] = node
		if bad {
			fingerprintsMatch = false
			break
		}
	}

	return true, fingerprintsMatch
}

// compareSecrets decides whether the remote container's recorded secret
// fingerprint still matches the secrets the desired state references,
// returning the freshly-resolved secret bindings for reuse if a recreate
// turns out to be necessary.
func compareSecrets(ctx context.Context, rc *Context, action plan.ContainerAction, labels map[string]string) (bool, []fullSecret, error) {
	existing, ok := fingerprint.DecodeSecretFingerprint(labels[LabelSecretFingerprint])

	if !ok {
		return len(action.Secrets) == 0, nil, nil
	}
	if len(action.Secrets) == 0 {
		return false, nil, nil
	}

	fulls, err := resolveSecrets(ctx, rc, action.Secrets)
	if err != nil {
		return false, nil, err
	}

	return fingerprint.Equal(secretPrintsFromFulls(fulls), existing), fulls, nil
}

func resolveSecrets(ctx context.Context, rc *Context, secrets []plan.ContainerSecret) ([]fullSecret, error) {
	fulls := make([]fullSecret, 0, len(secrets))
	for _, secret := range secrets {
		id, _ := rc.Resolved.Secret(secret.Resolved)
		inspected, err := rc.Runtime.InspectSecret(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("inspecting secret %q: %w", id, err)
		}
		fulls = append(fulls, fullSecret{id: id, target: secret.Target, updatedAt: inspected.UpdatedAt})
	}
	return fulls, nil
}

func secretPrintsFromFulls(fulls []fullSecret) fingerprint.SecretFingerprint {
	prints := make(fingerprint.SecretFingerprint, len(fulls))
	for i, full := range fulls {
		prints[i] = fingerprint.SecretPrint{ID: full.id, UpdatedAt: full.updatedAt}
	}
	return prints
}

// checkPortMappings reports whether expected and actual contain the same
// multiset of port bindings, by swap-and-pop consumption: order never
// matters, duplicates must match in count.
func checkPortMappings(expected []plan.ContainerPort, actual []PortBinding) bool {
	remaining := append([]PortBinding(nil), actual...)

	for _, want := range expected {
		found := -1
		for i, have := range remaining {
			if have.ContainerPort == want.Container && have.HostPort == want.Host && have.Protocol == want.Protocol {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		remaining[found] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}

	return len(remaining) == 0
}

// checkMountMappings is checkPortMappings' counterpart for named-volume
// attachments.
func checkMountMappings(rc *Context, expected []plan.ContainerMount, actual []MountBinding) bool {
	remaining := append([]MountBinding(nil), actual...)

	for _, want := range expected {
		volumeName, _ := rc.Resolved.Volume(want.Resolved)
		found := -1
		for i, have := range remaining {
			if have.VolumeName == volumeName && have.Destination == want.Destination {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		remaining[found] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}

	return len(remaining) == 0
}

// checkNetworkMappings requires every declared network attachment to be
// present, with its alias set either identical or within a symmetric
// difference of one (tolerating a single in-flight alias edit). Every
// declared network must individually satisfy this; an attachment present
// remotely but not declared fails the match.
func checkNetworkMappings(rc *Context, expected []plan.ContainerNetwork, actual []NetworkAttachment) bool {
	remaining := make(map[string]NetworkAttachment, len(actual))
	for _, attachment := range actual {
		remaining[attachment.NetworkName] = attachment
	}

	for _, want := range expected {
		networkName, _ := rc.Resolved.Network(want.Resolved)
		have, ok := remaining[networkName]
		if !ok {
			return false
		}
		delete(remaining, networkName)

		if !aliasSetsEqual(have.Aliases, want.Aliases) && aliasSymmetricDifference(have.Aliases, want.Aliases) > 1 {
			return false
		}
	}

	return len(remaining) == 0
}

func aliasSetsEqual(a, b []string) bool {
	return aliasSymmetricDifference(a, b) == 0
}

func aliasSymmetricDifference(a, b []string) int {
	setA := make(map[string]struct{}, len(a))
	for _, alias := range a {
		setA[alias] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, alias := range b {
		setB[alias] = struct{}{}
	}

	count := 0
	for alias := range setA {
		if _, ok := setB[alias]; !ok {
			count++
		}
	}
	for alias := range setB {
		if _, ok := setA[alias]; !ok {
			count++
		}
	}
	return count
}

// createContainer builds and creates a fresh container for the desired
// state, streams every declared inject into it, starts it, and schedules
// its deletion on backtrack. fingerprintCache and fulls are reused from an
// adopt-path comparison when present, to avoid recomputing inject
// fingerprints or re-inspecting secrets that were already fetched moments
// earlier.
func createContainer(ctx context.Context, rc *Context, action plan.ContainerAction, fingerprintCache map[string]fingerprint.InjectNode, fulls []fullSecret) error {
	desiredImage, _ := rc.Resolved.Image(action.Image)

	tree := make(fingerprint.InjectTree, len(action.Injects))
	for _, inject := range action.Injects {
		if node, ok := fingerprintCache[inject.At]; ok {
			tree[inject.At] = node
			continue
		}
		node, _, err := fingerprint.ComputeNode(filepath.Join(rc.RootDir, inject.Path), nil)
		if err != nil {
			return fmt.Errorf("computing inject fingerprint for %q: %w", inject.At, err)
		}
		tree[inject.At] = node
	}
	var injectLabel string
	if len(action.Injects) > 0 {
		var err error
		injectLabel, err = fingerprint.EncodeInjectTree(tree)
		if err != nil {
			return fmt.Errorf("encoding inject fingerprint for %q: %w", action.Name, err)
		}
	}

	var err error
	if fulls == nil {
		fulls, err = resolveSecrets(ctx, rc, action.Secrets)
		if err != nil {
			return fmt.Errorf("resolving secrets for %q: %w", action.Name, err)
		}
	}
	var secretLabel string
	if len(action.Secrets) > 0 {
		secretLabel, err = fingerprint.EncodeSecretFingerprint(secretPrintsFromFulls(fulls))
		if err != nil {
			return fmt.Errorf("encoding secret fingerprint for %q: %w", action.Name, err)
		}
	}

	ports := make([]PortBinding, 0, len(action.Ports))
	for _, port := range action.Ports {
		ports = append(ports, PortBinding{ContainerPort: port.Container, HostPort: port.Host, Protocol: port.Protocol})
	}

	networks := make([]NetworkAttachment, 0, len(action.Networks))
	for _, network := range action.Networks {
		name, _ := rc.Resolved.Network(network.Resolved)
		networks = append(networks, NetworkAttachment{NetworkName: name, Aliases: network.Aliases})
	}

	mounts := make([]MountBinding, 0, len(action.Mounts))
	for _, mount := range action.Mounts {
		name, _ := rc.Resolved.Volume(mount.Resolved)
		mounts = append(mounts, MountBinding{VolumeName: name, Destination: mount.Destination})
	}

	env := make(map[string]string, len(fulls))
	for _, full := range fulls {
		env[full.target] = full.id
	}

	labels := map[string]string{
		LabelGroup: rc.Group,
		LabelName:  action.Name,
	}
	if len(action.Injects) > 0 {
		labels[LabelInjectFingerprint] = injectLabel
	}
	if len(action.Secrets) > 0 {
		labels[LabelSecretFingerprint] = secretLabel
	}

	id, err := rc.Runtime.CreateContainer(ctx, ContainerSpec{
		Image:    desiredImage,
		Command:  action.Command,
		Ports:    ports,
		Networks: networks,
		Mounts:   mounts,
		Env:      env,
		Labels:   labels,
	})
	if err != nil {
		return fmt.Errorf("creating container %q: %w", action.Name, err)
	}

	for _, inject := range action.Injects {
		pr, pw := io.Pipe()
		go func(hostPath string) {
			pw.CloseWithError(archive.WriteTree(pw, hostPath, ""))
		}(filepath.Join(rc.RootDir, inject.Path))

		if err := rc.Runtime.CopyToContainer(ctx, id, inject.At, pr); err != nil {
			return fmt.Errorf("copying inject %q into container %q: %w", inject.At, action.Name, err)
		}
	}

	if err := rc.Runtime.StartContainer(ctx, id); err != nil {
		return fmt.Errorf("starting container %q: %w", action.Name, err)
	}

	rc.Backtrack.Push(plan.DeleteContainer{ID: id})
	return nil
}
