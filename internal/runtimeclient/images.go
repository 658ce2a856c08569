package runtimeclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	dockerimage "github.com/docker/docker/api/types/image"

	"github.com/squili/tug/internal/reconcile"
)

// ListImages lists images matching reference, splitting on the first ':'
// the way the original reconciler separates a repository id from an
// optional tag before handing it to the runtime's reference filter.
func (c *Client) ListImages(ctx context.Context, reference string) ([]reconcile.ImageSummary, error) {
	id, tag := splitReference(reference)

	filterValue := id
	if tag != "" {
		filterValue = id + ":" + tag
	}

	args := labelFilterArgs(nil)
	args.Add("reference", filterValue)

	images, err := c.cli.ImageList(ctx, dockerimage.ListOptions{Filters: args})
	if err != nil {
		return nil, fmt.Errorf("listing images for %q: %w", reference, err)
	}

	summaries := make([]reconcile.ImageSummary, 0, len(images))
	for _, img := range images {
		summaries = append(summaries, reconcile.ImageSummary{ID: img.ID})
	}
	return summaries, nil
}

func splitReference(reference string) (id, tag string) {
	if idPart, tagPart, ok := strings.Cut(reference, ":"); ok {
		return idPart, tagPart
	}
	return reference, ""
}

// pullMessage is the subset of the Docker pull progress stream's JSON
// lines this client cares about.
type pullMessage struct {
	Error string `json:"error"`
}

// PullImage pulls reference and resolves the settled image ID by
// inspecting it once the stream completes. Unlike the Podman API the
// original implementation targets, Docker's pull stream does not itself
// carry a resolved image ID, so a trailing ImageInspect closes that gap.
func (c *Client) PullImage(ctx context.Context, reference string) (<-chan reconcile.PullEvent, error) {
	stream, err := c.cli.ImagePull(ctx, reference, dockerimage.PullOptions{})
	if err != nil {
		return nil, fmt.Errorf("pulling image %q: %w", reference, err)
	}

	events := make(chan reconcile.PullEvent, 1)
	go func() {
		defer close(events)
		defer stream.Close()

		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var msg pullMessage
			if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
				continue
			}
			if msg.Error != "" {
				events <- reconcile.PullEvent{Error: msg.Error}
				return
			}
		}
		if err := scanner.Err(); err != nil {
			events <- reconcile.PullEvent{Error: err.Error()}
			return
		}

		inspect, err := c.cli.ImageInspect(ctx, reference)
		if err != nil {
			events <- reconcile.PullEvent{Error: fmt.Sprintf("resolving pulled image id: %s", err)}
			return
		}
		events <- reconcile.PullEvent{ID: inspect.ID}
	}()

	return events, nil
}
