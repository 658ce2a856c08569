package document

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	tugerrors "github.com/squili/tug/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// fragment is the shape of a single *.tug.yaml file. Every field is
// optional; a file may declare any subset of the four entity kinds.
type fragment struct {
	Images     []Image     `yaml:"images,omitempty"`
	Networks   []Network   `yaml:"networks,omitempty"`
	Volumes    []Volume    `yaml:"volumes,omitempty"`
	Containers []Container `yaml:"containers,omitempty"`
}

// Load reads every "*.tug.yaml" file directly inside dir and merges their
// declared entities into one Document. Files are processed in
// lexicographic order so diagnostics are reproducible across runs.
func Load(dir string) (*Document, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.tug.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing documents in %s: %w", dir, err)
	}
	sort.Strings(matches)

	doc := &Document{}
	for _, path := range matches {
		frag, err := loadFragment(path)
		if err != nil {
			return nil, err
		}
		doc.Images = append(doc.Images, frag.Images...)
		doc.Networks = append(doc.Networks, frag.Networks...)
		doc.Volumes = append(doc.Volumes, frag.Volumes...)
		doc.Containers = append(doc.Containers, frag.Containers...)
	}

	return doc, nil
}

func loadFragment(path string) (*fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tugerrors.NewParseError(path, 0, err)
	}

	var frag fragment
	if err := yaml.Unmarshal(data, &frag); err != nil {
		return nil, tugerrors.NewParseError(path, extractLine(err), err)
	}

	return &frag, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
