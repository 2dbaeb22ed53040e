package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"bgclear/transparency"
)

// Manifest is the YAML form of a batch. It replaces a built-in profile.
//
//	name: icons
//	policies: [gray-range, bright-white]
//	replace_color: false
//	custom_policies:
//	  - {name: dim-gray, low: 60, high: 90, max_spread: 5}
//	files:
//	  - images/a.png
//	  - {path: images/b.png, output: images/b_clear.png}
type Manifest struct {
	Name           string         `yaml:"name"`
	Policies       []string       `yaml:"policies"`
	ReplaceColor   bool           `yaml:"replace_color"`
	CustomPolicies []CustomPolicy `yaml:"custom_policies"`
	Files          []ManifestFile `yaml:"files"`
}

// CustomPolicy defines an extra named threshold usable in Policies.
type CustomPolicy struct {
	Name                   string `yaml:"name"`
	transparency.Threshold `yaml:",inline"`
}

// ManifestFile is a file entry. A bare string is shorthand for {path: ...}.
type ManifestFile struct {
	Path   string `yaml:"path"`
	Output string `yaml:"output"`
}

// UnmarshalYAML accepts either a scalar path or a mapping with only path
// and output keys. node.Decode does not inherit the decoder's KnownFields
// setting, so the keys are checked here.
func (f *ManifestFile) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		f.Path = node.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			switch key := node.Content[i].Value; key {
			case "path", "output":
			default:
				return fmt.Errorf("%w: line %d: unknown file key %q", ErrInvalidManifest, node.Content[i].Line, key)
			}
		}
		type plain ManifestFile
		return node.Decode((*plain)(f))
	default:
		return fmt.Errorf("%w: line %d: file entry must be a path or a mapping", ErrInvalidManifest, node.Line)
	}
}

// LoadManifest reads and parses a manifest. Unknown keys are rejected.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidManifest)
		}
		if errors.Is(err, ErrInvalidManifest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &m, nil
}

// Plan validates the manifest and resolves it.
func (m *Manifest) Plan() (Plan, error) {
	reg := transparency.NewRegistry()
	for _, cp := range m.CustomPolicies {
		if err := reg.Register(transparency.Policy{Name: cp.Name, Threshold: cp.Threshold}); err != nil {
			return Plan{}, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
	}

	chain, err := reg.ParseChain(m.Policies)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	if len(m.Files) == 0 {
		return Plan{}, fmt.Errorf("%w: no files listed", ErrInvalidManifest)
	}
	jobs := make([]Job, len(m.Files))
	for i, f := range m.Files {
		path := strings.TrimSpace(f.Path)
		if path == "" {
			return Plan{}, fmt.Errorf("%w: file %d has no path", ErrInvalidManifest, i+1)
		}
		jobs[i] = Job{Path: path, Output: strings.TrimSpace(f.Output)}
	}

	name := m.Name
	if name == "" {
		name = "manifest"
	}
	return Plan{Name: name, Chain: chain, ReplaceColor: m.ReplaceColor, Jobs: jobs}, nil
}
