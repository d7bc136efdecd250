package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Supported formats, by file extension.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatHCL  = "hcl"
)

// Loader implements ports.TreeLoader over a tree file on disk.
// The file is read again on every Load.
type Loader struct {
	path   string
	format string
}

// NewLoader creates a loader for path. The format is taken from the extension.
func NewLoader(path string) (*Loader, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return &Loader{path: path, format: format}, nil
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.path }

// Load reads and decodes the file.
func (l *Loader) Load(ctx context.Context) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}
	doc, err := Decode(l.format, l.path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return doc, nil
}

// FormatOf maps a file name to one of the supported formats.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("unsupported tree file %q: expected .yaml, .yml, .json or .hcl", path)
}

// Decode parses a tree document. YAML and JSON files may hold either a whole
// document ("main" and "trees") or a single tree ("id", "root", "blackboard").
// name is only used in diagnostics.
func Decode(format, name string, data []byte) (*domain.Document, error) {
	var raw map[string]any
	switch format {
	case FormatHCL:
		return decodeHCL(name, data)
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return fromMap(raw)
}

func fromMap(raw map[string]any) (*domain.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("empty tree file")
	}

	if _, isTree := raw["root"]; isTree {
		var tree domain.TreeSpec
		if err := decodeStrict(raw, &tree); err != nil {
			return nil, err
		}
		return &domain.Document{Main: tree.ID, Trees: []domain.TreeSpec{tree}}, nil
	}

	var doc domain.Document
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// decodeStrict rejects unknown keys and accepts scalar port values of any type
// ("num_ticks: 3" as well as "num_ticks: '3'").
func decodeStrict(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("invalid tree document: %w", err)
	}
	return nil
}
