package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProcessConfig is one entry of the allow-list. Env is merged over the
// parent environment before the ARBOR_* variables of a call.
type ProcessConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

type allowList struct {
	Processes []ProcessConfig `yaml:"processes" json:"processes"`
}

// LoadProcesses reads an allow-list file with a top-level "processes" list.
// Files ending in .json are decoded as JSON, anything else as YAML.
func LoadProcesses(path string) (map[string]ProcessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read process allow-list %s: %w", path, err)
	}

	var list allowList
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &list)
	} else {
		err = yaml.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, fmt.Errorf("decode process allow-list %s: %w", path, err)
	}

	procs := make(map[string]ProcessConfig, len(list.Processes))
	for i, p := range list.Processes {
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("%s: entry %d has no name", path, i)
		case p.Command == "":
			return nil, fmt.Errorf("%s: process %q has no command", path, p.Name)
		}
		if _, dup := procs[p.Name]; dup {
			return nil, fmt.Errorf("%s: process %q is listed twice", path, p.Name)
		}
		procs[p.Name] = p
	}
	return procs, nil
}
