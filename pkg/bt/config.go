package bt

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
)

// NodeConfig maps port names to either a literal value or a blackboard
// reference written "{key}".
type NodeConfig struct {
	Blackboard *blackboard.Blackboard
	Ports      map[string]string
}

// Raw returns the unresolved port value.
func (c NodeConfig) Raw(port string) (string, bool) {
	v, ok := c.Ports[port]
	return v, ok
}

// ReadPort resolves port against the configuration and converts it to T.
func ReadPort[T any](cfg NodeConfig, port string) (T, error) {
	var zero T
	raw, ok := cfg.Ports[port]
	if !ok {
		return zero, domain.ErrPortNotFound
	}

	key, isRef := blackboard.ParseReference(raw)
	if !isRef {
		return blackboard.Convert[T](raw)
	}
	if cfg.Blackboard == nil {
		return zero, fmt.Errorf("port references {%s} but no blackboard is attached", key)
	}
	return blackboard.Get[T](cfg.Blackboard, key)
}

// GetInput reads an input port of n, following blackboard references.
func GetInput[T any](n Node, port string) (T, error) {
	b := n.base()
	v, err := ReadPort[T](b.config, port)
	if err != nil {
		return v, &domain.PortError{Node: b.name, Port: port, Cause: err}
	}
	return v, nil
}

// SetOutput writes value to the blackboard entry referenced by an output port.
func SetOutput(n Node, port string, value any) error {
	b := n.base()
	raw, ok := b.config.Ports[port]
	if !ok {
		return &domain.PortError{Node: b.name, Port: port, Cause: domain.ErrPortNotFound}
	}
	key, isRef := blackboard.ParseReference(raw)
	if !isRef {
		return &domain.PortError{Node: b.name, Port: port, Cause: fmt.Errorf("output port must reference a blackboard key, got %q", raw)}
	}
	if b.config.Blackboard == nil {
		return &domain.PortError{Node: b.name, Port: port, Cause: fmt.Errorf("no blackboard attached")}
	}
	b.config.Blackboard.Set(key, value)
	return nil
}
