package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type motor struct {
	position int
}

func TestRegistry_Register(t *testing.T) {
	reg := registry.NewRegistry()

	assert.Error(t, reg.Register(registry.Manifest{Type: ""}))
	assert.Error(t, reg.Register(registry.Manifest{Type: "NoBuilder"}))
	assert.Error(t, reg.Register(registry.Manifest{Type: domain.SubTreeType, Builder: func(registry.BuildContext) (bt.Node, error) { return nil, nil }}))

	first := registry.Manifest{Type: "Ping", Description: "v1", Builder: func(b registry.BuildContext) (bt.Node, error) {
		return bt.NewAction(b.Name, b.Config, func(context.Context, bt.Node) (domain.Status, error) {
			return domain.StatusSuccess, nil
		}), nil
	}}
	require.NoError(t, reg.Register(first))
	second := first
	second.Description = "v2"
	require.NoError(t, reg.Register(second))

	m, ok := reg.Lookup("Ping")
	require.True(t, ok)
	assert.Equal(t, "v2", m.Description, "register overwrites")
	assert.Equal(t, bt.KindAction, m.Kind, "kind defaults to action")
}

func TestRegistry_Builtins(t *testing.T) {
	reg := registry.New()

	var types []string
	for _, m := range reg.Manifests() {
		types = append(types, m.Type)
	}
	assert.IsNonDecreasing(t, types)
	for _, want := range []string{"Sequence", "SequenceStar", "Fallback", "Parallel", "Inverter", "Retry", "Repeat", "AlwaysSuccess", "Sleep", "Log"} {
		assert.Contains(t, types, want)
	}

	kind, ports, ok := reg.Describe("Parallel")
	require.True(t, ok)
	assert.Equal(t, bt.KindControl, kind)
	assert.Len(t, ports, 2)
}

func TestRegistry_BuildAppliesDefaults(t *testing.T) {
	reg := registry.New()

	node, err := reg.Build("Parallel", registry.BuildContext{Name: "both"})
	require.NoError(t, err)
	assert.Equal(t, "Parallel", bt.BaseOf(node).Type())
	raw, ok := bt.BaseOf(node).Config().Raw("failure_threshold")
	require.True(t, ok)
	assert.Equal(t, "1", raw)

	_, err = reg.Build("Retry", registry.BuildContext{Config: bt.NodeConfig{Ports: map[string]string{"num_attempts": "many"}}})
	assert.Error(t, err)

	_, err = reg.Build("Nope", registry.BuildContext{})
	assert.Error(t, err)
}

func TestRegistry_BuildChecksKind(t *testing.T) {
	reg := registry.NewRegistry()
	reg.MustRegister(registry.Manifest{Type: "Liar", Kind: bt.KindControl, Builder: func(b registry.BuildContext) (bt.Node, error) {
		return bt.NewAction(b.Name, b.Config, nil), nil
	}})

	_, err := reg.Build("Liar", registry.BuildContext{})
	assert.ErrorContains(t, err, "manifest declares control")
}

func TestResource(t *testing.T) {
	res := registry.NewResources()
	res.Set("arm", &motor{position: 3})
	bctx := registry.BuildContext{Resources: res}

	m, err := registry.Resource[*motor](bctx, "arm")
	require.NoError(t, err)
	assert.Equal(t, 3, m.position)

	_, err = registry.Resource[*motor](bctx, "leg")
	assert.ErrorIs(t, err, registry.ErrResourceNotFound)

	_, err = registry.Resource[string](bctx, "arm")
	assert.Error(t, err)

	_, err = registry.Resource[string](registry.BuildContext{}, "arm")
	assert.ErrorIs(t, err, registry.ErrResourceNotFound)
}
