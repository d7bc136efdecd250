package file

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclDocument is the shape of an HCL tree file:
//
//	main = "robot"
//
//	tree "robot" {
//	  blackboard = { target = 512 }
//
//	  node "SequenceStar" {
//	    name = "arm"
//	    node "MoveArm" {
//	      ports = { position = "{target}" }
//	    }
//	  }
//	}
type hclDocument struct {
	Main  string     `hcl:"main,optional"`
	Trees []*hclTree `hcl:"tree,block"`
}

type hclTree struct {
	ID         string    `hcl:"id,label"`
	Blackboard cty.Value `hcl:"blackboard,optional"`
	Root       *hclNode  `hcl:"node,block"`
}

type hclNode struct {
	Type     string            `hcl:"type,label"`
	Name     string            `hcl:"name,optional"`
	Ports    map[string]string `hcl:"ports,optional"`
	Children []*hclNode        `hcl:"node,block"`
}

func decodeHCL(name string, data []byte) (*domain.Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var parsed hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	doc := &domain.Document{Main: parsed.Main}
	for _, t := range parsed.Trees {
		bb, err := ctyToNative(t.Blackboard)
		if err != nil {
			return nil, fmt.Errorf("tree %q blackboard: %w", t.ID, err)
		}
		if t.Root == nil {
			return nil, fmt.Errorf("tree %q has no root node", t.ID)
		}
		tree := domain.TreeSpec{ID: t.ID, Root: t.Root.spec()}
		if bb != nil {
			m, ok := bb.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("tree %q blackboard must be an object", t.ID)
			}
			tree.Blackboard = m
		}
		doc.Trees = append(doc.Trees, tree)
	}
	return doc, nil
}

func (n *hclNode) spec() domain.NodeSpec {
	out := domain.NodeSpec{Type: n.Type, Name: n.Name}
	if len(n.Ports) > 0 {
		out.Ports = n.Ports
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.spec())
	}
	return out
}

// ctyToNative converts a cty value to plain Go values. Whole numbers become int.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return int(i), nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
