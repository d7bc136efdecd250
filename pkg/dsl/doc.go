/*
Package dsl provides a fluent Go API for describing behavior trees.

It produces the same domain.Document a tree file would, so the result can be
validated and built by a registry.Factory, or served as a ports.TreeLoader.

Example usage:

	b := dsl.New()
	b.Add("arm").
		Root(dsl.SequenceStar("reach",
			dsl.Action("MoveArm").Ref("position", "target"),
			dsl.Retry(3, dsl.Action("Grip")),
		)).
		Blackboard("target", 512)

	loader, err := b.Build()
*/
package dsl
