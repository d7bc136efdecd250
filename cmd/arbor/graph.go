package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/graph"
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <tree-file>",
		Short: "Export the tree as a Mermaid diagram",
		Long:  `Outputs a Mermaid diagram (graph TD). By default every tree of the file is drawn with SubTree links; --built draws the main tree as it would run, with subtrees inlined.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			eng, err := a.newEngine()
			if err != nil {
				return err
			}

			built, _ := cmd.Flags().GetBool("built")
			if !built {
				fmt.Fprint(cmd.OutOrStdout(), graph.GenerateDocumentMermaid(doc, eng.Registry()))
				return nil
			}

			tree, err := eng.Build(doc)
			if err != nil {
				return err
			}
			defer tree.Close()
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tree.Statuses()))
			return nil
		},
	}
	cmd.Flags().Bool("built", false, "Draw the built main tree instead of the file")
	return cmd
}
