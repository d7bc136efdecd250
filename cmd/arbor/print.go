package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/tui"
)

func newPrintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "print <tree-file>",
		Short: "Print the main tree as an indented outline",
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
			tree, err := eng.Build(doc)
			if err != nil {
				return err
			}
			defer tree.Close()
			return tui.PrintTree(cmd.OutOrStdout(), tree)
		},
	}
}
