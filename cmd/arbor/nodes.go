package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/tui"
)

func newNodesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the node types that tree files can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			return tui.PrintCatalog(cmd.OutOrStdout(), eng.Registry().Manifests())
		},
	}
}
