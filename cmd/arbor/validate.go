package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/validator"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <tree-file>",
		Short: "Check a tree file against the node registry",
		Long:  `Decodes the file and reports unknown node types, wrong child counts, missing or unknown ports and SubTree cycles.`,
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
			if err := eng.Validate(doc); err != nil {
				errs := validator.ValidationErrors(err)
				if len(errs) == 0 {
					return err
				}
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", e)
				}
				return fmt.Errorf("validation failed: %d problem(s)", len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d tree(s))\n", args[0], len(doc.Trees))
			return nil
		},
	}
}
