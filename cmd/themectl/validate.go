package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codr1/folio/internal/theming"
)

type validateOptions struct {
	mode string
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a theme file would be accepted by import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := theming.ParseColorPolicy(opts.mode)
			if err != nil {
				return err
			}
			doc, err := readTheme(cmd, args[0], policy)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d semantic roles, %s mode)\n",
				passStyle.Render("ok"), doc.Name, len(doc.Semantic), policy)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "strict", "Color validation: strict, loose or drop")

	return cmd
}
