package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codr1/folio/internal/models"
	"github.com/codr1/folio/internal/theming"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [query]",
		Short: "List built-in presets, or fuzzy-find one by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := theming.LoadCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				doc, index, ok := catalog.Find(args[0])
				if !ok {
					return fmt.Errorf("no preset matches %q", args[0])
				}
				fmt.Fprintf(out, "%d  %s\n", index, doc.Name)
				return nil
			}

			fmt.Fprintln(out, headerStyle.Render("INDEX  NAME"))
			for i, doc := range catalog.All() {
				fmt.Fprintf(out, "%-5d  %s %s\n", i, swatch(doc.Color(models.TokenPrimary)), doc.Name)
			}
			return nil
		},
	}
}
