package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codr1/folio/internal/models"
)

func newComplementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complement <hex>",
		Short: "Print the complementary color and its contrast against the input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color := strings.TrimSpace(args[0])
			complement, ok := models.ComplementaryColor(color)
			if !ok {
				return fmt.Errorf("%q is not a hex color like #AABBCC or #ABC", color)
			}
			ratio, _ := models.ContrastRatio(color, complement)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  ->  %s %s  (%.2f:1)\n",
				swatch(color), color, swatch(complement), complement, ratio)
			return nil
		},
	}
}

func newPaletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette [family]",
		Short: "Show the picker palette, or one family's shades",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			families := models.Palette()
			if len(args) == 1 {
				family, ok := models.PaletteFamily(args[0])
				if !ok {
					return fmt.Errorf("unknown color family %q", args[0])
				}
				families = []models.ColorFamily{family}
			}

			for _, family := range families {
				fmt.Fprintln(out, headerStyle.Render(family.Name))
				for _, shade := range family.Shades {
					fmt.Fprintf(out, "  %s %-4s %s\n", swatch(shade.Value), shade.Name, shade.Value)
				}
			}
			return nil
		},
	}
}
