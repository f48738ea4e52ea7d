package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/codr1/folio/internal/models"
	"github.com/codr1/folio/internal/theming"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "themectl",
		Short:         "Inspect, convert and share site themes offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newPresetsCmd())
	cmd.AddCommand(newAuditCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newShareCmd())
	cmd.AddCommand(newComplementCmd())
	cmd.AddCommand(newPaletteCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// readTheme imports a theme file, or stdin when path is "-".
func readTheme(cmd *cobra.Command, path string, policy theming.ColorPolicy) (models.Document, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return models.Document{}, fmt.Errorf("open theme file: %w", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := theming.Import(r, theming.ImportOptions{Colors: policy})
	if err != nil {
		return models.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
