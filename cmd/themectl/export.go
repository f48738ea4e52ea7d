package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/codr1/folio/internal/models"
	"github.com/codr1/folio/internal/theming"
)

type exportOptions struct {
	preset string
	out    string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a preset as a theme file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", "", "Preset index or name (defaults to the built-in default)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path; \"auto\" uses the exported filename, empty writes to stdout")

	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	doc, err := resolvePreset(opts.preset)
	if err != nil {
		return err
	}

	file, err := theming.Export(doc)
	if err != nil {
		return err
	}

	switch opts.out {
	case "":
		_, err := cmd.OutOrStdout().Write(file.Data)
		return err
	case "auto":
		opts.out = file.Filename
	}

	if err := os.WriteFile(opts.out, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.out)
	return nil
}

// resolvePreset accepts a catalog index, a fuzzy name, or "" for the default
// document.
func resolvePreset(ref string) (models.Document, error) {
	if ref == "" {
		return models.DefaultDocument(), nil
	}

	catalog, err := theming.LoadCatalog()
	if err != nil {
		return models.Document{}, err
	}
	if index, err := strconv.Atoi(ref); err == nil {
		return catalog.At(index)
	}
	doc, _, ok := catalog.Find(ref)
	if !ok {
		return models.Document{}, fmt.Errorf("no preset matches %q", ref)
	}
	return doc, nil
}
