package main

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/codr1/folio/internal/theming"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

type shareEncodeOptions struct {
	copy    bool
	baseURL string
}

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode theme share links",
	}

	cmd.AddCommand(newShareEncodeCmd())
	cmd.AddCommand(newShareDecodeCmd())

	return cmd
}

func newShareEncodeCmd() *cobra.Command {
	opts := &shareEncodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Print the share payload (or link with --base) for a theme file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readTheme(cmd, args[0], theming.ColorsStrict)
			if err != nil {
				return err
			}

			link, err := theming.EncodeShareLink(doc)
			if err != nil {
				return err
			}
			if opts.baseURL != "" {
				if link, err = theming.ShareURL(opts.baseURL, doc); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), link)
			if opts.copy {
				if err := copyToClipboard(link); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("copied to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Also copy the result to the clipboard")
	cmd.Flags().StringVar(&opts.baseURL, "base", "", "Site URL; prints a full /theme?share= link")

	return cmd
}

func newShareDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <payload>",
		Short: "Decode a share payload back into a theme file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, ok := theming.DecodeShareLink(args[0])
			if !ok {
				return errors.New("not a valid theme share payload")
			}
			data, err := theming.Marshal(doc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
