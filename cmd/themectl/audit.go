package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codr1/folio/internal/models"
	"github.com/codr1/folio/internal/theming"
)

type auditOptions struct {
	strict bool
}

func newAuditCmd() *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit <file>",
		Short: "Check WCAG contrast of a theme's text/background pairs",
		Long:  "Check WCAG contrast of a theme's text/background pairs. Use \"-\" to read the theme from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readTheme(cmd, args[0], theming.ColorsLoose)
			if err != nil {
				return err
			}
			return runAudit(cmd, doc, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when any pair fails AA")

	return cmd
}

func runAudit(cmd *cobra.Command, doc models.Document, opts *auditOptions) error {
	out := cmd.OutOrStdout()
	checks := models.Audit(doc)

	fmt.Fprintln(out, headerStyle.Render(doc.Name))
	failing := 0
	for _, check := range checks {
		label := fmt.Sprintf("%s on %s", check.Foreground.Label(), check.Background.Label())
		if !check.Valid {
			failing++
			fmt.Fprintf(out, "%-40s %s\n", label, failStyle.Render("invalid color"))
			continue
		}
		if !check.AA {
			failing++
		}
		fmt.Fprintf(out, "%-40s %s %6.2f:1  AA %s  AAA %s\n",
			label,
			sample(check.ForegroundColor, check.BackgroundColor, "Aa"),
			check.Ratio,
			verdict(check.AA),
			verdict(check.AAA),
		)
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d of %d pairs below AA", failing, len(checks))))

	if opts.strict && failing > 0 {
		return fmt.Errorf("%d contrast pairs below AA", failing)
	}
	return nil
}
