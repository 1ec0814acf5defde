package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modelforge/internal/lint"
)

// LintCmd returns the lint command
func LintCmd() *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "lint <file|dir>",
		Short: "Report model problems without generating anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0], format)
			if err != nil {
				return err
			}
			issues := lint.Lint(doc)
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintf(out, "%s %d entities, no warnings\n", color.New(color.FgGreen).Sprint("OK"), doc.Len())
				return nil
			}
			printWarnings(out, issues)
			if strict {
				return fmt.Errorf("%d warning(s)", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format: json, yaml or dsl (default: from extension)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when there are warnings")

	return cmd
}
