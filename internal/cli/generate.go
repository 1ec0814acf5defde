package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modelforge/internal/artifact"
	"modelforge/internal/lint"
	"modelforge/internal/wizard"
)

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	var (
		outDir string
		format string
		system string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <file|dir>",
		Short: "Generate the full code bundle for a model",
		Long: `Run every generation stage over a model and write the files under --out:
database/*.sql, docs/, diagrams/, prisma/schema.prisma,
lib/validation/schemas.ts and app/api/routes.ts.

Warnings are printed but never stop generation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0], format)
			if err != nil {
				return err
			}
			if system != "" {
				doc.Context.SystemName = system
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			progress := func(p wizard.Progress) {
				if !quiet {
					fmt.Fprintf(out, "[%d/%d] %s\n", p.Step, p.Total, p.Message)
				}
			}
			res, err := wizard.New().Run(ctx, doc, progress)
			if err != nil {
				return err
			}

			written, err := artifact.Export(&artifact.LocalExporter{Root: outDir}, res.Files)
			if err != nil {
				return err
			}
			for _, w := range written {
				fmt.Fprintf(out, "  %s %s (%d bytes)\n", color.New(color.FgGreen).Sprint("WROTE"), w.Path, w.Size)
			}
			printWarnings(out, res.Warnings)
			fmt.Fprintf(out, "\n%d tables, %d relationships, complexity %s (%s)\n",
				res.Analysis.Tables, res.Analysis.Relationships, res.Analysis.Complexity, res.Analysis.EstimatedTime)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "generated", "Output directory")
	cmd.Flags().StringVar(&format, "format", "", "Input format: json, yaml or dsl (default: from extension)")
	cmd.Flags().StringVar(&system, "system", "", "System name for generated headers")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide stage progress")

	return cmd
}

func printWarnings(w io.Writer, issues lint.Issues) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", color.New(color.FgYellow).Sprintf("%d warning(s):", len(issues)))
	for _, is := range issues {
		fmt.Fprintf(w, "  %s %s\n", color.New(color.FgYellow).Sprint("!"), is.String())
	}
}
