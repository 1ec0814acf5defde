package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modelforge/internal/template"
)

// TemplatesCmd returns the templates command
func TemplatesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the starter templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := template.LoadCatalog(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range catalog.List() {
				fmt.Fprintf(out, "%-12s %s  %s\n",
					color.New(color.FgCyan).Sprint(t.Name), t.Title,
					color.New(color.FgHiBlack).Sprintf("(%s, %d entities)", t.Document.Format, t.Document.Len()))
				if t.Description != "" {
					fmt.Fprintf(out, "             %s\n", t.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "templates", "Templates directory")

	return cmd
}
