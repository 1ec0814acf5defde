package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modelforge/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "modelgen",
		Short: "Generate database, ORM and validation code from a data model",
		Long: `modelgen reads a model document (JSON, YAML or .dsl) and writes the
generated SQL schema, Prisma schema, Zod validators and route stubs.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.LintCmd())
	rootCmd.AddCommand(cli.TemplatesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
