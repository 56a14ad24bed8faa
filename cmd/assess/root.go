package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assess",
		Short:         "Smart city infrastructure readiness assessment",
		Long:          "assess lists the readiness questionnaire and scores answer sets without a server.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("catalog", "", "Path to a JSON catalog (overrides CATALOG_PATH; default is the built-in catalog)")

	root.AddCommand(newCatalogCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "assess", version)
		},
	})
	return root
}

// resolveCatalog returns the catalog named by --catalog (highest priority),
// then CATALOG_PATH, then the built-in one.
func resolveCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = os.Getenv("CATALOG_PATH")
	}
	if path == "" {
		return catalog.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Parse(raw)
}
