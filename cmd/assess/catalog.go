package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the questionnaire in presentation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := resolveCatalog(cmd)
			if err != nil {
				return err
			}

			category, _ := cmd.Flags().GetString("category")
			questions := cat.Questions()
			if category != "" {
				questions = cat.ByCategory(catalog.Category(category))
				if len(questions) == 0 {
					return fmt.Errorf("unknown category %q", category)
				}
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(questions)
			}
			return printQuestions(cmd, questions)
		},
	}
	cmd.Flags().String("category", "", "Only list one category (disposition, domain-knowledge, readiness-framework)")
	cmd.Flags().Bool("json", false, "Emit JSON, including option tiers")
	return cmd
}

func printQuestions(cmd *cobra.Command, questions []catalog.Question) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tCATEGORY\tSECTION\tPROMPT")
	for _, q := range questions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", q.ID, q.Type, q.Category, q.Section, q.Prompt)
		switch {
		case q.Scale != nil:
			fmt.Fprintf(w, "\t\t\t\t%d = %s … %d = %s\n", catalog.ScaleMin, q.Scale.Low, catalog.ScaleMax, q.Scale.High)
		case len(q.Options) > 0:
			fmt.Fprintf(w, "\t\t\t\t[%s]\n", strings.Join(q.OptionTexts(), " | "))
		}
	}
	return w.Flush()
}
