package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answer set and print the Result as JSON",
		Long: `score reads a JSON object mapping question ids to answer strings,
either bare ({"disp_cities": "4"}) or wrapped ({"answers": {...}}).
Use --answers - to read from stdin. Unanswered questions take their
neutral defaults; an answer outside its question's domain is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("answers")
			raw, err := readAnswers(cmd, path)
			if err != nil {
				return err
			}
			answers, err := parseAnswers(raw)
			if err != nil {
				return err
			}

			cat, err := resolveCatalog(cmd)
			if err != nil {
				return err
			}

			result, err := scoring.ComputeResult(answers, cat)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().String("answers", "", "Path to the answers JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func readAnswers(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return raw, nil
}

// parseAnswers accepts the bare and the wrapped form. Every value must be a
// JSON string.
func parseAnswers(raw []byte) (scoring.AnswerSet, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("answers: %w", err)
	}
	if doc == nil {
		return nil, errors.New("answers: document is null")
	}
	if inner, ok := doc["answers"]; ok && len(doc) == 1 {
		var unwrapped map[string]json.RawMessage
		if err := json.Unmarshal(inner, &unwrapped); err != nil {
			return nil, fmt.Errorf(`answers: "answers" must be an object: %w`, err)
		}
		doc = unwrapped
	}

	answers := make(scoring.AnswerSet, len(doc))
	for id, v := range doc {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("answers: value for %q must be a string", id)
		}
		answers.Set(id, s)
	}
	return answers, nil
}
