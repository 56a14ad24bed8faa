package catalog_test

import (
	"errors"
	"testing"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
)

const validDoc = `{
	"sources": {
		"persistence": "r_persist",
		"interest": "r_interest",
		"cognitive": "r_cog",
		"ability_to_learn": "r_learn",
		"real_world_alignment": "r_world"
	},
	"questions": [
		{"id":"d1","type":"scaled","category":"disposition","prompt":"p","scale":{"low":"l","high":"h"}},
		{"id":"k1","type":"single-choice","category":"domain-knowledge","prompt":"p",
		 "options":[{"text":"MQTT","tier":"best"},{"text":"CSS","tier":"neutral"},{"text":"I'm not sure","tier":"unfamiliar"}]},
		{"id":"r_persist","type":"scaled","category":"readiness-framework","scale":{"low":"l","high":"h"}},
		{"id":"r_interest","type":"scaled","category":"readiness-framework","scale":{"low":"l","high":"h"}},
		{"id":"r_cog","type":"scaled","category":"readiness-framework","scale":{"low":"l","high":"h"}},
		{"id":"r_learn","type":"scaled","category":"readiness-framework","scale":{"low":"l","high":"h"}},
		{"id":"r_world","type":"binary","category":"readiness-framework",
		 "options":[{"text":"Yes","tier":"affirmative"},{"text":"No","tier":"negative"}]}
	]
}`

func TestParse_Valid(t *testing.T) {
	c, err := catalog.Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 7 {
		t.Errorf("expected 7 questions, got %d", c.Len())
	}
	if c.Sources().AbilityToLearn != "r_learn" {
		t.Errorf("sources not decoded: %+v", c.Sources())
	}
	q, ok := c.Lookup("k1")
	if !ok || len(q.Options) != 3 || q.Options[0].Tier != catalog.TierBest {
		t.Errorf("k1 decoded wrong: %+v", q)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"whitespace", "  \n"},
		{"malformed JSON", `{bad}`},
		{"unknown top-level field", `{"sources":{},"questions":[],"extra":1}`},
		{"unknown type", `{"sources":{},"questions":[{"id":"x","type":"checkbox"}]}`},
		{"unknown question field", `{"sources":{},"questions":[{"id":"x","type":"scaled","weight":2}]}`},
		{"no questions", `{"sources":{},"questions":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, catalog.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}
