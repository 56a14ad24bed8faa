// Package catalog holds the fixed question set for the smart city
// infrastructure readiness assessment. A Catalog is built once, validated,
// and then shared read-only by every respondent. Nothing in this package
// mutates a Catalog after New returns.
//
// Dependency rule: catalog imports nothing from internal/. The scoring
// package reads it; the api, rpc and store packages never touch its fields
// directly.
package catalog

// ─── ENUMS ────────────────────────────────────────────────────────────────────

// QuestionType selects how a raw answer is turned into a score contribution.
type QuestionType string

const (
	TypeScaled       QuestionType = "scaled"        // ordinal self-rating 1–5
	TypeSingleChoice QuestionType = "single-choice" // one best option among several
	TypeBinary       QuestionType = "binary"        // two mutually exclusive options
)

// Category groups questions for aggregate scoring. Every question belongs to
// exactly one category.
type Category string

const (
	CategoryDisposition        Category = "disposition"
	CategoryDomainKnowledge    Category = "domain-knowledge"
	CategoryReadinessFramework Category = "readiness-framework"
)

// Categories lists every category in reporting order.
var Categories = []Category{
	CategoryDisposition,
	CategoryDomainKnowledge,
	CategoryReadinessFramework,
}

// Tier tags an option with the score band it earns. The scoring engine
// switches on this closed set; it never inspects option text.
type Tier string

const (
	// single-choice tiers
	TierBest       Tier = "best"
	TierNeutral    Tier = "neutral"
	TierUnfamiliar Tier = "unfamiliar"

	// binary tiers
	TierAffirmative Tier = "affirmative"
	TierNegative    Tier = "negative"
)

// Fixed ordinal range for scaled questions.
const (
	ScaleMin = 1
	ScaleMax = 5
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// ScaleBounds carries the anchor labels shown at either end of a 1–5 scale.
type ScaleBounds struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

// Option is one candidate answer of a single-choice or binary question.
// Text is what the respondent submits verbatim.
type Option struct {
	Text string `json:"text"`
	Tier Tier   `json:"tier"`
}

// Question is a single catalog entry. Section is a display label only and
// has no effect on scoring.
type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Category Category     `json:"category"`
	Section  string       `json:"section"`
	Prompt   string       `json:"prompt"`
	Scale    *ScaleBounds `json:"scale,omitempty"`
	Options  []Option     `json:"options,omitempty"`
}

// Option returns the option whose text matches answer exactly.
func (q Question) Option(answer string) (Option, bool) {
	for _, o := range q.Options {
		if o.Text == answer {
			return o, true
		}
	}
	return Option{}, false
}

// OptionTexts returns the option strings in display order.
func (q Question) OptionTexts() []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Text
	}
	return out
}

// clone returns a deep copy so callers can never reach the catalog's backing
// arrays.
func (q Question) clone() Question {
	if q.Scale != nil {
		s := *q.Scale
		q.Scale = &s
	}
	if q.Options != nil {
		q.Options = append([]Option(nil), q.Options...)
	}
	return q
}

// Sources names the questions that feed the single-source readiness
// dimensions. The skill dimension has no entry: it reuses the
// domain-knowledge category score.
type Sources struct {
	Persistence        string `json:"persistence"`
	Interest           string `json:"interest"`
	Cognitive          string `json:"cognitive"`
	AbilityToLearn     string `json:"ability_to_learn"`
	RealWorldAlignment string `json:"real_world_alignment"`
}
