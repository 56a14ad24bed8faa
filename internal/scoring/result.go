package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidResult is returned by Result.Validate.
var ErrInvalidResult = errors.New("scoring: invalid result")

// Recommendation is the three-level verdict derived from the overall score.
type Recommendation string

const (
	RecommendationStrongMatch          Recommendation = "Strong Match"
	RecommendationGoodPotential        Recommendation = "Good Potential"
	RecommendationConsiderAlternatives Recommendation = "Consider Alternatives"
)

// CategoryScores holds one 0–100 score per catalog category.
type CategoryScores struct {
	Disposition        int `json:"disposition"`
	DomainKnowledge    int `json:"domainKnowledge"`
	ReadinessFramework int `json:"readinessFramework"`
}

// FrameworkScores is the readiness-framework breakdown. Skill mirrors the
// domain-knowledge category score.
type FrameworkScores struct {
	Persistence        int `json:"persistence"`
	Interest           int `json:"interest"`
	Skill              int `json:"skill"`
	Cognitive          int `json:"cognitive"`
	AbilityToLearn     int `json:"abilityToLearn"`
	RealWorldAlignment int `json:"realWorldAlignment"`
}

// named returns every dimension with its JSON name, in reporting order.
func (f FrameworkScores) named() []namedScore {
	return []namedScore{
		{"persistence", f.Persistence},
		{"interest", f.Interest},
		{"skill", f.Skill},
		{"cognitive", f.Cognitive},
		{"abilityToLearn", f.AbilityToLearn},
		{"realWorldAlignment", f.RealWorldAlignment},
	}
}

// Mean is the unrounded average across every dimension.
func (f FrameworkScores) Mean() float64 {
	dims := f.named()
	total := 0
	for _, d := range dims {
		total += d.score
	}
	return float64(total) / float64(len(dims))
}

type namedScore struct {
	name  string
	score int
}

// Result is the computed outcome of one submission. It is a plain value:
// callers own their copy and nothing inside the engine retains it.
type Result struct {
	CategoryScores  CategoryScores  `json:"categoryScores"`
	FrameworkScores FrameworkScores `json:"frameworkScores"`
	OverallScore    int             `json:"overallScore"`
	Recommendation  Recommendation  `json:"recommendation"`
}

// Validate checks that every score is within [0, 100] and that the
// recommendation agrees with the overall score. Results read back from
// storage are validated before being served.
func (r Result) Validate() error {
	scores := []namedScore{
		{"categoryScores.disposition", r.CategoryScores.Disposition},
		{"categoryScores.domainKnowledge", r.CategoryScores.DomainKnowledge},
		{"categoryScores.readinessFramework", r.CategoryScores.ReadinessFramework},
		{"overallScore", r.OverallScore},
	}
	for _, d := range r.FrameworkScores.named() {
		scores = append(scores, namedScore{"frameworkScores." + d.name, d.score})
	}
	for _, s := range scores {
		if s.score < 0 || s.score > 100 {
			return fmt.Errorf("%w: %s=%d out of range [0,100]", ErrInvalidResult, s.name, s.score)
		}
	}
	if want := Recommend(r.OverallScore); r.Recommendation != want {
		return fmt.Errorf("%w: recommendation %q does not match overall score %d (want %q)",
			ErrInvalidResult, r.Recommendation, r.OverallScore, want)
	}
	return nil
}
