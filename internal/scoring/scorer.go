// Package scoring turns a completed answer set into a readiness Result. It is
// pure: no I/O, no randomness and no package-level mutable state, so the same
// inputs always produce the same Result and concurrent callers need no
// coordination.
//
// Dependency rule: scoring imports catalog only. It can be tested without a
// database, an HTTP server or a gRPC listener.
package scoring

import (
	"fmt"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
)

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

// Per-question contributions, all on a 0–100 scale.
const (
	pointsPerScaleStep = 20 // scaled: value × 20
	neutralScaleValue  = 3  // scaled default when unanswered → 60

	pointsBest       = 100
	pointsNeutral    = 60 // also the single-choice default when unanswered
	pointsUnfamiliar = 20

	pointsAffirmative = 85
	pointsNegative    = 45 // also the binary default when unanswered
)

// Recommendation thresholds on the overall score (inclusive lower bounds).
const (
	strongMatchThreshold   = 80
	goodPotentialThreshold = 65
)

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

// round rounds a non-negative value half-up.
func round(x float64) int {
	return int(x + 0.5)
}

// Contribution computes the 0–100 points a single question adds to its
// category. A missing answer is NOT an error; it contributes the neutral
// default for its type. A present answer outside the question's domain is
// rejected with ErrInvalidAnswer.
//
//	scaled         value × 20         (unanswered → 60)
//	single-choice  best 100 · neutral 60 · unfamiliar 20   (unanswered → 60)
//	binary         affirmative 85 · negative 45            (unanswered → 45)
func Contribution(q catalog.Question, answers AnswerSet) (int, error) {
	answer, answered := answers[q.ID]

	switch q.Type {
	case catalog.TypeScaled:
		if !answered {
			return neutralScaleValue * pointsPerScaleStep, nil
		}
		v, err := parseScale(answer)
		if err != nil {
			return 0, fmt.Errorf("%w: question %q: %v", ErrInvalidAnswer, q.ID, err)
		}
		return v * pointsPerScaleStep, nil

	case catalog.TypeSingleChoice:
		if !answered {
			return pointsNeutral, nil
		}
		opt, ok := q.Option(answer)
		if !ok {
			return 0, fmt.Errorf("%w: question %q: %q is not one of the listed options", ErrInvalidAnswer, q.ID, answer)
		}
		switch opt.Tier {
		case catalog.TierBest:
			return pointsBest, nil
		case catalog.TierUnfamiliar:
			return pointsUnfamiliar, nil
		default:
			return pointsNeutral, nil
		}

	case catalog.TypeBinary:
		if !answered {
			return pointsNegative, nil
		}
		opt, ok := q.Option(answer)
		if !ok {
			return 0, fmt.Errorf("%w: question %q: %q is not one of the listed options", ErrInvalidAnswer, q.ID, answer)
		}
		if opt.Tier == catalog.TierAffirmative {
			return pointsAffirmative, nil
		}
		return pointsNegative, nil

	default:
		return 0, fmt.Errorf("%w: question %q has unknown type %q", catalog.ErrConfig, q.ID, q.Type)
	}
}

// CategoryScore is the rounded mean contribution of every question in cat.
// The divisor is the number of questions in the category, not the number
// answered. An empty category is a configuration error.
func CategoryScore(c *catalog.Catalog, cat catalog.Category, answers AnswerSet) (int, error) {
	questions := c.ByCategory(cat)
	if len(questions) == 0 {
		return 0, fmt.Errorf("%w: category %q has no questions", catalog.ErrConfig, cat)
	}

	total := 0
	for _, q := range questions {
		pts, err := Contribution(q, answers)
		if err != nil {
			return 0, err
		}
		total += pts
	}
	return round(float64(total) / float64(len(questions))), nil
}

// sourceContribution scores the designated question for one dimension.
func sourceContribution(c *catalog.Catalog, role, id string, answers AnswerSet) (int, error) {
	q, ok := c.Lookup(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s source %q not in catalog", catalog.ErrConfig, role, id)
	}
	return Contribution(q, answers)
}

// Framework derives the readiness-framework breakdown. skill is the
// already-computed domain-knowledge category score and is reused as-is.
func Framework(c *catalog.Catalog, answers AnswerSet, skill int) (FrameworkScores, error) {
	src := c.Sources()
	f := FrameworkScores{Skill: skill}

	for _, dim := range []struct {
		role string
		id   string
		dst  *int
	}{
		{"persistence", src.Persistence, &f.Persistence},
		{"interest", src.Interest, &f.Interest},
		{"cognitive", src.Cognitive, &f.Cognitive},
		{"ability_to_learn", src.AbilityToLearn, &f.AbilityToLearn},
		{"real_world_alignment", src.RealWorldAlignment, &f.RealWorldAlignment},
	} {
		pts, err := sourceContribution(c, dim.role, dim.id, answers)
		if err != nil {
			return FrameworkScores{}, err
		}
		*dim.dst = pts
	}
	return f, nil
}

// OverallScore blends the disposition and domain-knowledge category scores
// with the mean of the framework dimensions as a three-term average:
//
//	round((disposition + domainKnowledge + mean(framework)) / 3)
//
// The readiness-framework category score is reported but does not enter
// this formula; the framework mean stands in for it.
func OverallScore(cs CategoryScores, fs FrameworkScores) int {
	return round((float64(cs.Disposition) + float64(cs.DomainKnowledge) + fs.Mean()) / 3)
}

// Recommend classifies an overall score into a tier.
//
//	≥ 80        Strong Match
//	65 – 79     Good Potential
//	< 65        Consider Alternatives
func Recommend(overall int) Recommendation {
	switch {
	case overall >= strongMatchThreshold:
		return RecommendationStrongMatch
	case overall >= goodPotentialThreshold:
		return RecommendationGoodPotential
	default:
		return RecommendationConsiderAlternatives
	}
}

// ComputeResult scores a full answer set against c.
//
// Returns an error wrapping catalog.ErrConfig for a nil catalog or one with
// an empty category, and ErrInvalidAnswer for any answer outside its
// question's domain (including answers to ids the catalog does not contain).
// Missing answers are never an error.
func ComputeResult(answers AnswerSet, c *catalog.Catalog) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("ComputeResult: %w: nil catalog", catalog.ErrConfig)
	}
	if err := ValidateAnswers(answers, c); err != nil {
		return Result{}, fmt.Errorf("ComputeResult: %w", err)
	}

	var cs CategoryScores
	for _, cat := range []struct {
		cat catalog.Category
		dst *int
	}{
		{catalog.CategoryDisposition, &cs.Disposition},
		{catalog.CategoryDomainKnowledge, &cs.DomainKnowledge},
		{catalog.CategoryReadinessFramework, &cs.ReadinessFramework},
	} {
		score, err := CategoryScore(c, cat.cat, answers)
		if err != nil {
			return Result{}, fmt.Errorf("ComputeResult: %w", err)
		}
		*cat.dst = score
	}

	fs, err := Framework(c, answers, cs.DomainKnowledge)
	if err != nil {
		return Result{}, fmt.Errorf("ComputeResult: %w", err)
	}

	overall := OverallScore(cs, fs)
	return Result{
		CategoryScores:  cs,
		FrameworkScores: fs,
		OverallScore:    overall,
		Recommendation:  Recommend(overall),
	}, nil
}
