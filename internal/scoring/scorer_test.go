package scoring_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
)

// ─── HELPERS ──────────────────────────────────────────────────────────────────

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return c
}

// optionWithTier returns the first option of q carrying tier, or "" if none.
func optionWithTier(q catalog.Question, tier catalog.Tier) string {
	for _, o := range q.Options {
		if o.Tier == tier {
			return o.Text
		}
	}
	return ""
}

// fill answers every question: scaled with scale, single-choice with the
// first option of the preferred tier (falling back to neutral), binary with
// the given tier.
func fill(c *catalog.Catalog, scale string, choice, bin catalog.Tier) scoring.AnswerSet {
	answers := scoring.AnswerSet{}
	for _, q := range c.Questions() {
		switch q.Type {
		case catalog.TypeScaled:
			answers.Set(q.ID, scale)
		case catalog.TypeSingleChoice:
			text := optionWithTier(q, choice)
			if text == "" {
				text = optionWithTier(q, catalog.TierNeutral)
			}
			answers.Set(q.ID, text)
		case catalog.TypeBinary:
			answers.Set(q.ID, optionWithTier(q, bin))
		}
	}
	return answers
}

func mustCompute(t *testing.T, answers scoring.AnswerSet, c *catalog.Catalog) scoring.Result {
	t.Helper()
	res, err := scoring.ComputeResult(answers, c)
	if err != nil {
		t.Fatalf("ComputeResult: %v", err)
	}
	return res
}

// ─── Contribution ─────────────────────────────────────────────────────────────

func TestContribution_Scaled(t *testing.T) {
	c := defaultCatalog(t)
	q, _ := c.Lookup("disp_cities")

	for v := 1; v <= 5; v++ {
		got, err := scoring.Contribution(q, scoring.AnswerSet{q.ID: strconv.Itoa(v)})
		if err != nil {
			t.Fatalf("value %d: unexpected error: %v", v, err)
		}
		if got != v*20 {
			t.Errorf("value %d: got %d, want %d", v, got, v*20)
		}
	}

	got, err := scoring.Contribution(q, nil)
	if err != nil {
		t.Fatalf("unanswered: unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("unanswered scaled: got %d, want 60", got)
	}
}

func TestContribution_ScaledRejectsOutOfDomain(t *testing.T) {
	c := defaultCatalog(t)
	q, _ := c.Lookup("disp_cities")

	for _, v := range []string{"0", "6", "", "three", "03", "+3", " 3", "2.5", "-1"} {
		_, err := scoring.Contribution(q, scoring.AnswerSet{q.ID: v})
		if !errors.Is(err, scoring.ErrInvalidAnswer) {
			t.Errorf("value %q: expected ErrInvalidAnswer, got %v", v, err)
		}
	}
}

func TestContribution_SingleChoice(t *testing.T) {
	c := defaultCatalog(t)
	tests := []struct {
		id     string
		answer string
		want   int
	}{
		{"dk_digital_twin", "A virtual replica of physical city infrastructure for simulation and monitoring", 100},
		{"dk_digital_twin", "A backup system for city databases", 60},
		{"dk_digital_twin", "I'm not familiar with this concept", 20},
		{"dk_smart_utility", "Smart grid with real-time energy monitoring", 100},
		{"dk_smart_utility", "Manual traffic light operation", 60},
		{"dk_iot_protocol", "MQTT", 100},
		{"dk_iot_protocol", "HTML", 60},
		{"dk_iot_protocol", "I'm not sure", 20},
		{"dk_traffic_flow", "Using AI to analyze traffic patterns and adjust signals in real-time", 100},
		{"dk_traffic_flow", "Reducing the number of roads", 60},
		{"dk_traffic_flow", "I don't know", 20},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.answer, func(t *testing.T) {
			q, _ := c.Lookup(tt.id)
			got, err := scoring.Contribution(q, scoring.AnswerSet{tt.id: tt.answer})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContribution_SingleChoiceUnansweredIsNeutral(t *testing.T) {
	c := defaultCatalog(t)
	q, _ := c.Lookup("dk_iot_protocol")
	got, err := scoring.Contribution(q, scoring.AnswerSet{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("got %d, want 60", got)
	}
}

func TestContribution_SingleChoiceRejectsUnlistedText(t *testing.T) {
	c := defaultCatalog(t)
	q, _ := c.Lookup("dk_iot_protocol")
	// A near-miss of a listed option is still not a listed option.
	for _, v := range []string{"mqtt", "MQTT ", "I'm not sure at all", ""} {
		_, err := scoring.Contribution(q, scoring.AnswerSet{q.ID: v})
		if !errors.Is(err, scoring.ErrInvalidAnswer) {
			t.Errorf("answer %q: expected ErrInvalidAnswer, got %v", v, err)
		}
	}
}

func TestContribution_Binary(t *testing.T) {
	c := defaultCatalog(t)
	q, _ := c.Lookup(catalog.IDRealWorldAlignment)

	tests := []struct {
		name    string
		answers scoring.AnswerSet
		want    int
	}{
		{"affirmative", scoring.AnswerSet{q.ID: "Yes, that sounds exciting"}, 85},
		{"negative", scoring.AnswerSet{q.ID: "No, that seems overwhelming"}, 45},
		{"unanswered", scoring.AnswerSet{}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scoring.Contribution(q, tt.answers)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

// ─── CategoryScore ────────────────────────────────────────────────────────────

func TestCategoryScore_DividesByQuestionCount(t *testing.T) {
	c := defaultCatalog(t)
	// Two of six disposition questions answered with 5; the other four fall
	// back to 60. (100+100+60*4)/6 = 73.33 → 73.
	answers := scoring.AnswerSet{"disp_cities": "5", "disp_public_data": "5"}
	got, err := scoring.CategoryScore(c, catalog.CategoryDisposition, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 73 {
		t.Errorf("got %d, want 73", got)
	}
}

func TestCategoryScore_Rounding(t *testing.T) {
	c := defaultCatalog(t)
	// 5,5,5,5,5,4 → 580/6 = 96.67 → 97
	answers := scoring.AnswerSet{
		"disp_cities": "5", "disp_public_data": "5", "disp_sustainable": "5",
		"disp_long_term": "5", "disp_collaboration": "5", "disp_open_ended": "4",
	}
	got, err := scoring.CategoryScore(c, catalog.CategoryDisposition, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 97 {
		t.Errorf("got %d, want 97", got)
	}
}

func TestCategoryScore_MixedDomainKnowledge(t *testing.T) {
	c := defaultCatalog(t)
	// best, best, neutral, unfamiliar → (100+100+60+20)/4 = 70
	answers := scoring.AnswerSet{
		"dk_digital_twin":  "A virtual replica of physical city infrastructure for simulation and monitoring",
		"dk_smart_utility": "Smart grid with real-time energy monitoring",
		"dk_iot_protocol":  "CSS",
		"dk_traffic_flow":  "I don't know",
	}
	got, err := scoring.CategoryScore(c, catalog.CategoryDomainKnowledge, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 70 {
		t.Errorf("got %d, want 70", got)
	}
}

func TestCategoryScore_EmptyCategoryIsConfigError(t *testing.T) {
	_, err := scoring.CategoryScore(&catalog.Catalog{}, catalog.CategoryDisposition, nil)
	if !errors.Is(err, catalog.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

// ─── OverallScore / Recommend ─────────────────────────────────────────────────

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name string
		cs   scoring.CategoryScores
		fs   scoring.FrameworkScores
		want int
	}{
		{"all zero", scoring.CategoryScores{}, scoring.FrameworkScores{}, 0},
		{
			"all hundred",
			scoring.CategoryScores{Disposition: 100, DomainKnowledge: 100, ReadinessFramework: 100},
			scoring.FrameworkScores{Persistence: 100, Interest: 100, Skill: 100, Cognitive: 100, AbilityToLearn: 100, RealWorldAlignment: 100},
			100,
		},
		{
			// readiness-framework category score does not enter the formula
			"readiness category ignored",
			scoring.CategoryScores{Disposition: 60, DomainKnowledge: 60, ReadinessFramework: 0},
			scoring.FrameworkScores{Persistence: 60, Interest: 60, Skill: 60, Cognitive: 60, AbilityToLearn: 60, RealWorldAlignment: 60},
			60,
		},
		{
			// (80 + 80 + 3/6) / 3 = 53.5 → 54
			"half rounds up",
			scoring.CategoryScores{Disposition: 80, DomainKnowledge: 80},
			scoring.FrameworkScores{Persistence: 3},
			54,
		},
		{
			// (60 + 60 + 345/6) / 3 = 59.17 → 59
			"neutral defaults",
			scoring.CategoryScores{Disposition: 60, DomainKnowledge: 60, ReadinessFramework: 57},
			scoring.FrameworkScores{Persistence: 60, Interest: 60, Skill: 60, Cognitive: 60, AbilityToLearn: 60, RealWorldAlignment: 45},
			59,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoring.OverallScore(tt.cs, tt.fs); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecommend_Thresholds(t *testing.T) {
	tests := []struct {
		overall int
		want    scoring.Recommendation
	}{
		{100, scoring.RecommendationStrongMatch},
		{80, scoring.RecommendationStrongMatch},
		{79, scoring.RecommendationGoodPotential},
		{65, scoring.RecommendationGoodPotential},
		{64, scoring.RecommendationConsiderAlternatives},
		{0, scoring.RecommendationConsiderAlternatives},
	}
	for _, tt := range tests {
		if got := scoring.Recommend(tt.overall); got != tt.want {
			t.Errorf("Recommend(%d) = %q, want %q", tt.overall, got, tt.want)
		}
	}
}

// ─── ComputeResult ────────────────────────────────────────────────────────────

func TestComputeResult_EmptyAnswerSetUsesNeutralDefaults(t *testing.T) {
	c := defaultCatalog(t)
	res := mustCompute(t, scoring.AnswerSet{}, c)

	want := scoring.Result{
		CategoryScores: scoring.CategoryScores{
			Disposition:        60,
			DomainKnowledge:    60,
			ReadinessFramework: 57, // (4×60 + 45) / 5
		},
		FrameworkScores: scoring.FrameworkScores{
			Persistence: 60, Interest: 60, Skill: 60, Cognitive: 60, AbilityToLearn: 60,
			RealWorldAlignment: 45,
		},
		OverallScore:   59,
		Recommendation: scoring.RecommendationConsiderAlternatives,
	}
	if res != want {
		t.Errorf("got %+v\nwant %+v", res, want)
	}
}

func TestComputeResult_NilAnswerSet(t *testing.T) {
	c := defaultCatalog(t)
	res := mustCompute(t, nil, c)
	if res.OverallScore != 59 {
		t.Errorf("nil answers should behave like empty answers, got overall %d", res.OverallScore)
	}
}

func TestComputeResult_BestEverything(t *testing.T) {
	c := defaultCatalog(t)
	res := mustCompute(t, fill(c, "5", catalog.TierBest, catalog.TierAffirmative), c)

	if res.CategoryScores.Disposition != 100 || res.CategoryScores.DomainKnowledge != 100 {
		t.Errorf("category scores: %+v", res.CategoryScores)
	}
	if res.CategoryScores.ReadinessFramework != 97 {
		t.Errorf("readiness framework: got %d, want 97", res.CategoryScores.ReadinessFramework)
	}
	if res.FrameworkScores.RealWorldAlignment != 85 {
		t.Errorf("real-world alignment: got %d, want 85", res.FrameworkScores.RealWorldAlignment)
	}
	// (100 + 100 + 585/6) / 3 = 99.17 → 99
	if res.OverallScore != 99 {
		t.Errorf("overall: got %d, want 99", res.OverallScore)
	}
	if res.OverallScore < 80 || res.Recommendation != scoring.RecommendationStrongMatch {
		t.Errorf("expected Strong Match, got %d %q", res.OverallScore, res.Recommendation)
	}
}

func TestComputeResult_WorstEverything(t *testing.T) {
	c := defaultCatalog(t)
	res := mustCompute(t, fill(c, "1", catalog.TierUnfamiliar, catalog.TierNegative), c)

	// dk_smart_utility has no unfamiliar option and falls back to neutral:
	// (20 + 60 + 20 + 20) / 4 = 30
	if res.CategoryScores.DomainKnowledge != 30 {
		t.Errorf("domain knowledge: got %d, want 30", res.CategoryScores.DomainKnowledge)
	}
	if res.FrameworkScores.Skill != res.CategoryScores.DomainKnowledge {
		t.Errorf("skill %d should mirror domain knowledge %d", res.FrameworkScores.Skill, res.CategoryScores.DomainKnowledge)
	}
	// (20 + 30 + 155/6) / 3 = 25.28 → 25
	if res.OverallScore != 25 {
		t.Errorf("overall: got %d, want 25", res.OverallScore)
	}
	if res.Recommendation != scoring.RecommendationConsiderAlternatives {
		t.Errorf("expected Consider Alternatives, got %q", res.Recommendation)
	}
}

func TestComputeResult_GoodPotential(t *testing.T) {
	c := defaultCatalog(t)
	res := mustCompute(t, fill(c, "4", catalog.TierNeutral, catalog.TierNegative), c)

	// (80 + 60 + 425/6) / 3 = 70.28 → 70
	if res.OverallScore != 70 {
		t.Errorf("overall: got %d, want 70", res.OverallScore)
	}
	if res.Recommendation != scoring.RecommendationGoodPotential {
		t.Errorf("expected Good Potential, got %q", res.Recommendation)
	}
}

func TestComputeResult_DimensionsFollowDesignatedSources(t *testing.T) {
	c := defaultCatalog(t)
	answers := scoring.AnswerSet{
		catalog.IDPersistence:        "1",
		catalog.IDInterest:           "2",
		catalog.IDCognitive:          "4",
		catalog.IDAbilityToLearn:     "5",
		catalog.IDRealWorldAlignment: "Yes, that sounds exciting",
	}
	res := mustCompute(t, answers, c)

	want := scoring.FrameworkScores{
		Persistence:        20,
		Interest:           40,
		Skill:              60,
		Cognitive:          80,
		AbilityToLearn:     100,
		RealWorldAlignment: 85,
	}
	if res.FrameworkScores != want {
		t.Errorf("got %+v, want %+v", res.FrameworkScores, want)
	}
}

func TestComputeResult_LastWriteWins(t *testing.T) {
	c := defaultCatalog(t)
	answers := scoring.AnswerSet{}
	answers.Set(catalog.IDRealWorldAlignment, "Yes, that sounds exciting")
	answers.Set(catalog.IDRealWorldAlignment, "No, that seems overwhelming")

	res := mustCompute(t, answers, c)
	if res.FrameworkScores.RealWorldAlignment != 45 {
		t.Errorf("expected overwritten answer to score 45, got %d", res.FrameworkScores.RealWorldAlignment)
	}
}

func TestComputeResult_RejectsMalformedAnswers(t *testing.T) {
	c := defaultCatalog(t)
	tests := []struct {
		name    string
		answers scoring.AnswerSet
	}{
		{"scaled out of range", scoring.AnswerSet{"disp_cities": "7"}},
		{"scaled not a number", scoring.AnswerSet{catalog.IDPersistence: "often"}},
		{"unlisted option", scoring.AnswerSet{"dk_iot_protocol": "HTTP"}},
		{"binary free text", scoring.AnswerSet{catalog.IDRealWorldAlignment: "Yes"}},
		{"unknown question", scoring.AnswerSet{"ghost": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scoring.ComputeResult(tt.answers, c)
			if !errors.Is(err, scoring.ErrInvalidAnswer) {
				t.Errorf("expected ErrInvalidAnswer, got %v", err)
			}
		})
	}
}

func TestComputeResult_ConfigErrors(t *testing.T) {
	if _, err := scoring.ComputeResult(scoring.AnswerSet{}, nil); !errors.Is(err, catalog.ErrConfig) {
		t.Errorf("nil catalog: expected ErrConfig, got %v", err)
	}
	if _, err := scoring.ComputeResult(scoring.AnswerSet{}, &catalog.Catalog{}); !errors.Is(err, catalog.ErrConfig) {
		t.Errorf("empty catalog: expected ErrConfig, got %v", err)
	}
}

func TestComputeResult_DoesNotMutateAnswers(t *testing.T) {
	c := defaultCatalog(t)
	answers := scoring.AnswerSet{"disp_cities": "4"}
	_ = mustCompute(t, answers, c)
	if len(answers) != 1 || answers["disp_cities"] != "4" {
		t.Errorf("answers mutated: %v", answers)
	}
}

// ─── Properties ───────────────────────────────────────────────────────────────

// randomAnswers builds a well-formed answer set where each question is left
// unanswered about a fifth of the time.
func randomAnswers(rng *rand.Rand, c *catalog.Catalog) scoring.AnswerSet {
	answers := scoring.AnswerSet{}
	for _, q := range c.Questions() {
		if rng.Intn(5) == 0 {
			continue
		}
		if q.Type == catalog.TypeScaled {
			answers.Set(q.ID, strconv.Itoa(1+rng.Intn(5)))
			continue
		}
		answers.Set(q.ID, q.Options[rng.Intn(len(q.Options))].Text)
	}
	return answers
}

func TestComputeResult_WellFormedInputsStayInRange(t *testing.T) {
	c := defaultCatalog(t)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		answers := randomAnswers(rng, c)
		res, err := scoring.ComputeResult(answers, c)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v (answers %v)", i, err, answers)
		}
		if err := res.Validate(); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
	}
}

func TestComputeResult_Deterministic(t *testing.T) {
	c := defaultCatalog(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		answers := randomAnswers(rng, c)
		a, _ := json.Marshal(mustCompute(t, answers, c))
		b, _ := json.Marshal(mustCompute(t, answers.Clone(), c))
		if !bytes.Equal(a, b) {
			t.Fatalf("iteration %d: results differ:\n%s\n%s", i, a, b)
		}
	}
}

// ─── Result ───────────────────────────────────────────────────────────────────

func TestResult_JSONShape(t *testing.T) {
	c := defaultCatalog(t)
	b, err := json.Marshal(mustCompute(t, scoring.AnswerSet{}, c))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"categoryScores":{"disposition":60,"domainKnowledge":60,"readinessFramework":57},` +
		`"frameworkScores":{"persistence":60,"interest":60,"skill":60,"cognitive":60,"abilityToLearn":60,"realWorldAlignment":45},` +
		`"overallScore":59,"recommendation":"Consider Alternatives"}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}
}

func TestResult_Validate(t *testing.T) {
	valid := scoring.Result{OverallScore: 70, Recommendation: scoring.RecommendationGoodPotential}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		r    scoring.Result
	}{
		{"overall above 100", scoring.Result{OverallScore: 101, Recommendation: scoring.RecommendationStrongMatch}},
		{"negative category", scoring.Result{CategoryScores: scoring.CategoryScores{Disposition: -1}, Recommendation: scoring.RecommendationConsiderAlternatives}},
		{"dimension above 100", scoring.Result{FrameworkScores: scoring.FrameworkScores{Skill: 120}, Recommendation: scoring.RecommendationConsiderAlternatives}},
		{"tier mismatch", scoring.Result{OverallScore: 80, Recommendation: scoring.RecommendationGoodPotential}},
		{"unknown tier", scoring.Result{OverallScore: 10, Recommendation: "Maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(); !errors.Is(err, scoring.ErrInvalidResult) {
				t.Errorf("expected ErrInvalidResult, got %v", err)
			}
		})
	}
}

// ─── AnswerSet ────────────────────────────────────────────────────────────────

func TestAnswerSet_CloneIsIndependent(t *testing.T) {
	a := scoring.AnswerSet{"x": "1"}
	b := a.Clone()
	b.Set("x", "2")
	if v, _ := a.Get("x"); v != "1" {
		t.Errorf("original changed to %q", v)
	}
	var nilSet scoring.AnswerSet
	if cl := nilSet.Clone(); cl == nil {
		t.Error("clone of nil set should be non-nil")
	}
}
