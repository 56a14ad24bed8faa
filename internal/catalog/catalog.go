package catalog

import (
	"errors"
	"fmt"
)

// ErrConfig marks a catalog authoring mistake. It is fatal at startup: a
// server must refuse to serve scoring requests against an invalid catalog.
var ErrConfig = errors.New("catalog: configuration error")

// Catalog is an immutable, ordered question list with an id index.
// The zero value is an empty catalog; scoring rejects it with ErrConfig.
type Catalog struct {
	questions []Question
	index     map[string]int
	sources   Sources
}

// New validates questions and sources and returns a Catalog that preserves
// the given order. The slice is copied; later changes by the caller are not
// observed.
func New(questions []Question, sources Sources) (*Catalog, error) {
	if err := validate(questions, sources); err != nil {
		return nil, err
	}

	c := &Catalog{
		questions: make([]Question, len(questions)),
		index:     make(map[string]int, len(questions)),
		sources:   sources,
	}
	for i, q := range questions {
		c.questions[i] = q.clone()
		c.index[q.ID] = i
	}
	return c, nil
}

// Len reports the total number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

// Questions returns every question in catalog order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.clone()
	}
	return out
}

// At returns the question at position i in catalog order.
func (c *Catalog) At(i int) (Question, bool) {
	if i < 0 || i >= len(c.questions) {
		return Question{}, false
	}
	return c.questions[i].clone(), true
}

// ByCategory returns the questions of one category, in catalog order.
func (c *Catalog) ByCategory(cat Category) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Category == cat {
			out = append(out, q.clone())
		}
	}
	return out
}

// Lookup returns the question with the given id.
func (c *Catalog) Lookup(id string) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i].clone(), true
}

// Sources returns the designated dimension source ids.
func (c *Catalog) Sources() Sources { return c.sources }

// ─── VALIDATION ──────────────────────────────────────────────────────────────

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// validate runs every structural check on a candidate catalog and returns
// the first failure wrapped in ErrConfig.
func validate(questions []Question, sources Sources) error {
	seen := make(map[string]Question, len(questions))
	perCategory := make(map[Category]int, len(Categories))

	for i, q := range questions {
		if q.ID == "" {
			return configErr("question %d: empty id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return configErr("duplicate question id %q", q.ID)
		}
		if err := validateQuestion(q); err != nil {
			return err
		}
		seen[q.ID] = q
		perCategory[q.Category]++
	}

	for _, cat := range Categories {
		if perCategory[cat] == 0 {
			return configErr("category %q has no questions", cat)
		}
	}

	for _, src := range []struct {
		role string
		id   string
		want QuestionType
	}{
		{"persistence", sources.Persistence, TypeScaled},
		{"interest", sources.Interest, TypeScaled},
		{"cognitive", sources.Cognitive, TypeScaled},
		{"ability_to_learn", sources.AbilityToLearn, TypeScaled},
		{"real_world_alignment", sources.RealWorldAlignment, TypeBinary},
	} {
		q, ok := seen[src.id]
		if !ok {
			return configErr("%s source %q not in catalog", src.role, src.id)
		}
		if q.Type != src.want {
			return configErr("%s source %q: type %s, want %s", src.role, src.id, q.Type, src.want)
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	switch q.Category {
	case CategoryDisposition, CategoryDomainKnowledge, CategoryReadinessFramework:
	default:
		return configErr("question %q: unknown category %q", q.ID, q.Category)
	}

	switch q.Type {
	case TypeScaled:
		if q.Scale == nil {
			return configErr("question %q: scaled question without scale bounds", q.ID)
		}
		if len(q.Options) != 0 {
			return configErr("question %q: scaled question must not list options", q.ID)
		}
		return nil

	case TypeSingleChoice:
		if err := validateOptions(q); err != nil {
			return err
		}
		best := 0
		for _, o := range q.Options {
			switch o.Tier {
			case TierBest:
				best++
			case TierNeutral, TierUnfamiliar:
			default:
				return configErr("question %q: option %q has tier %q, not valid for single-choice", q.ID, o.Text, o.Tier)
			}
		}
		if best != 1 {
			return configErr("question %q: want exactly one best option, got %d", q.ID, best)
		}
		return nil

	case TypeBinary:
		if err := validateOptions(q); err != nil {
			return err
		}
		if len(q.Options) != 2 {
			return configErr("question %q: binary question needs exactly 2 options, got %d", q.ID, len(q.Options))
		}
		a, b := q.Options[0].Tier, q.Options[1].Tier
		if !(a == TierAffirmative && b == TierNegative) && !(a == TierNegative && b == TierAffirmative) {
			return configErr("question %q: binary options must be one affirmative and one negative", q.ID)
		}
		return nil

	default:
		return configErr("question %q: unknown type %q", q.ID, q.Type)
	}
}

func validateOptions(q Question) error {
	if q.Scale != nil {
		return configErr("question %q: %s question must not carry scale bounds", q.ID, q.Type)
	}
	if len(q.Options) < 2 {
		return configErr("question %q: needs at least 2 options, got %d", q.ID, len(q.Options))
	}
	texts := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if o.Text == "" {
			return configErr("question %q: empty option text", q.ID)
		}
		if _, dup := texts[o.Text]; dup {
			return configErr("question %q: duplicate option %q", q.ID, o.Text)
		}
		texts[o.Text] = struct{}{}
	}
	return nil
}
