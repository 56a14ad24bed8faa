package api

import (
	"net/http"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
)

// ─── GET /api/catalog ─────────────────────────────────────────────────────────

// questionView is the public shape of a question. Option tiers are scoring
// internals and are never sent to the client.
type questionView struct {
	Index    int                  `json:"index"`
	ID       string               `json:"id"`
	Type     catalog.QuestionType `json:"type"`
	Category catalog.Category     `json:"category"`
	Section  string               `json:"section"`
	Prompt   string               `json:"prompt"`
	Scale    *scaleView           `json:"scale,omitempty"`
	Options  []string             `json:"options,omitempty"`
}

type scaleView struct {
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Low  string `json:"low"`
	High string `json:"high"`
}

type catalogResponse struct {
	Total     int            `json:"total"`
	Questions []questionView `json:"questions"`
}

func newQuestionView(i int, q catalog.Question) questionView {
	v := questionView{
		Index:    i,
		ID:       q.ID,
		Type:     q.Type,
		Category: q.Category,
		Section:  q.Section,
		Prompt:   q.Prompt,
		Options:  q.OptionTexts(),
	}
	if q.Scale != nil {
		v.Scale = &scaleView{
			Min:  catalog.ScaleMin,
			Max:  catalog.ScaleMax,
			Low:  q.Scale.Low,
			High: q.Scale.High,
		}
	}
	return v
}

// handleGetCatalog lists the questions in presentation order. The optional
// ?category= filter narrows the list; Total always counts the whole catalog
// so progress maths on the client stays consistent.
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Category(r.URL.Query().Get("category"))
	if filter != "" && !knownCategory(filter) {
		respondErr(w, http.StatusBadRequest, "unknown category")
		return
	}

	questions := s.catalog.Questions()
	views := make([]questionView, 0, len(questions))
	for i, q := range questions {
		if filter != "" && q.Category != filter {
			continue
		}
		views = append(views, newQuestionView(i, q))
	}

	respond(w, http.StatusOK, catalogResponse{
		Total:     len(questions),
		Questions: views,
	})
}

func knownCategory(c catalog.Category) bool {
	for _, known := range catalog.Categories {
		if c == known {
			return true
		}
	}
	return false
}
