package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// ─── GET /api/session/:sessionID/progress ────────────────────────────────────
//
// Drives the question-by-question shell. ?index=N names the question on
// screen; without it the first unanswered question is used (the last
// question once everything is answered).

type progressResponse struct {
	QuestionIndex  int    `json:"question_index"`
	QuestionID     string `json:"question_id"`
	NextQuestionID string `json:"next_question_id,omitempty"`
	Answered       int    `json:"answered"`
	Total          int    `json:"total"`
	// Percent is the position of the current question, (index+1)/total,
	// rounded to a whole number.
	Percent    int  `json:"percent"`
	CanGoBack  bool `json:"can_go_back"`
	CanProceed bool `json:"can_proceed"`
	IsLast     bool `json:"is_last"`
	Submitted  bool `json:"submitted"`
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	total := s.catalog.Len()
	if total == 0 {
		s.respondInternalErr(w, r, fmt.Errorf("progress: catalog is empty"))
		return
	}

	answers, err := s.store.GetAnswers(r.Context(), session.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("progress: %w", err))
		return
	}

	questions := s.catalog.Questions()
	answered := 0
	firstOpen := -1
	for i, q := range questions {
		if _, ok := answers.Get(q.ID); ok {
			answered++
		} else if firstOpen < 0 {
			firstOpen = i
		}
	}

	index := firstOpen
	if index < 0 {
		index = total - 1
	}
	if raw := r.URL.Query().Get("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n >= total {
			respondErr(w, http.StatusBadRequest, fmt.Sprintf("index must be an integer in [0,%d]", total-1))
			return
		}
		index = n
	}

	current := questions[index]
	_, currentAnswered := answers.Get(current.ID)

	resp := progressResponse{
		QuestionIndex: index,
		QuestionID:    current.ID,
		Answered:      answered,
		Total:         total,
		Percent:       int(float64((index+1)*100)/float64(total) + 0.5),
		CanGoBack:     index > 0,
		CanProceed:    currentAnswered && !session.Submitted(),
		IsLast:        index == total-1,
		Submitted:     session.Submitted(),
	}
	if !resp.IsLast {
		resp.NextQuestionID = questions[index+1].ID
	}

	respond(w, http.StatusOK, resp)
}
