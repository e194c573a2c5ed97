package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/protoquiz/internal/quiz"
)

// BankSummary describes one bank in the catalogue listing.
type BankSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Description string `json:"description,omitempty"`
	Questions   int    `json:"questions"`
}

func summarize(b quiz.Bank) BankSummary {
	return BankSummary{ID: b.ID, Title: b.Title, Topic: b.Topic, Description: b.Description, Questions: b.Len()}
}

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	all := s.banks.All()
	out := make([]BankSummary, len(all))
	for i, b := range all {
		out[i] = summarize(b)
	}
	respondJSON(w, http.StatusOK, map[string]any{"banks": out})
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	b, err := s.banks.Get(chi.URLParam(r, "bank"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	v, err := s.view(s.visitorID(w, r), b)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

type actionRequest struct {
	Action string `json:"action"`
	Option *int   `json:"option"`
}

func decodeAction(w http.ResponseWriter, r *http.Request) (quiz.Action, error) {
	var req actionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return quiz.Action{}, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	kind, err := quiz.ParseActionKind(req.Action)
	if err != nil {
		return quiz.Action{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	a := quiz.Action{Kind: kind}
	if kind == quiz.ActionSelect {
		if req.Option == nil {
			return quiz.Action{}, fmt.Errorf("%w: select requires option", errBadRequest)
		}
		a.Option = *req.Option
	}
	return a, nil
}

// handlePostAction applies one action. On rejection the error body is
// returned and the engine is unchanged.
func (s *Server) handlePostAction(w http.ResponseWriter, r *http.Request) {
	b, err := s.banks.Get(chi.URLParam(r, "bank"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	a, err := decodeAction(w, r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	v, err := s.apply(r.Context(), s.visitorID(w, r), b, a)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}
