package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/protoquiz/internal/logging"
	"github.com/abhisek/protoquiz/internal/quiz"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"letter":  func(i int) string { return string(rune('A' + i)) },
	"percent": func(p float64) int { return int(p*100 + 0.5) },
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

type indexPage struct {
	Banks []BankSummary
}

type quizPage struct {
	View  quiz.View
	Flash string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log := logging.FromContext(r.Context())
		log.Error().Err(err).Str("template", name).Msg("render")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var page indexPage
	for _, b := range s.banks.All() {
		page.Banks = append(page.Banks, summarize(b))
	}
	s.render(w, r, http.StatusOK, "index.html", page)
}

func (s *Server) handleQuizPage(w http.ResponseWriter, r *http.Request) {
	b, err := s.banks.Get(chi.URLParam(r, "bank"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	v, err := s.view(s.visitorID(w, r), b)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, "quiz.html", quizPage{View: v})
}

// handleQuizAction is the form endpoint. Accepted actions redirect back to
// the quiz page; rejected ones re-render it with a flash message.
func (s *Server) handleQuizAction(w http.ResponseWriter, r *http.Request) {
	b, err := s.banks.Get(chi.URLParam(r, "bank"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	kind, err := quiz.ParseActionKind(chi.URLParam(r, "action"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a := quiz.Action{Kind: kind}
	if kind == quiz.ActionSelect {
		opt, err := strconv.Atoi(r.FormValue("option"))
		if err != nil {
			http.Error(w, "option must be an integer", http.StatusBadRequest)
			return
		}
		a.Option = opt
	}

	v, err := s.apply(r.Context(), s.visitorID(w, r), b, a)
	if err != nil {
		status, _ := classify(err)
		if status == http.StatusInternalServerError {
			http.Error(w, "internal error", status)
			return
		}
		s.render(w, r, status, "quiz.html", quizPage{View: v, Flash: flashFor(err)})
		return
	}
	http.Redirect(w, r, "/quiz/"+b.ID, http.StatusSeeOther)
}

func flashFor(err error) string {
	_, code := classify(err)
	switch code {
	case CodeInvalidOptionIndex:
		return "That option does not exist."
	case CodeIllegalTransition:
		return "That action is not available right now."
	default:
		return err.Error()
	}
}
