package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"supportbot/internal/models"
	"supportbot/internal/rag"
	"supportbot/internal/ticket"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	conv, err := s.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	var notice string
	if n := r.URL.Query().Get("ticket"); n != "" {
		notice = fmt.Sprintf("Support ticket created for question %s.", n)
	}
	s.render(w, http.StatusOK, conv, "", notice)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	conv, err := s.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	question := r.FormValue("question")
	conv, err = s.sessions.Update(conv.ID, func(current models.Conversation) (models.Conversation, error) {
		next, _, err := s.asker.Ask(r.Context(), current, question)
		return next, err
	})
	if err != nil {
		status, msg := askFailure(err)
		log.Error().Err(err).Str("session", conv.ID).Msg("Failed to answer question")
		s.render(w, status, conv, msg, "")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTicket(w http.ResponseWriter, r *http.Request) {
	conv, err := s.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	n, err := strconv.Atoi(chi.URLParam(r, "turn"))
	if err != nil || n < 0 || n >= conv.Len() {
		http.Error(w, "Turn not found", http.StatusNotFound)
		return
	}
	turn := conv.Turns[n]
	if !turn.Escalate {
		http.Error(w, "Turn does not offer escalation", http.StatusConflict)
		return
	}

	s.tickets.Create(ticket.New(turn.Question, turn.Answer))
	http.Redirect(w, r, fmt.Sprintf("/?ticket=%d", n+1), http.StatusSeeOther)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	conv, err := s.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(conv); err != nil {
		log.Error().Err(err).Msg("Unable to encode history")
	}
}

// session loads the caller's conversation, issuing a new session cookie when
// the request has none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (models.Conversation, error) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return s.sessions.Get(c.Value), nil
	}

	id, err := s.newID()
	if err != nil {
		return models.Conversation{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return models.Conversation{ID: id}, nil
}

func (s *Server) render(w http.ResponseWriter, status int, conv models.Conversation, errMsg, notice string) {
	data := pageData{Sources: s.sources, Error: errMsg, Notice: notice}

	// newest first
	for i := conv.Len() - 1; i >= 0; i-- {
		t := conv.Turns[i]
		pt := pageTurn{
			Index:    i,
			Question: t.Question,
			Answer:   s.renderMarkdown(t.Answer),
			Escalate: t.Escalate,
		}
		for _, c := range t.Citations {
			pt.Sources = append(pt.Sources, pageSource{Source: c.Source, Page: c.Page})
		}
		data.Turns = append(data.Turns, pt)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Unable to render page")
	}
}

func askFailure(err error) (int, string) {
	switch {
	case errors.Is(err, rag.ErrEmptyQuestion):
		return http.StatusBadRequest, "Please enter a question."
	case models.KindOf(err) == models.KindBackendUnavailable:
		return http.StatusBadGateway, "The answer service is unavailable right now. Please try again later."
	default:
		return http.StatusInternalServerError, "Something went wrong while answering your question."
	}
}
