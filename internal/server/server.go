// Package server provides the web front-end of the support chatbot.
package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"supportbot/internal/models"
	"supportbot/internal/ticket"
)

const sessionCookie = "supportbot_session"

// Asker answers a question within a conversation and returns the extended
// conversation.
type Asker interface {
	Ask(ctx context.Context, conv models.Conversation, question string) (models.Conversation, models.Turn, error)
}

type Server struct {
	asker    Asker
	sessions *SessionStore
	tickets  *ticket.Printer
	sources  []string
	md       goldmark.Markdown
	newID    func() (string, error)
	server   *http.Server
}

func NewServer(addr string, asker Asker, tickets *ticket.Printer, sources []string, newID func() (string, error)) *Server {
	s := &Server{
		asker:    asker,
		sessions: NewSessionStore(),
		tickets:  tickets,
		sources:  sources,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		newID:    newID,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/ask", s.handleAsk)
	r.Post("/tickets/{turn}", s.handleTicket)
	r.Get("/api/history", s.handleHistory)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	return r
}

// Start serves until the server is stopped. It returns nil right away if
// Stop already ran.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("Support chatbot available")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server. It is safe to call before or
// concurrently with Start.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
