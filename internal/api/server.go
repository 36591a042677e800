package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamaope/legalconsult/internal/consult"
	"github.com/mamaope/legalconsult/internal/llm"
	"github.com/mamaope/legalconsult/internal/markdown"
	"github.com/mamaope/legalconsult/internal/store"
)

// defaultUserID identifies the seeded local user. Authentication is handled
// upstream; this service trusts its caller.
const defaultUserID = "local"

type Server struct {
	store     *store.Store
	renderer  *markdown.Renderer
	processor *consult.Processor
	completer llm.Completer
	cache     *llm.Cache
	port      string
	tmpl      *template.Template
}

// NewServer wires the HTTP surface. completer may be nil, in which case
// message posting reports the model as unavailable.
func NewServer(st *store.Store, completer llm.Completer, cache *llm.Cache, port string) *Server {
	return &Server{
		store:     st,
		renderer:  markdown.New(),
		processor: consult.NewProcessor(),
		completer: completer,
		cache:     cache,
		port:      port,
		tmpl:      newTemplates(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/chat/", s.handleChatPage)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/sessions", s.handleSessions)
	mux.HandleFunc("/api/v1/sessions/", s.handleSession)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
