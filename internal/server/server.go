// Package server provides the HTTP surface of the scam job detection front
// end: the form page, the predict/explain actions, and the link-preview page.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/scamjob-detector/internal/catalog"
	"github.com/jonathan/scamjob-detector/internal/detector"
	"github.com/jonathan/scamjob-detector/internal/preview"
	"github.com/jonathan/scamjob-detector/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionCookie names the cookie carrying the anonymous session ID.
const SessionCookie = "sjd_session"

type contextKey string

const sessionContextKey contextKey = "session_id"

// Server wires the catalog, the model service client, the session store and
// the preview fetcher behind HTTP handlers.
type Server struct {
	httpServer *http.Server
	catalog    *catalog.Catalog
	detector   *detector.Client
	sessions   session.Store
	previews   *preview.Fetcher
	templates  *template.Template
}

// Config holds the server's collaborators. All fields are required.
type Config struct {
	Port     int
	Catalog  *catalog.Catalog
	Detector *detector.Client
	Sessions session.Store
	Previews *preview.Fetcher
}

// New creates a server instance.
func New(cfg Config) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		catalog:   cfg.Catalog,
		detector:  cfg.Detector,
		sessions:  cfg.Sessions,
		previews:  cfg.Previews,
		templates: tmpl,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /explain", s.handleExplain)
	mux.HandleFunc("GET /preview", s.handlePreviewPage)
	mux.HandleFunc("POST /preview", s.handlePreview)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withSession(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withSession ensures every request carries a session ID cookie. The ID is an
// anonymous uuid used only to scope the cached prediction; it authenticates
// nothing.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			sid = c.Value
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// sessionID returns the session ID the middleware put on the context.
func sessionID(r *http.Request) string {
	if sid, ok := r.Context().Value(sessionContextKey).(string); ok {
		return sid
	}
	return ""
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// render writes a template with the given status; template failures become a
// plain 500 since there is nothing left to render with.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}
