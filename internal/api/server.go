// Package api exposes the companion core over a REST and websocket surface.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cardvault/ptcg-companion/internal/api/handlers"
	"github.com/cardvault/ptcg-companion/internal/api/websocket"
	"github.com/cardvault/ptcg-companion/internal/cards/tcgapi"
	"github.com/cardvault/ptcg-companion/internal/collection"
	"github.com/cardvault/ptcg-companion/internal/deck"
	"github.com/cardvault/ptcg-companion/internal/events"
	"github.com/cardvault/ptcg-companion/internal/gamification"
	"github.com/cardvault/ptcg-companion/internal/settings"
	"github.com/cardvault/ptcg-companion/internal/version"
	"github.com/cardvault/ptcg-companion/internal/wishlist"
)

// Config holds configuration for the API server.
type Config struct {
	Port           int
	AllowedOrigins []string
	ExportDir      string
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8474,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

// Deps are the services the API serves.
type Deps struct {
	Collection *collection.Store
	Decks      *deck.Store
	Wishlist   *wishlist.Store
	Settings   *settings.Store
	Cards      handlers.CardSource
	Remote     *tcgapi.Client // optional remote card API fallback
	Dispatcher *events.Dispatcher
	Tracker    *gamification.Tracker
	Persister  handlers.Persister
}

// Server is the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	wsHub      *websocket.Hub
	deps       Deps
	evaluator  *handlers.BadgeEvaluator
}

// NewServer creates an API server wired to the given services.
func NewServer(cfg *Config, deps Deps) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router: chi.NewRouter(),
		port:   cfg.Port,
		wsHub:  websocket.NewHub(cfg.AllowedOrigins),
		deps:   deps,
	}
	s.evaluator = handlers.NewBadgeEvaluator(deps.Collection, deps.Cards, deps.Tracker, deps.Persister)

	s.setupMiddleware(cfg)
	s.setupRoutes(cfg)

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg *Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json for requests with bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// healthCheck reports server liveness and version.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","version":%q,"clients":%d}`, version.GetVersion(), s.wsHub.ClientCount())
}

// Start starts the websocket hub and HTTP listener. Non-blocking.
func (s *Server) Start() error {
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("[API] Server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[API] Server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the HTTP listener and the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	log.Println("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the hub for observer registration.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
