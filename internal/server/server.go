// Package server provides the HTTP REST API for resume studio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-studio/internal/chat"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	llm         llm.Client
	exporter    *export.PDFExporter
	limiter     *ratelimit.Limiter
	pending     *chat.PendingStore
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance
func New(ctx context.Context, cfg *config.Config, client llm.Client) (*Server, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	flagStore, err := chat.NewFileFlagStore(cfg.PendingStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pending store: %w", err)
	}

	s := &Server{
		db:       database,
		llm:      client,
		exporter: export.NewPDFExporter(),
		limiter:  ratelimit.NewLimiter(database, cfg.DailyGenerationCap),
		pending:  chat.NewPendingStore(flagStore, 0),
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// Public routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// Authenticated routes
	authed := http.NewServeMux()
	authed.HandleFunc("POST /resumes", s.handleCreateResume)
	authed.HandleFunc("GET /resumes", s.handleListResumes)
	authed.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	authed.HandleFunc("PUT /resumes/{id}/data", s.handleUpdateResumeData)
	authed.HandleFunc("PUT /resumes/{id}/style", s.handleUpdateResumeStyle)
	authed.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)

	authed.HandleFunc("GET /resumes/{id}/document", s.handleRenderDocument)
	authed.HandleFunc("GET /resumes/{id}/export", s.handleExportPDF)

	authed.HandleFunc("POST /resumes/{id}/modifications", s.handleApplyModifications)
	authed.HandleFunc("POST /resumes/{id}/chat", s.handleChatEdit)
	authed.HandleFunc("GET /resumes/{id}/chat", s.handleChatHistory)

	authed.HandleFunc("POST /resumes/{id}/analysis", s.handleGenerateAnalysis)
	authed.HandleFunc("GET /resumes/{id}/analysis", s.handleGetAnalysis)
	authed.HandleFunc("GET /resumes/{id}/analysis/count", s.handleCountAnalyses)
	authed.HandleFunc("POST /resumes/{id}/rewrite", s.handleGenerateRewrite)
	authed.HandleFunc("GET /resumes/{id}/rewrite", s.handleGetRewrite)
	authed.HandleFunc("GET /resumes/{id}/rewrite/count", s.handleCountRewrites)
	authed.HandleFunc("POST /resumes/{id}/cover-letter", s.handleGenerateCoverLetter)
	authed.HandleFunc("GET /resumes/{id}/cover-letter", s.handleGetCoverLetter)
	authed.HandleFunc("GET /resumes/{id}/cover-letter/count", s.handleCountCoverLetters)
	authed.HandleFunc("POST /resumes/{id}/skill-map", s.handleGenerateSkillMap)
	authed.HandleFunc("GET /resumes/{id}/skill-map", s.handleGetSkillMap)
	authed.HandleFunc("GET /resumes/{id}/skill-map/count", s.handleCountSkillMaps)
	authed.HandleFunc("POST /resumes/{id}/tailor", s.handleTailorBundle)

	authed.HandleFunc("GET /usage/{feature}", s.handleGetUsage)

	mux.Handle("/", middleware.Auth(s.jwtService.AsTokenValidator())(authed))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export holds the connection
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
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

	s.db.Close()
	if s.llm != nil {
		_ = s.llm.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
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

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
