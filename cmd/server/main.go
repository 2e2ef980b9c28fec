// TechPal - AI Computer Helper for Seniors
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/techpal/techpal/internal/agent"
	"github.com/techpal/techpal/internal/assistant"
	"github.com/techpal/techpal/internal/config"
	"github.com/techpal/techpal/internal/identity"
	"github.com/techpal/techpal/internal/mail"
	"github.com/techpal/techpal/internal/middleware"
	"github.com/techpal/techpal/internal/model"
	"github.com/techpal/techpal/internal/platform"
	"github.com/techpal/techpal/internal/scam"
	"github.com/techpal/techpal/internal/search"
	"github.com/techpal/techpal/internal/store"
	"github.com/techpal/techpal/internal/tools"
	"github.com/techpal/techpal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Model client. Without an API key the assistant degrades to friendly
	// fallback replies, so startup proceeds either way.
	client := model.NewAnthropicClient(cfg.AnthropicAPIKey, nil)
	if !client.Available() {
		slog.Warn("ANTHROPIC_API_KEY not set, assistant replies will be degraded")
	}

	searcher := search.NewDuckDuckGo(nil)
	host := platform.NewHost()
	mailbox := mail.NewFixture()

	scanner := scam.NewScanner(cfg.DangerousFlagCount)
	evaluator := scam.NewEvaluator(scanner, client, searcher, cfg.ModelName)

	registry, err := tools.DefaultRegistry(tools.RosterDeps{
		Capabilities: host,
		Mailbox:      mailbox,
		Scanner:      scanner,
		Evaluator:    evaluator,
		Search:       searcher,
		Phone:        tools.NewPhoneController(cfg.PhoneServerURL, nil),
		Sent:         repo,
		UserID:       identity.UserIDFromContext,
		NotesDir:     cfg.NotesDir,
		DownloadsDir: cfg.DownloadsDir,
		DocumentsDir: cfg.DocumentsDir,
	})
	if err != nil {
		slog.Error("Failed to build tool registry", "error", err)
		os.Exit(1)
	}
	slog.Info("Tool registry built", "tools", registry.Len())

	runner := assistant.NewRunner(client, registry, tools.NewDispatcher(registry),
		cfg.ModelName, cfg.MaxTokens, cfg.MaxToolRounds)
	chatService := assistant.NewService(repo, runner, cfg.MaxHistoryEntries)
	familyService := assistant.NewFamilyService(repo, runner, cfg.SMSReplyMaxChars)

	// Initialize handlers.
	agentHandler := agent.NewHandler(chatService, familyService)
	wsHandler := agent.NewWebSocketHandler(chatService, repo, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	// SMS webhooks authenticate by phone number, not browser identity.
	agentHandler.RegisterWebhookRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

		agentHandler.RegisterRoutes(r)

		r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
			if err := repo.Ping(req.Context()); err != nil {
				agent.Error(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
			agent.JSON(w, http.StatusOK, map[string]any{
				"status":        "ok",
				"ai_enabled":    client.Available(),
				"tool_count":    registry.Len(),
				"phone_control": cfg.PhoneServerURL != "",
			})
		})

		// WebSocket endpoint.
		r.Get("/ws/chat", wsHandler.ServeHTTP)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // model calls with tool rounds can run long
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Expired sessions are swept periodically so abandoned tabs don't
	// accumulate conversation state.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := repo.CleanupExpiredSessions(ctx, cfg.SessionTTL)
				if err != nil {
					slog.Warn("Session cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					slog.Info("Expired sessions cleaned up", "count", deleted)
				}
			}
		}
	}()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
