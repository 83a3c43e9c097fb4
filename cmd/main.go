// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tixify/tixify-server/internal/auth"
	"github.com/tixify/tixify-server/internal/config"
	"github.com/tixify/tixify-server/internal/database"
	"github.com/tixify/tixify-server/internal/handler"
	"github.com/tixify/tixify-server/internal/monitoring"
	"github.com/tixify/tixify-server/internal/repository"
	"github.com/tixify/tixify-server/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// ── 1. Connect to MongoDB ────────────────────────────────────────────
	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	logger.Info().Str("database", cfg.MongoDB).Msg("connected to mongodb")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("index creation failed")
	}

	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo)
	bookingSvc := service.NewBookingService(bookingRepo, cfg.EnforceBookingOwnership)
	paymentSvc := service.NewPaymentService(paymentRepo)

	tokens := auth.NewManager(cfg.AccessTokenSecret, cfg.TokenTTL)

	authmw := handler.NewAuth(tokens, userSvc, logger)
	tokenHandler := handler.NewTokenHandler(tokens)
	userHandler := handler.NewUserHandler(userSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)

	// ── 3. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.AccessLog(logger))
	r.Use(handler.CORS)
	if cfg.EnableMetrics {
		r.Use(monitoring.Middleware)
		r.Method(http.MethodGet, "/metrics", monitoring.Handler())
	}

	r.Get("/", handler.Root)
	r.Get("/health", handler.Health(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}))

	// Token issuance
	r.Post("/jwt", tokenHandler.Issue)

	// Users
	r.Post("/saveUser", userHandler.Register)
	if cfg.PublicUserListing {
		// Named policy decision: the social-login listing route is
		// historically unauthenticated. Disable via PUBLIC_USER_LISTING.
		r.Get("/saveUser", userHandler.List)
	} else {
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Get("/saveUser", userHandler.List)
	}
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Get("/", userHandler.List)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Delete("/{id}", userHandler.Delete)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Patch("/admin/{id}", userHandler.Promote)
		r.With(authmw.RequireAuth).Get("/admin/{email}", userHandler.AdminStatus)
	})

	// Events: reads are public, writes are admin-only.
	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/{eventId}", eventHandler.Get)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Post("/", eventHandler.Create)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Put("/{id}", eventHandler.Update)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Delete("/{id}", eventHandler.Delete)
	})

	// Bookings: every route requires authentication.
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authmw.RequireAuth)
		r.Get("/event/{eventId}", bookingHandler.ListByEvent)
		r.Get("/", bookingHandler.ListSelf)
		r.Post("/", bookingHandler.Create)
		r.Delete("/{id}", bookingHandler.Delete)
	})

	// Payments
	r.With(authmw.RequireAuth).Post("/payments", paymentHandler.Create)

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
