package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/newswire/apiserver/config"
	"github.com/newswire/apiserver/internal/db"
	"github.com/newswire/apiserver/internal/events"
	"github.com/newswire/apiserver/internal/handlers"
	"github.com/newswire/apiserver/internal/notify"
	"github.com/newswire/apiserver/internal/services"
	"github.com/newswire/apiserver/internal/social"
	"github.com/newswire/apiserver/internal/storage"
	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/internal/worker"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *events.Bus
}

// New constructs a Server with all dependencies wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	publisherRepo := store.NewPublisherRepository(dbConn)
	articleRepo := store.NewArticleRepository(dbConn)
	newsletterRepo := store.NewNewsletterRepository(dbConn)
	subscriptionRepo := store.NewSubscriptionRepository(dbConn)
	connectionRepo := store.NewConnectionRepository(dbConn)
	resetTokenRepo := store.NewResetTokenRepository(dbConn)

	backend, err := events.NewBackend(ctx, cfg.Events, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	bus := events.NewBus(backend)

	objectStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		_ = bus.Close()
		return nil, err
	}
	if objectStore != nil {
		if err := objectStore.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			_ = bus.Close()
			return nil, err
		}
	}

	notifier := &notify.Notifier{}
	err = notifier.Init(
		notify.WithSender(cfg.Mail.Sender),
		notify.WithKeys(cfg.Mail.PublicKey, cfg.Mail.PrivateKey),
		notify.WithLogger(logger),
	)
	if err != nil {
		_ = dbConn.Close()
		_ = bus.Close()
		return nil, err
	}

	userService := services.NewUserService(userRepo, publisherRepo)
	publisherService := services.NewPublisherService(publisherRepo)
	articleService := services.NewArticleService(articleRepo, publisherRepo)
	newsletterService := services.NewNewsletterService(newsletterRepo, publisherRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, publisherRepo)
	feedService := services.NewFeedService(articleRepo, newsletterRepo, subscriptionRepo)
	approvalService := services.NewApprovalService(
		articleRepo, newsletterRepo, userRepo, publisherRepo, bus, logger, cfg.PublicBaseURL)
	connectionService := services.NewConnectionService(connectionRepo)
	resetService := services.NewResetService(userRepo, resetTokenRepo, notifier, logger)

	// Without a broker the side effects run in-process off the inline
	// backend; with one, a separate worker process consumes them.
	if cfg.Events.Backend == "" || cfg.Events.Backend == "inline" {
		effects := &worker.SideEffects{
			Recipients:  subscriptionRepo,
			Connections: connectionRepo,
			Notifier:    notifier,
			Poster:      social.NewPoster(),
			Logger:      logger,
		}
		go func() {
			if err := bus.SubscribeApprovals(ctx, effects.Handle); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("inline side-effect consumer stopped", "error", err)
			}
		}()
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		_ = bus.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)
	actorMiddleware := handlers.RequireActor(userService)

	articleHandler := handlers.NewArticleHandler(articleService, feedService, approvalService, objectStore)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService, feedService, approvalService)
	publisherHandler := handlers.NewPublisherHandler(publisherService)
	journalistHandler := handlers.NewJournalistHandler(userService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	feedHandler := handlers.NewFeedHandler(feedService)
	socialHandler := handlers.NewSocialHandler(connectionService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Get("/info", handlers.Info)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, resetService, jwtSecret)
	})
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware, actorMiddleware)
		r.Route("/articles", func(r chi.Router) {
			handlers.ArticleRouter(r, articleHandler)
		})
		r.Route("/newsletters", func(r chi.Router) {
			handlers.NewsletterRouter(r, newsletterHandler)
		})
		r.Route("/publishers", func(r chi.Router) {
			handlers.PublisherRouter(r, publisherHandler)
		})
		r.Route("/journalists", func(r chi.Router) {
			handlers.JournalistRouter(r, journalistHandler)
		})
		r.Route("/subscriptions", func(r chi.Router) {
			handlers.SubscriptionRouter(r, subscriptionHandler)
		})
		r.Route("/feed", func(r chi.Router) {
			handlers.FeedRouter(r, feedHandler)
		})
		r.Route("/social", func(r chi.Router) {
			handlers.SocialRouter(r, socialHandler)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.bus != nil {
		_ = s.bus.Close()
	}
	return s.httpServer.Close()
}
