package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/config"
	"github.com/hebed-ai/hebed/internal/database"
	"github.com/hebed-ai/hebed/internal/eventlog"
	"github.com/hebed-ai/hebed/internal/logging"
	"github.com/hebed-ai/hebed/internal/notify"
	"github.com/hebed-ai/hebed/internal/payment"
	"github.com/hebed-ai/hebed/internal/repository"
	"github.com/hebed-ai/hebed/internal/server"
	"github.com/hebed-ai/hebed/internal/service"
	"github.com/hebed-ai/hebed/internal/storage"
	"github.com/hebed-ai/hebed/internal/webhook"
)

type claimer interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

type documentStore interface {
	Upload(ctx context.Context, campaignID int64, filename, contentType string, reader io.Reader) (string, error)
	URL(key string) (string, error)
}

func main() {
	ctx := context.Background()

	// Load configuration from environment variables
	cfg, err := config.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	logging.Setup(cfg.App)
	log.Infof("starting hebed in %s mode", cfg.App.Environment)

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("error closing database connections")
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	var (
		campaigns     = repository.NewCampaignRepository(db.Postgres)
		investments   = repository.NewInvestmentRepository(db.Postgres)
		profiles      = repository.NewProfileRepository(db.Postgres)
		watchlist     = repository.NewWatchlistRepository(db.Postgres)
		subscriptions = repository.NewSubscriptionRepository(db.Postgres)
	)

	gateway := payment.NewStripe(cfg.Stripe.SecretKey, cfg.Stripe.Currency)

	// Outgoing email
	var sender notify.Sender = notify.LogSender{}
	if cfg.Mail.Host != "" {
		smtp, err := notify.NewSMTP(cfg.Mail)
		if err != nil {
			log.WithError(err).Fatal("failed to configure SMTP")
		}
		sender = smtp
	} else {
		log.Warn("MAIL_HOST is not set, emails will only be logged")
	}
	queue := notify.NewQueue(sender, cfg.Mail.QueueSize)
	notifier := notify.NewNotifier(queue, cfg.App.PublicURL)

	// Webhook replay guard
	var events claimer = eventlog.Noop{}
	if cfg.Redis.URL != "" {
		redis, err := eventlog.NewRedis(cfg.Redis.URL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to Redis")
		}
		defer redis.Close()
		events = redis
	}

	// Pitch deck uploads need object storage
	var documents documentStore
	if cfg.Storage.Bucket != "" {
		objects, err := storage.NewS3(cfg.Storage)
		if err != nil {
			log.WithError(err).Fatal("failed to configure object storage")
		}
		documents = objects
	}
	campaignServer := service.NewCampaignServer(campaigns, profiles, documents)

	svc := server.Services{
		Investments:     service.NewInvestmentServer(investments, campaigns, profiles, gateway, notifier),
		Campaigns:       campaignServer,
		Profiles:        service.NewProfileServer(profiles),
		Watchlist:       service.NewWatchlistServer(watchlist, campaigns, profiles),
		Billing:         service.NewBillingServer(subscriptions, gateway, cfg.Stripe.PriceForTier, cfg.App.PublicURL),
		Recommendations: service.NewRecommendationServer(campaigns, profiles),
		Webhook:         webhook.New(cfg.Stripe.WebhookSecret, investments, subscriptions, events).Handle,
	}

	if documents != nil {
		svc.PitchDecks = campaignServer
	}

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	router := server.NewRouter(cfg.Server, verifier, db.Postgres, svc)

	srv := &http.Server{
		Addr:           cfg.Server.GetServerAddr(),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
		// Use h2c so we can serve HTTP/2 without TLS
		Handler: h2c.NewHandler(router, &http2.Server{
			MaxConcurrentStreams: 250,
		}),
	}

	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	// Drain queued emails before the process exits
	queue.Close()

	log.Info("server exited gracefully")
}
