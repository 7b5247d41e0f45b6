package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/events"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/mailer"
	"server/internal/middleware"
	"server/internal/service"
	"server/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	db := infra.NewSQLRunner(dbpool, logger)

	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		sessions = redisStore
	} else {
		logger.Warn().Msg("REDIS_URL not set, using in-memory session revocation")
		sessions = session.NewMemoryStore()
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	countryResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable")
	}
	var countryLookup middleware.CountryLookup
	if countryResolver != nil {
		countryLookup = countryResolver.CountryCode
	}

	users := repo.NewUserRepository(db)
	fundraisers := repo.NewFundraiserRepository(db)
	contributions := repo.NewContributionRepository(db)

	app := &handlers.App{
		Logger:        logger,
		Users:         users,
		Fundraisers:   service.NewFundraiserService(fundraisers, logger),
		Contributions: service.NewContributionService(fundraisers, contributions, publisher, logger),
		Sessions:      sessions,
		Mail:          mailSender(cfg),
		JWTSecret:     cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		PublicBaseURL: cfg.PublicBaseURL,
		ContactTo:     cfg.ContactRecipient,
	}

	router := httpapi.NewRouter(app, httpapi.RouterConfig{
		JWTSecret:       cfg.JWTSecret,
		Sessions:        sessions,
		RateLimitPerMin: cfg.RateLimitPerMin,
		AllowedOrigins:  allowedOrigins(cfg),
		CountryLookup:   countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func mailSender(cfg *infra.Config) mailer.Sender {
	m := mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	if m == nil {
		return nil
	}
	return m
}

func allowedOrigins(cfg *infra.Config) []string {
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		return strings.Split(v, ",")
	}
	return []string{cfg.PublicBaseURL}
}
