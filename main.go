package main

import (
	"database/sql"
	"net/http"
	"os"

	"artistconnection/internal/catalog"
	"artistconnection/internal/config"
	"artistconnection/internal/digest"
	"artistconnection/internal/graph"
	"artistconnection/internal/mailer"
	"artistconnection/internal/pricesync"
	"artistconnection/internal/publisher"
	"artistconnection/internal/repository"
	"artistconnection/internal/scheduler"
	"artistconnection/internal/server"
	"artistconnection/internal/service"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)

	if err := godotenv.Load(); err != nil {
		log.Warn("Could not load .env file.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithField("error", err).Fatal("Could not load configuration")
	}

	log.Info("Starting database migration...")
	m, err := migrate.New(cfg.MigrationsPath, cfg.DB.URL)
	if err != nil {
		log.WithField("error", err).Fatal("Could not create migrate instance")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.WithField("error", err).Fatal("Could not apply migration")
	}
	log.Info("Database migration finished successfully.")

	db, err := sql.Open("postgres", cfg.DB.URL)
	if err != nil {
		log.WithField("error", err).Fatal("Could not connect to the database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		log.WithField("error", err).Fatal("Could not ping the database")
	}
	log.Info("Successfully connected to the PostgreSQL database.")

	// Repositories
	artistRepo := repository.NewPostgresArtistRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)
	eventRepo := repository.NewPostgresEventRepository(db)
	changeRepo := repository.NewPostgresChangeRepository(db)
	priceRepo := repository.NewPostgresPriceRepository(db)

	// Audit publisher is optional: without brokers mutations run unaudited.
	var audit service.AuditPublisher
	if cfg.Kafka.Brokers != "" {
		auditPublisher, err := publisher.NewAuditPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.WithField("error", err).Fatal("Could not create audit publisher")
		}
		defer auditPublisher.Close()
		audit = auditPublisher
	} else {
		log.Warn("KAFKA_BROKERS not set, audit events disabled")
	}

	smtp := mailer.NewSMTPMailer(cfg.SMTP)
	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Services
	authService := service.NewAuthService(userRepo, tokens, smtp, audit)
	artistService := service.NewArtistService(artistRepo, changeRepo, audit)
	userService := service.NewUserService(userRepo, artistRepo)
	eventService := service.NewEventService(eventRepo, artistRepo, changeRepo, audit)
	priceService := service.NewPriceService(priceRepo)

	// Scheduled jobs
	digests := digest.NewService(changeRepo, userRepo, eventRepo, smtp, cfg.FrontendURL, cfg.DigestAdminOnly)
	diffJob := catalog.NewDiffJob(catalog.NewScryfallClient(cfg.Feeds), artistRepo, userRepo, smtp)
	manapoolJob := pricesync.NewManapoolJob(cfg.Feeds, priceRepo)
	cardKingdomJob := pricesync.NewCardKingdomJob(cfg.Feeds, priceRepo)

	sched := scheduler.New()
	err = sched.AddAll(cfg.Schedules,
		scheduler.JobFunc(digests.RunArtistDigest),
		scheduler.JobFunc(digests.RunEventDigest),
		manapoolJob,
		cardKingdomJob,
		diffJob,
	)
	if err != nil {
		log.WithField("error", err).Fatal("Could not register scheduled jobs")
	}
	sched.Start()
	defer sched.Stop()

	schema, err := graph.NewSchema(&graph.Resolver{
		Auth:    authService,
		Artists: artistService,
		Users:   userService,
		Events:  eventService,
		Prices:  priceService,
	})
	if err != nil {
		log.WithField("error", err).Fatal("Could not build GraphQL schema")
	}

	srv := server.NewServer(schema, tokens, db)

	e := echo.New()
	srv.Register(e)

	log.WithField("port", cfg.Port).Info("Artist connection service is starting with Echo")

	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.WithField("error", err).Fatal("Echo server failed to start")
	}
}
