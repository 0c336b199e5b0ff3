// @title Heritage Catalog Events API
// @version 1.0
// @description Cultural events of the heritage catalog: events, works, participants, partner organizations and programs.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"heritagecatalog/config"
	_ "heritagecatalog/docs"
	"heritagecatalog/internal/adapters/auth"
	"heritagecatalog/internal/adapters/email"
	httpDelivery "heritagecatalog/internal/delivery/http"
	"heritagecatalog/internal/delivery/http/controllers"
	"heritagecatalog/internal/repository/postgres"
	"heritagecatalog/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(db, logger); err != nil {
			return err
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}

	repos := postgres.NewRepositories(db)
	uow := postgres.NewUnitOfWork(db)
	emailService := services.NewEmailService(mailer, renderer, logger)

	assembler := services.NewEventAssembler(repos, cfg.RequestTimeout)
	eventService := services.NewEventService(repos, uow, assembler, cfg.RequestTimeout)
	listing := services.NewEventListingService(repos.Events, cfg.RequestTimeout)
	participationService := services.NewParticipationService(repos, emailService, logger, cfg.RequestTimeout)
	programService := services.NewProgramService(repos, uow, cfg.RequestTimeout)

	mux := httpDelivery.NewRouter(httpDelivery.Controllers{
		Events:         controllers.NewEventController(logger, eventService, assembler, listing),
		Participations: controllers.NewParticipationController(logger, participationService),
		Programs:       controllers.NewProgramController(logger, programService),
		Health:         controllers.NewHealthController(logger, db),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpDelivery.NewHandler(mux, cfg.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
