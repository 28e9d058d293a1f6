package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"github.com/octobees/outreach/api/internal/auth"
	"github.com/octobees/outreach/api/internal/config"
	"github.com/octobees/outreach/api/internal/database"
	"github.com/octobees/outreach/api/internal/directory"
	"github.com/octobees/outreach/api/internal/draft"
	"github.com/octobees/outreach/api/internal/handler"
	"github.com/octobees/outreach/api/internal/mailer"
	middlewarepkg "github.com/octobees/outreach/api/internal/middleware"
	"github.com/octobees/outreach/api/internal/repository"
	"github.com/octobees/outreach/api/internal/router"
	"github.com/octobees/outreach/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	companiesRepo := repository.NewPGXCompaniesRepository(pool)

	var snapshots repository.SnapshotStore = repository.NewPGXSnapshotStore(pool)
	if cfg.SnapshotDir != "" {
		fileStore, err := repository.NewFileSnapshotStore(cfg.SnapshotDir)
		if err != nil {
			log.Fatalf("failed to open snapshot directory: %v", err)
		}
		snapshots = fileStore
	}

	directoryClient := directory.NewClient(cfg.DirectoryAPIKey, directory.WithBaseURL(cfg.DirectoryBaseURL))
	traversal := directory.NewTraversal(directoryClient, directory.DefaultPageInterval)

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	discoveryService := service.NewDiscoveryService(directoryClient, traversal, snapshots, companiesRepo, cfg.DefaultRegion)
	enrichmentService := service.NewEnrichmentService(directoryClient, snapshots, service.DefaultEnrichInterval, cfg.DefaultRegion)

	var generator draft.Generator = draft.MockGenerator{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := draft.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("failed to create draft generator: %v", err)
		}
		generator = gemini
	} else {
		log.Print("GEMINI_API_KEY not set, drafts use the mock generator")
	}

	var sender mailer.Sender = mailer.MockSender{}
	mockMail := true
	if cfg.SMTPHost != "" {
		smtpSender, err := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
		if err != nil {
			log.Fatalf("failed to configure SMTP: %v", err)
		}
		sender = smtpSender
		mockMail = false
	} else {
		log.Print("SMTP_HOST not set, outgoing mail is mocked")
	}

	var sentChecker mailer.SentChecker
	if cfg.GmailCredentialsFile != "" {
		checker, err := mailer.NewGmailSentChecker(ctx, option.WithCredentialsFile(cfg.GmailCredentialsFile))
		if err != nil {
			log.Fatalf("failed to create gmail checker: %v", err)
		}
		sentChecker = checker
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserAdminHandler(userService),
		Companies: handler.NewCompaniesHandler(companiesRepo, snapshots),
		Discover:  handler.NewDiscoverHandler(discoveryService),
		Enrich:    handler.NewEnrichHandler(enrichmentService),
		Draft:     handler.NewDraftHandler(generator),
		Send:      handler.NewSendHandler(sender, sentChecker, cfg.ResumePath, mockMail),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
