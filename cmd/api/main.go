package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"petrock/internal/app"
	"petrock/internal/audit"
	"petrock/internal/config"
	"petrock/internal/profile"
	"petrock/internal/scoring"
	"petrock/internal/search"
	"petrock/internal/session"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var profiles profile.Store
	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		log.Printf("Using PostgreSQL ledger storage")
		pgStore, err := profile.OpenPG(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer pgStore.Close()
		profiles = pgStore
	case strings.TrimSpace(cfg.ProfileAPIURL) != "":
		log.Printf("Using profile management API at %s", cfg.ProfileAPIURL)
		profiles = profile.NewHTTPStore(cfg.ProfileAPIURL, cfg.ProfileClientID, cfg.ProfileClientSecret)
	default:
		log.Printf("WARNING: no ledger backend configured, using in-process storage")
		profiles = profile.NewMemoryStore()
	}

	var sessions session.Store
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis session storage")
		redisStore, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		log.Printf("Using in-process session storage")
		sessions = session.NewMemoryStore()
	}

	var scorer *scoring.Service
	if strings.TrimSpace(cfg.OracleAPIKey) != "" {
		scorer = scoring.NewService(scoring.NewHTTPOracle(cfg.OracleURL, cfg.OracleAPIKey, cfg.OracleModel))
	} else {
		log.Printf("WARNING: no oracle API key configured, score analysis disabled")
	}
	scores := scoring.NewClient(cfg.BaseURL)

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewLedgerScan(profiles))

	var archive *audit.Archive
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		var err error
		archive, err = audit.NewArchive(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("score archive setup failed: %v", err)
		}
	}

	service := app.New(cfg, profiles, sessions, scores, nilableScorer(scorer), searchService, archive)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Petrock API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// nilableScorer keeps a nil *scoring.Service from becoming a non-nil
// interface value inside the service.
func nilableScorer(s *scoring.Service) app.OracleScorer {
	if s == nil {
		return nil
	}
	return s
}
