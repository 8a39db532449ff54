package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-shop-api/internal/application/user"
	"github.com/go-shop-api/internal/application/verification"
	"github.com/go-shop-api/internal/config"
	jwtinfra "github.com/go-shop-api/internal/infrastructure/jwt"
	s3infra "github.com/go-shop-api/internal/infrastructure/s3"
	"github.com/go-shop-api/internal/infrastructure/smtp"
	"github.com/go-shop-api/internal/infrastructure/store"
	transporthttp "github.com/go-shop-api/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := store.Bootstrap(context.Background(), db); err != nil {
		log.Fatalf("bootstrap schema: %v", err)
	}

	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, time.Duration(cfg.JWTExpiryMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// Object storage (optional — image uploads fail cleanly when unset).
	var s3Store transporthttp.ObjectStore
	if client, err := s3infra.NewClient(cfg); err == nil {
		s3Store = s3infra.NewStore(client, cfg.R2BucketName, cfg.R2PublicURL)
	} else {
		log.Printf("WARN: object storage not available: %v", err)
	}

	mailer := smtp.NewMailer(cfg)
	if !cfg.EmailEnabled() {
		log.Println("WARN: SMTP not configured, new accounts are verified automatically")
	}

	userRepo := store.NewUserRepo(db)
	verificationRepo := store.NewVerificationRepo(db)

	deps := &transporthttp.Deps{
		UserRepo:         userRepo,
		VerificationRepo: verificationRepo,
		CategoryRepo:     store.NewCategoryRepo(db),
		ProductRepo:      store.NewProductRepo(db),
		OrderRepo:        store.NewOrderRepo(db),
		S3Store:          s3Store,
		Mailer:           mailer,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Maintenance sweeps: expired verification tokens daily, abandoned
	// unverified accounts weekly.
	tokens := verification.NewManager(verificationRepo, time.Duration(cfg.VerificationTTLHours)*time.Hour)
	userSvc := user.NewService(userRepo)
	sched := cron.New()
	if _, err := sched.AddFunc("@daily", func() {
		n, err := tokens.CleanupExpired(context.Background())
		if err != nil {
			log.Printf("token cleanup: %v", err)
			return
		}
		log.Printf("token cleanup: removed %d expired tokens", n)
	}); err != nil {
		log.Fatalf("schedule token cleanup: %v", err)
	}
	if _, err := sched.AddFunc("@weekly", func() {
		n, err := userSvc.PurgeUnverified(context.Background(), 7*24*time.Hour)
		if err != nil {
			log.Printf("unverified purge: %v", err)
			return
		}
		log.Printf("unverified purge: removed %d accounts", n)
	}); err != nil {
		log.Fatalf("schedule unverified purge: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
