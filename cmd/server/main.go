package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fixhub-io/fixhub-ce/internal/api"
	"github.com/fixhub-io/fixhub-ce/internal/auth"
	"github.com/fixhub-io/fixhub-ce/internal/cache"
	"github.com/fixhub-io/fixhub-ce/internal/config"
	"github.com/fixhub-io/fixhub-ce/internal/database"
	"github.com/fixhub-io/fixhub-ce/internal/middleware"
	"github.com/fixhub-io/fixhub-ce/internal/repository"
	"github.com/fixhub-io/fixhub-ce/internal/services/pricing"
	"github.com/fixhub-io/fixhub-ce/internal/services/schedule"
	"github.com/fixhub-io/fixhub-ce/internal/services/workshop"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seedPath := flag.String("seed", "", "optional YAML seed file applied on first start")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.Get()

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if *seedPath != "" {
		if err := database.Seed(db, *seedPath); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	store := repository.NewStore(db)
	engine := pricing.NewEngine(store)
	calendar := schedule.NewCalendar(cfg.Calendar)
	service := workshop.NewService(store, engine, calendar)

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth: jwt_secret must be configured")
	}
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	authSvc := auth.NewAuthService(store.Workers(), jwtManager, hasher)
	limiter := auth.NewLoginRateLimiter(5, 5*time.Minute, 2*time.Second, time.Minute)

	ticketCache := cache.NewTicketCache(cfg.Redis)
	defer ticketCache.Close()

	handler := api.NewHandler(service, authSvc, store.Workers(), ticketCache, limiter)
	router := handler.NewRouter(middleware.NewAuthMiddleware(jwtManager))

	var audit *workshop.PriceAudit
	if cfg.Audit.Enabled {
		audit, err = workshop.NewPriceAudit(service, cfg.Audit.Schedule)
		if err != nil {
			log.Fatalf("audit: %v", err)
		}
		audit.Start()
		defer audit.Stop()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.App.Name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
