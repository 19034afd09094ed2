package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/shop_admin/internal/config"
	"github.com/Skotchmaster/shop_admin/internal/db"
	"github.com/Skotchmaster/shop_admin/internal/es"
	"github.com/Skotchmaster/shop_admin/internal/hash"
	"github.com/Skotchmaster/shop_admin/internal/httpserver"
	"github.com/Skotchmaster/shop_admin/internal/logging"
	"github.com/Skotchmaster/shop_admin/internal/mykafka"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/storage"
	"github.com/Skotchmaster/shop_admin/internal/tokens"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(initCtx, gdb); err != nil {
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	store := &repo.GormRepo{DB: gdb}
	registry := repo.NewRefreshRegistry(gdb)
	if err := registry.EnsureSchema(initCtx); err != nil {
		// retried lazily on the first token operation
		logger.Warn("refresh_schema_deferred", "error", err)
	}

	codec, err := tokens.NewCodec(
		tokens.Config{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.AccessTTL},
		tokens.Config{Secret: cfg.Auth.RefreshSecret, TTL: cfg.Auth.RefreshTTL},
	)
	if err != nil {
		logger.Error("token_codec_failed", "error", err)
		os.Exit(1)
	}

	producer := mykafka.NewProducer(cfg.Kafka.Brokers)
	if !producer.Enabled() {
		logger.Info("kafka_disabled")
	}

	hasher := hash.NewBcrypt(cfg.Auth.BcryptCost)

	users := &service.UserService{Repo: store, Hasher: hasher, Events: producer}
	if err := users.EnsureAdmin(initCtx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logger.Error("admin_seed_failed", "error", err)
		os.Exit(1)
	}

	authSvc := &service.AuthService{
		Verifier:       &service.CredentialVerifier{Users: store, Hasher: hasher},
		Users:          store,
		Tokens:         codec,
		Registry:       registry,
		Events:         producer,
		RefreshMaxAge:  cfg.Auth.RefreshMaxAge,
		ReuseDetection: cfg.Auth.ReuseDetection,
	}

	catalog := &service.CatalogService{
		Repo:        store,
		ImageBucket: cfg.Storage.ImageBucket,
		SpecsBucket: cfg.Storage.SpecsBucket,
		Events:      producer,
	}
	uploads := &service.UploadService{
		ImageBucket: cfg.Storage.ImageBucket,
		SpecsBucket: cfg.Storage.SpecsBucket,
	}

	if cfg.Storage.Enabled() {
		files, err := storage.New(initCtx, cfg.Storage)
		if err != nil {
			logger.Error("storage_init_failed", "error", err)
			os.Exit(1)
		}
		catalog.Files = files
		uploads.Files = files
	} else {
		logger.Info("storage_disabled")
	}

	if cfg.Search.Enabled() {
		client, err := es.NewClient(cfg.Search)
		if err == nil {
			err = es.Ping(initCtx, client)
		}
		if err != nil {
			logger.Warn("search_unavailable", "error", err)
		} else {
			catalog.Index = es.NewProductIndex(client, cfg.Search.Index)
		}
	}

	e := httpserver.NewEcho(logger, cfg.FrontendOrigins)
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	httpserver.Register(e, &httpserver.Deps{
		DB: gdb,
		Auth: &httpserver.AuthHTTP{
			Svc:           authSvc,
			CookieMaxAge:  cfg.Auth.RefreshMaxAge,
			SecureCookies: cfg.Auth.SecureCookies,
		},
		Users:    &httpserver.UsersHTTP{Svc: users},
		Products: &httpserver.ProductsHTTP{Svc: catalog},
		Settings: &httpserver.SettingsHTTP{Svc: &service.SettingsService{Repo: store}},
		Upload:   &httpserver.UploadHTTP{Svc: uploads},
	})

	go func() {
		logger.Info("server_started", "addr", cfg.Addr(), "env", cfg.AppEnv)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_failed", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
