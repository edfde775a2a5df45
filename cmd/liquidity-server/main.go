package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/liquidity-forecast/internal/config"
	"github.com/iwvelando/liquidity-forecast/internal/forecast"
	"github.com/iwvelando/liquidity-forecast/internal/ledger"
	"github.com/iwvelando/liquidity-forecast/internal/logger"
	"github.com/iwvelando/liquidity-forecast/internal/server"
	"github.com/iwvelando/liquidity-forecast/internal/store"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to HTTP server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	serverConf, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
		os.Exit(1)
	}

	// Server logging settings win where they are set.
	loggingConf := conf.Logging
	if serverConf.Logging.Level != "" {
		loggingConf.Level = serverConf.Logging.Level
	}
	if serverConf.Logging.Format != "" {
		loggingConf.Format = serverConf.Logging.Format
	}
	if serverConf.Logging.OutputFile != "" {
		loggingConf.OutputFile = serverConf.Logging.OutputFile
	}
	log, err := logger.New(loggingConf, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	for _, warning := range conf.ValidateConfiguration() {
		log.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(conf.Database, log)
	if err != nil {
		log.Fatal("failed to open database",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	var opts []forecast.Option
	if conf.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		defer func() {
			_ = client.Close()
		}()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to redis",
				zap.String("op", "main"),
				zap.String("addr", conf.Redis.Addr),
				zap.Error(err),
			)
		}
		opts = append(opts, forecast.WithLocker(
			forecast.NewRedisLocker(client),
			time.Duration(conf.Redis.LockTTLSeconds)*time.Second,
		))
	}
	if conf.Ledger.BaseURL != "" {
		client, err := ledger.NewClient(conf.Ledger, nil, log)
		if err != nil {
			log.Fatal("failed to create ledger client",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		opts = append(opts, forecast.WithLedger(client))
	}

	svc := forecast.NewService(store.New(db), log, opts...)
	router := server.NewRouter(svc, log, serverConf.BodySizeBytes(), version)

	if err := server.Run(ctx, serverConf, router, log); err != nil {
		log.Fatal("http server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	log.Info("server stopped", zap.String("op", "main"))
}
