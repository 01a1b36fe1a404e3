package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/api"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/cheatauth"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/config"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/logging"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/metrics"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/store"
)

const (
	appConfigDirName = "wheel-of-fortune"
	shutdownTimeout  = 10 * time.Second
)

func main() {
	configPath := flag.String("config", os.Getenv("WHEEL_CONFIG"), "path to a YAML config file")
	newToken := flag.Bool("new-cheat-token", false, "generate a cheat token, print it and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(&cfg.Server.Log)
	defer func() { _ = log.Sync() }()

	var guard *cheatauth.Guard
	if cfg.Server.Cheats.Enabled || *newToken {
		guard = cheatauth.NewGuard(cfg.Server.Cheats.Service, tokenFile(cfg))
	}
	if *newToken {
		token, err := guard.GenerateToken()
		if err != nil {
			log.Fatal("generate cheat token", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg, guard, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, guard *cheatauth.Guard, log *zap.Logger) error {
	log.Info("starting wheel server",
		zap.String("go", runtime.Version()),
		zap.String("version", api.EngineVersion),
		zap.String("addr", cfg.Server.Addr))

	var db store.DB
	if cfg.Server.DBPath != "" {
		sqlite, err := store.NewSQLiteDB(cfg.Server.DBPath)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		if err := sqlite.Migrate(); err != nil {
			return err
		}
		db = sqlite
		log.Info("history enabled", zap.String("db", cfg.Server.DBPath))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := api.Options{
		Config:   cfg,
		DB:       db,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Logger:   log.Named("api"),
	}
	if guard != nil {
		if !guard.Configured() {
			log.Warn("cheats enabled but no token is stored; run with -new-cheat-token")
		}
		opts.Cheats = guard
	}
	server := api.NewServer(opts)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		server.Close()
		return err
	})
	return g.Wait()
}

// tokenFile is the cheat token fallback used when no OS keychain exists.
func tokenFile(cfg *config.Config) string {
	if cfg.Server.Cheats.TokenFile != "" {
		return cfg.Server.Cheats.TokenFile
	}
	if d, err := os.UserConfigDir(); err == nil && d != "" {
		return filepath.Join(d, appConfigDirName, "cheats.json")
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, "."+appConfigDirName, "cheats.json")
	}
	return ""
}
