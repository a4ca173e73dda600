package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcortez/admetrics/internal/analytics"
	"github.com/mcortez/admetrics/internal/config"
	"github.com/mcortez/admetrics/internal/httpx"
	"github.com/mcortez/admetrics/internal/ingest"
	"github.com/mcortez/admetrics/internal/store"
	"github.com/mcortez/admetrics/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analytics HTTP server",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("open store", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	var prog store.ProgressStore
	if cfg.RedisAddr != "" {
		rp, err := store.NewRedisProgress(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ProgressTTL, logger)
		if err != nil {
			logger.Error("connect redis", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer rp.Close()
		prog = rp
	} else {
		prog = store.NewMemoryProgress(cfg.ProgressTTL)
	}

	tel := telemetry.New("admetrics")
	imp := ingest.NewImporter(st, prog, tel, logger)
	svc := analytics.NewService(st)

	r := httpx.NewRouter(logger, cfg, st, prog, imp, svc, tel)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
