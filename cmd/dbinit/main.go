package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	config "github.com/jobharvest/dbinit/configs"
	"github.com/jobharvest/dbinit/internal/application/sequencer"
	"github.com/jobharvest/dbinit/internal/core/ports"
	"github.com/jobharvest/dbinit/internal/infrastructure/action"
	"github.com/jobharvest/dbinit/internal/infrastructure/probe"
	"github.com/jobharvest/dbinit/internal/infrastructure/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.WithField("mode", cfg.Mode).Info("Starting job market database initializer...")

	// Readiness gates: always the database, plus the cache when configured.
	probes := []ports.ReadinessProbe{
		probe.NewTCPProbe("database", cfg.Database.Host, cfg.Database.Port, cfg.Wait.DialTimeout),
	}
	if cfg.Redis.Enabled() {
		probes = append(probes, probe.NewRedisProbe(redis.NewRedisClient(&cfg.Redis)))
	}

	// The initialization action: an external command when configured,
	// otherwise the built-in schema initializer.
	var initAction ports.InitAction
	if cfg.Init.Command != "" {
		initAction, err = action.ParseCommand(cfg.Init.Command)
		if err != nil {
			logger.Fatal("Invalid init command:", err)
		}
	} else {
		initAction = action.NewInitDB(cfg, logger)
	}

	seqCfg := sequencer.Config{
		PollInterval: cfg.Wait.PollInterval,
		MaxAttempts:  cfg.Wait.MaxAttempts,
		Timeout:      cfg.Wait.Timeout,
	}
	seq := sequencer.New(seqCfg, logger, initAction, probes...)

	// SIGINT/SIGTERM cancel the wait; the orchestrator decides on restarts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = seq.Run(ctx)
	stop()
	if err != nil {
		logger.WithField("state", seq.State()).WithError(err).Error("Initialization failed")
	}
	os.Exit(sequencer.ExitCode(err))
}
