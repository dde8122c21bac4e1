package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xndrleib/Market-Simulation/internal/app/runner"
	"github.com/xndrleib/Market-Simulation/pkg/config"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
	"github.com/xndrleib/Market-Simulation/pkg/util"
)

type simulateConfig struct {
	runner.Config
	RunID int `env:"SIM_RUN_ID" envDefault:"0"`
}

var cfg *simulateConfig
var log *logger.Logger

func init() {
	cfg = &simulateConfig{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(
		logger.WithLoggingLevel(cfg.LogLevel),
		logger.WithOutputPaths(cfg.LogOutputPaths),
	)
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = util.WithJobID(ctx, "")
	ctx = util.WithRunID(ctx, cfg.RunID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", logger.NewField("signal", sig.String()))
		cancel()
	}()

	r, err := runner.New(ctx, cfg.Config, log)
	if err != nil {
		log.Error(err, logger.NewField("action", "wire_runner"))
		os.Exit(1)
	}
	defer r.Close(context.Background())

	result, err := r.RunOne(ctx, cfg.RunID)
	if err != nil {
		log.Error(err, logger.NewField("action", "run_simulation"))
		os.Exit(1)
	}

	log.InfoContext(ctx, "run finished",
		logger.NewField("run_id", result.Config.RunID),
		logger.NewField("seed_used", result.SeedUsed),
		logger.NewField("steps", result.CompletedSteps),
		logger.NewField("trades", len(result.Trades)),
		logger.NewField("agents", len(result.Agents)),
		logger.NewField("last_mid", result.LastMid()),
	)
}
