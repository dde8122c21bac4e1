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

var cfg *runner.Config
var log *logger.Logger

func init() {
	cfg = &runner.Config{}
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

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", logger.NewField("signal", sig.String()))
		cancel()
	}()

	r, err := runner.New(ctx, *cfg, log)
	if err != nil {
		log.Error(err, logger.NewField("action", "wire_runner"))
		os.Exit(1)
	}
	defer r.Close(context.Background())

	ds, dir, err := r.GenerateDataset(ctx)
	if err != nil {
		log.Error(err, logger.NewField("action", "generate_dataset"))
		os.Exit(1)
	}

	log.InfoContext(ctx, "dataset job complete",
		logger.NewField("dataset_id", ds.ID),
		logger.NewField("agent_rows", len(ds.AgentRows)),
		logger.NewField("window_rows", len(ds.WindowRows)),
		logger.NewField("dir", dir),
	)
}
