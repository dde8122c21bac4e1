// Package runner assembles the simulation stack from configuration: the
// dataset generator, its optional Kafka and Redis side channels, and the
// single-run entry point used by the simulate command.
package runner

import (
	"context"
	"path/filepath"

	resultstorev1 "github.com/xndrleib/Market-Simulation/internal/domain/result-store/v1"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
	"github.com/xndrleib/Market-Simulation/internal/usecase/dataset"
	resultstore "github.com/xndrleib/Market-Simulation/internal/usecase/result-store"
	"github.com/xndrleib/Market-Simulation/internal/usecase/simulation"
	tradepublisher "github.com/xndrleib/Market-Simulation/internal/usecase/trade-publisher"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
	"github.com/xndrleib/Market-Simulation/pkg/redis"
)

// Runner owns the wired components for one process.
type Runner struct {
	cfg Config
	log logger.Interface

	publisher *tradepublisher.Publisher
	store     resultstorev1.Store
	rclient   redis.Client
}

// New wires a runner. Side channels are only dialed when enabled.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Runner, error) {
	r := &Runner{
		cfg: cfg,
		log: log,
	}

	if cfg.PublishTrades {
		r.publisher = tradepublisher.NewPublisher(cfg.Publisher, log)
	}

	if cfg.StoreResults {
		rclient := redis.NewClient(log, &cfg.Redis)
		if err := rclient.Connect(ctx); err != nil {
			return nil, err
		}
		r.rclient = rclient
		r.store = resultstore.NewResultStore(rclient, "dataset", log)
	}

	return r, nil
}

// RunOne executes a single sampled scenario and hands the result to any
// enabled side channels.
func (r *Runner) RunOne(ctx context.Context, runID int) (*simulationv1.Result, error) {
	cfg := simulationv1.SampleConfig(r.cfg.Dataset.BaseSeed, runID)

	run, err := simulation.NewRun(cfg, r.log)
	if err != nil {
		return nil, err
	}

	result, err := run.Run(ctx)
	if err != nil {
		return nil, err
	}

	if r.publisher != nil {
		if err := r.publisher.PublishRun(ctx, result); err != nil {
			return result, err
		}
	}
	if r.store != nil {
		if err := r.store.Store(ctx, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// GenerateDataset runs the configured number of scenarios and writes the
// dataset CSVs into a directory named after the dataset id.
func (r *Runner) GenerateDataset(ctx context.Context) (*dataset.Dataset, string, error) {
	var sink dataset.TradeSink
	if r.publisher != nil {
		sink = r.publisher
	}

	gen := dataset.NewGenerator(r.log, sink, r.store)
	ds, err := gen.Generate(ctx, r.cfg.Dataset)
	if err != nil {
		return nil, "", err
	}

	dir := filepath.Join(r.cfg.OutputDir, ds.ID)
	if err := ds.WriteCSV(dir); err != nil {
		return nil, "", err
	}

	r.log.InfoContext(ctx, "dataset written",
		logger.NewField("dataset_id", ds.ID),
		logger.NewField("dir", dir),
	)
	return ds, dir, nil
}

// Close releases the side-channel connections.
func (r *Runner) Close(ctx context.Context) {
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			r.log.Error(err, logger.NewField("action", "close_publisher"))
		}
	}
	if r.rclient != nil {
		if err := r.rclient.Disconnect(ctx); err != nil {
			r.log.Error(err, logger.NewField("action", "disconnect_redis"))
		}
	}
}
