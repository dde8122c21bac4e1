// Package dataset generates labeled training sets by running many sampled
// simulation scenarios and extracting feature rows from each.
package dataset

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	resultstorev1 "github.com/xndrleib/Market-Simulation/internal/domain/result-store/v1"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
	"github.com/xndrleib/Market-Simulation/internal/usecase/features"
	"github.com/xndrleib/Market-Simulation/internal/usecase/simulation"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
)

// TradeSink receives the executed trades of each completed run.
type TradeSink interface {
	PublishRun(ctx context.Context, result *simulationv1.Result) error
}

// Options controls one dataset generation job.
type Options struct {
	Runs       int   `env:"DATASET_RUNS" envDefault:"20"`
	WindowSize int   `env:"DATASET_WINDOW_SIZE" envDefault:"50"`
	BaseSeed   int64 `env:"DATASET_BASE_SEED" envDefault:"42"`
	Workers    int   `env:"DATASET_WORKERS" envDefault:"4"`
}

// Dataset is the in-memory output of a generation job. Rows are ordered by
// run id regardless of worker scheduling, so two jobs with the same options
// produce byte-identical output.
type Dataset struct {
	ID         string
	BaseSeed   int64
	WindowSize int
	AgentRows  []features.AgentRow
	WindowRows []features.WindowRow
}

// Generator fans sampled scenario configurations out over a worker pool and
// collects feature rows. The publisher and store are optional side channels;
// a nil value disables the corresponding output.
type Generator struct {
	log       logger.Interface
	publisher TradeSink
	store     resultstorev1.Store
}

// NewGenerator creates a dataset generator.
func NewGenerator(log logger.Interface, publisher TradeSink, store resultstorev1.Store) *Generator {
	return &Generator{
		log:       log,
		publisher: publisher,
		store:     store,
	}
}

type runOutput struct {
	agentRows  []features.AgentRow
	windowRows []features.WindowRow
	err        error
}

// Generate runs every scenario and assembles the dataset. The first run
// error aborts the job; side-channel failures are logged and skipped so a
// broker outage cannot poison the dataset itself.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Dataset, error) {
	if opts.Runs <= 0 {
		opts.Runs = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = features.DefaultWindowSize
	}

	g.log.InfoContext(ctx, "dataset generation started",
		logger.NewField("runs", opts.Runs),
		logger.NewField("window_size", opts.WindowSize),
		logger.NewField("workers", opts.Workers),
	)

	outputs := make([]runOutput, opts.Runs)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for runID := range jobs {
				outputs[runID] = g.runOne(ctx, opts, runID)
			}
		}()
	}

	for runID := 0; runID < opts.Runs; runID++ {
		jobs <- runID
	}
	close(jobs)
	wg.Wait()

	ds := &Dataset{
		ID:         ulid.Make().String(),
		BaseSeed:   opts.BaseSeed,
		WindowSize: opts.WindowSize,
	}
	for runID := 0; runID < opts.Runs; runID++ {
		out := outputs[runID]
		if out.err != nil {
			return nil, out.err
		}
		ds.AgentRows = append(ds.AgentRows, out.agentRows...)
		ds.WindowRows = append(ds.WindowRows, out.windowRows...)
	}

	g.log.InfoContext(ctx, "dataset generation completed",
		logger.NewField("dataset_id", ds.ID),
		logger.NewField("agent_rows", len(ds.AgentRows)),
		logger.NewField("window_rows", len(ds.WindowRows)),
	)

	return ds, nil
}

func (g *Generator) runOne(ctx context.Context, opts Options, runID int) runOutput {
	cfg := simulationv1.SampleConfig(opts.BaseSeed, runID)

	run, err := simulation.NewRun(cfg, g.log)
	if err != nil {
		return runOutput{err: err}
	}

	result, err := run.Run(ctx)
	if err != nil {
		return runOutput{err: err}
	}

	if g.publisher != nil {
		if err := g.publisher.PublishRun(ctx, result); err != nil {
			g.log.Warn("trade publish failed, continuing",
				logger.NewField("run_id", runID),
			)
		}
	}
	if g.store != nil {
		if err := g.store.Store(ctx, result); err != nil {
			g.log.Warn("result store failed, continuing",
				logger.NewField("run_id", runID),
			)
		}
	}

	return runOutput{
		agentRows:  features.AgentFeatures(result),
		windowRows: features.WindowFeatures(result, opts.WindowSize),
	}
}
