package runner

import (
	"github.com/xndrleib/Market-Simulation/internal/usecase/dataset"
	tradepublisher "github.com/xndrleib/Market-Simulation/internal/usecase/trade-publisher"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
	"github.com/xndrleib/Market-Simulation/pkg/redis"
)

// Config wires one runner process from the environment.
type Config struct {
	LogLevel       logger.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogOutputPaths []string     `env:"LOG_OUTPUT_PATHS" envDefault:"stderr"`

	OutputDir string `env:"DATASET_OUTPUT_DIR" envDefault:"./out"`

	// Side channels are opt-in so a plain local run needs no broker or cache.
	PublishTrades bool `env:"PUBLISH_TRADES" envDefault:"false"`
	StoreResults  bool `env:"STORE_RESULTS" envDefault:"false"`

	Dataset   dataset.Options
	Publisher tradepublisher.Config
	Redis     redis.Config `envPrefix:"REDIS_"`
}
