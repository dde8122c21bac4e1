package simulationv1

import (
	"fmt"

	"github.com/xndrleib/Market-Simulation/pkg/errors"
)

// Insider strategy labels recognized in InsiderSpec.
const (
	StrategyEvent   = "event"
	StrategySlow    = "slow"
	StrategyStealth = "stealth"
	StrategyRing    = "ring" // event insiders sharing a group id
	StrategyPump    = "pump"
)

// InsiderSpec configures a single illegal agent in a scenario.
// Zero values mean "sample from the agent's own stream at construction".
type InsiderSpec struct {
	Strategy  string `json:"strategy"`
	StartStep int    `json:"startStep,omitempty"`
	TradeSize int64  `json:"tradeSize,omitempty"`
	GroupID   int    `json:"groupID,omitempty"`
}

// Config is the immutable configuration of a single simulation run.
// A run's behavior is a pure function of its Config.
type Config struct {
	RunID int   `json:"runID"`
	Seed  int64 `json:"seed"` // zero means: draw from system entropy and warn

	Steps        int   `json:"steps"`
	TickSize     int64 `json:"tickSize"`
	InitialPrice int64 `json:"initialPrice"` // in ticks

	// Fundamental value process: gaussian walk with per-step standard
	// deviation Volatility (in ticks), plus an optional multiplicative
	// jump of JumpSize in JumpDirection at EventStep.
	Volatility    float64 `json:"volatility"`
	HasEvent      bool    `json:"hasEvent"`
	EventStep     int     `json:"eventStep,omitempty"`
	JumpSize      float64 `json:"jumpSize,omitempty"`
	JumpDirection int     `json:"jumpDirection,omitempty"`

	NoiseTraders int           `json:"noiseTraders"`
	MarketMakers int           `json:"marketMakers"`
	PropTraders  int           `json:"propTraders"`
	InsiderSpecs []InsiderSpec `json:"insiderSpecs,omitempty"`
}

// DefaultConfig returns a runnable configuration with the reference
// population: prices quoted in hundredths (tick size 1 = one cent).
func DefaultConfig(runID int) Config {
	return Config{
		RunID:         runID,
		Steps:         1000,
		TickSize:      1,
		InitialPrice:  10_000,
		Volatility:    5.0,
		HasEvent:      true,
		JumpSize:      0.1,
		JumpDirection: 1,
		NoiseTraders:  20,
		MarketMakers:  1,
		PropTraders:   0,
	}
}

// Validate rejects configurations that must never start a run.
func (c Config) Validate() error {
	if c.Steps <= 0 {
		return configError(fmt.Sprintf("steps must be positive, got %d", c.Steps), "steps")
	}
	if c.TickSize <= 0 {
		return configError(fmt.Sprintf("tick size must be positive, got %d", c.TickSize), "tickSize")
	}
	if c.InitialPrice <= 0 {
		return configError(fmt.Sprintf("initial price must be positive, got %d", c.InitialPrice), "initialPrice")
	}
	if c.Volatility < 0 {
		return configError(fmt.Sprintf("volatility must be non-negative, got %f", c.Volatility), "volatility")
	}
	if c.NoiseTraders < 0 || c.MarketMakers < 0 || c.PropTraders < 0 {
		return configError("agent counts must be non-negative", "population")
	}
	if c.HasEvent {
		if c.EventStep < 0 || c.EventStep >= c.Steps {
			return configError(fmt.Sprintf("event step %d outside run of %d steps", c.EventStep, c.Steps), "eventStep")
		}
		if c.JumpDirection != 1 && c.JumpDirection != -1 {
			return configError(fmt.Sprintf("jump direction must be +1 or -1, got %d", c.JumpDirection), "jumpDirection")
		}
	}
	for _, spec := range c.InsiderSpecs {
		switch spec.Strategy {
		case StrategyEvent, StrategySlow, StrategyStealth, StrategyRing, StrategyPump:
		default:
			return configError(fmt.Sprintf("unknown insider strategy %q", spec.Strategy), "insiderSpecs")
		}
	}
	return nil
}

func configError(message, field string) error {
	return errors.NewErrorDetails(message, string(errors.ConfigValidationError), field)
}
