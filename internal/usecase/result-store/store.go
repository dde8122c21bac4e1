package resultstore

import (
	"context"
	"encoding/json"
	"fmt"

	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
	"github.com/xndrleib/Market-Simulation/pkg/errors"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
	"github.com/xndrleib/Market-Simulation/pkg/redis"
)

// Store persists completed run results in Redis, keyed by run id.
type Store struct {
	prefix      string
	logger      logger.Interface
	redisclient redis.Client
}

// NewResultStore creates a result store over the given Redis client. The
// prefix namespaces runs of one dataset against another.
func NewResultStore(redisclient redis.Client, prefix string, logger logger.Interface) *Store {
	return &Store{
		prefix:      prefix,
		redisclient: redisclient,
		logger:      logger,
	}
}

func (s *Store) key(runID int) string {
	return fmt.Sprintf("%s:run:%d", s.prefix, runID)
}

// Store serializes the result and writes it under the run's key.
func (s *Store) Store(ctx context.Context, result *simulationv1.Result) error {
	buf, err := json.Marshal(result)
	if err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "run_id", Value: result.Config.RunID},
		)
		return errors.NewTracer(string(errors.RedisSetError)).Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key(result.Config.RunID), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "run_id", Value: result.Config.RunID},
		)
		return errors.NewTracer(string(errors.RedisSetError)).Wrap(err)
	}

	s.logger.DebugContext(ctx, "run result stored",
		logger.Field{Key: "run_id", Value: result.Config.RunID},
		logger.Field{Key: "trades", Value: len(result.Trades)},
	)
	return nil
}

// Load reads a run result back; a missing key returns a nil result.
func (s *Store) Load(ctx context.Context, runID int) (*simulationv1.Result, error) {
	data, err := s.redisclient.Get(ctx, s.key(runID))
	if err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "run_id", Value: runID},
		)
		return nil, errors.NewTracer(string(errors.RedisGetError)).Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, "no stored result for run",
			logger.Field{Key: "run_id", Value: runID},
		)
		return nil, nil
	}

	var result simulationv1.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, errors.NewTracer(string(errors.RedisGetError)).Wrap(err)
	}
	return &result, nil
}
