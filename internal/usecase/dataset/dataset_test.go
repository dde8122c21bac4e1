package dataset

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	require.NoError(t, err)
	return log
}

func testOptions() Options {
	return Options{Runs: 2, WindowSize: 50, BaseSeed: 42, Workers: 2}
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(testLogger(t), nil, nil)

	ds, err := gen.Generate(context.Background(), testOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, ds.ID)
	assert.NotEmpty(t, ds.AgentRows)
	assert.NotEmpty(t, ds.WindowRows)

	// rows come back grouped by run id in ascending order
	lastRun := 0
	for _, row := range ds.AgentRows {
		assert.GreaterOrEqual(t, row.RunID, lastRun)
		lastRun = row.RunID
	}
	assert.Equal(t, 0, ds.AgentRows[0].RunID)
	assert.Equal(t, 1, ds.AgentRows[len(ds.AgentRows)-1].RunID)
}

func TestGenerator_DeterministicAcrossWorkerCounts(t *testing.T) {
	gen := NewGenerator(testLogger(t), nil, nil)

	optsSerial := testOptions()
	optsSerial.Workers = 1
	optsParallel := testOptions()
	optsParallel.Workers = 4

	a, err := gen.Generate(context.Background(), optsSerial)
	require.NoError(t, err)
	b, err := gen.Generate(context.Background(), optsParallel)
	require.NoError(t, err)

	// scheduling must not leak into the data
	assert.Equal(t, a.AgentRows, b.AgentRows)
	assert.Equal(t, a.WindowRows, b.WindowRows)
	// artifact ids are unique per job
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDataset_WriteCSV(t *testing.T) {
	gen := NewGenerator(testLogger(t), nil, nil)
	opts := testOptions()
	opts.Runs = 1

	ds, err := gen.Generate(context.Background(), opts)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, ds.WriteCSV(dir))

	agentFile, err := os.Open(filepath.Join(dir, AgentLevelFile))
	require.NoError(t, err)
	defer agentFile.Close()

	records, err := csv.NewReader(agentFile).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "run_id", records[0][0])
	assert.Equal(t, "aligned_pre_event_volume", records[0][len(records[0])-1])
	assert.Len(t, records, len(ds.AgentRows)+1)

	windowFile, err := os.Open(filepath.Join(dir, WindowLevelFile))
	require.NoError(t, err)
	defer windowFile.Close()

	records, err = csv.NewReader(windowFile).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, len(ds.WindowRows)+1)

	manifest, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), ds.ID)
}
