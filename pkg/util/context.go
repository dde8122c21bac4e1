package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	jobIDKey = key("x-job-id")
	runIDKey = key("run-id")
)

// FieldsFromContext extracts the key-value pairs that this library has set into `context`.
type FieldsFromContext struct{}

// Fields returns a map of the key-value pairs that this library has set into `context`.
func (f *FieldsFromContext) Fields(ctx context.Context) map[string]interface{} {
	mapFields := make(map[string]interface{})
	mapFields["job_id"] = GetJobID(ctx)
	mapFields["run_id"] = GetRunID(ctx)

	return mapFields
}

// WithJobID returns a context carrying a dataset-generation job id.
// It will generate a new job id if the provided id is empty.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return context.WithValue(ctx, jobIDKey, generate())
	}

	return context.WithValue(ctx, jobIDKey, id)
}

// GetJobID returns the job id from ctx if available.
func GetJobID(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey).(string)
	return id
}

// WithRunID returns a context carrying a simulation run id.
func WithRunID(ctx context.Context, runID int) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID returns the run id from ctx, or -1 if not present.
func GetRunID(ctx context.Context) int {
	id, ok := ctx.Value(runIDKey).(int)
	if !ok {
		return -1
	}
	return id
}

// generate returns a uuid-v4 string to use as job id
func generate() string {
	return uuid.NewString()
}
