package errors

import (
	"bytes"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalError represents a generic internal error.
	GeneralInternalError ErrorCode = "general_internal_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// OrderValidationError represents a malformed order rejected at the book boundary.
	OrderValidationError ErrorCode = "order_validation_error"
	// OrderNotFoundError represents a cancel request for an unknown order.
	OrderNotFoundError ErrorCode = "order_not_found_error"
	// BookInvariantError represents an internal matching defect such as a crossed
	// book after settlement, a duplicate sequence number, or a negative
	// remaining quantity.
	BookInvariantError ErrorCode = "book_invariant_error"

	// ConfigValidationError represents an invalid simulation configuration.
	ConfigValidationError ErrorCode = "config_validation_error"
	// SeedFallbackWarning represents a run started without an explicit seed.
	SeedFallbackWarning ErrorCode = "seed_fallback_warning"

	// DatasetWriteError represents a failure writing dataset output files.
	DatasetWriteError ErrorCode = "dataset_write_error"

	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
)

// Severity represents the severity level of an error.
type Severity string

const (
	// SeverityCritical indicates a critical error that requires immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityHigh indicates a high severity error that should be addressed promptly.
	SeverityHigh Severity = "high"
	// SeverityMedium indicates a medium severity error that should be addressed in due course.
	SeverityMedium Severity = "medium"
	// SeverityLow indicates a low severity error that can be addressed at a later time.
	SeverityLow Severity = "low"
)

// Category represents the category of an error.
type Category string

const (
	// CategoryValidation indicates an error related to validation of input data.
	CategoryValidation Category = "validation"
	// CategoryInvariant indicates an internal consistency defect in the matching engine.
	CategoryInvariant Category = "invariant"
	// CategoryConfiguration indicates an error in run configuration.
	CategoryConfiguration Category = "configuration"
	// CategoryExternal indicates an error related to external services.
	CategoryExternal Category = "external"
	// CategoryUnknown indicates an unknown error category.
	CategoryUnknown Category = "unknown"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// This error provides basic functions for performing transformations
// on a list of ErrorDetails.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// ReplaceAllObjects set all object on ErrorDetails with given object
func (b *BaseError) ReplaceAllObjects(object interface{}) {
	for _, detail := range b.details {
		detail.Object = object
	}
}
