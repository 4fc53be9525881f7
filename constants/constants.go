package constants

import (
	"errors"
	"time"
)

// viper keys shared across protocol commands
const (
	ConfigFolder = "CONFIG_FOLDER"
	StatePath    = "STATE_PATH"
	StreamsPath  = "STREAMS_PATH"
)

const (
	DefaultThreadCount       = 3
	DefaultRetryCount        = 3
	DefaultRequestTimeout    = 5 * time.Minute
	DefaultCheckpointRecords = 1000
)

var (
	// ErrAuth marks credential rejections; never retried, surfaced with a remediation hint.
	ErrAuth = errors.New("authentication failed")
	// ErrNonRetryable marks failures that must not be retried (4xx other than 408/429).
	ErrNonRetryable = errors.New("non-retryable error")
)
