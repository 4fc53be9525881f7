package abstract

import (
	"context"

	"github.com/datazip-inc/tap-adjust/types"
)

// MessageFn receives one extracted record.
type MessageFn func(ctx context.Context, record types.Record) error

// CheckpointFn commits the cursor value of a fully produced page; drivers call
// it only after every record of the page went through MessageFn.
type CheckpointFn func(ctx context.Context, cursorValue any) error

type Config interface {
	Validate() error
}

type DriverInterface interface {
	GetConfigRef() Config
	Spec() any
	Type() string
	// specific to check & setup
	Setup(ctx context.Context) error
	SetupState(state *types.State)
	// sync artifacts
	MaxConnections() int
	MaxRetries() int
	ViolationPolicy() types.ViolationPolicy
	// specific to discover
	GetStreamNames(ctx context.Context) ([]string, error)
	ProduceSchema(ctx context.Context, streamName string) (*types.Stream, error)
	// full refresh
	StreamRecords(ctx context.Context, stream types.StreamInterface, processFn MessageFn) error
	// incremental; must only produce records with cursor value strictly greater
	// than startCursor (nil startCursor means from the configured start)
	StreamIncrementalChanges(ctx context.Context, stream types.StreamInterface, startCursor any, processFn MessageFn, checkpointFn CheckpointFn) error
}
