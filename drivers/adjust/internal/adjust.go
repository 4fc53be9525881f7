package driver

import (
	"context"
	"fmt"

	"github.com/datazip-inc/tap-adjust/drivers/abstract"
	"github.com/datazip-inc/tap-adjust/types"
)

const (
	reportStream = "report"
	eventsStream = "events"

	namespace = "adjust"
)

// Adjust is the report service source driver.
type Adjust struct {
	config *Config
	client *Client
	state  *types.State
}

// GetConfigRef returns a reference to the configuration
func (a *Adjust) GetConfigRef() abstract.Config {
	a.config = &Config{}
	return a.config
}

// Spec returns the configuration specification
func (a *Adjust) Spec() any {
	return Config{}
}

// Type returns the source type
func (a *Adjust) Type() string {
	return "adjust"
}

func (a *Adjust) SetupState(state *types.State) {
	a.state = state
}

// Setup validates the config and verifies the credentials against the live
// API with a cheap metadata request.
func (a *Adjust) Setup(ctx context.Context) error {
	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("failed to validate config: %s", err)
	}

	a.client = NewClient(a.config)

	var events []types.Record
	if err := a.client.get(ctx, eventsPath, nil, &events); err != nil {
		return fmt.Errorf("failed to reach report service: %s", err)
	}

	return nil
}

func (a *Adjust) MaxConnections() int {
	return a.config.MaxThreads
}

func (a *Adjust) MaxRetries() int {
	return a.config.RetryCount
}

func (a *Adjust) ViolationPolicy() types.ViolationPolicy {
	return a.config.OnSchemaViolation
}

func (a *Adjust) GetStreamNames(_ context.Context) ([]string, error) {
	return []string{reportStream, eventsStream}, nil
}

// ProduceSchema builds the type schema for a stream.
func (a *Adjust) ProduceSchema(_ context.Context, streamName string) (*types.Stream, error) {
	switch streamName {
	case reportStream:
		return a.reportSchema(), nil
	case eventsStream:
		return a.eventsSchema(), nil
	default:
		return nil, fmt.Errorf("unknown stream: %s", streamName)
	}
}

// StreamRecords reads a full refresh stream end to end.
func (a *Adjust) StreamRecords(ctx context.Context, stream types.StreamInterface, processFn abstract.MessageFn) error {
	switch stream.Name() {
	case eventsStream:
		return a.readEvents(ctx, processFn)
	default:
		return fmt.Errorf("stream %s does not support full refresh reads", stream.ID())
	}
}

// StreamIncrementalChanges reads records with cursor strictly greater than
// startCursor, committing the cursor after each fully produced day.
func (a *Adjust) StreamIncrementalChanges(ctx context.Context, stream types.StreamInterface, startCursor any, processFn abstract.MessageFn, checkpointFn abstract.CheckpointFn) error {
	switch stream.Name() {
	case reportStream:
		return a.readReport(ctx, stream, startCursor, processFn, checkpointFn)
	default:
		return fmt.Errorf("stream %s does not support incremental reads", stream.ID())
	}
}
