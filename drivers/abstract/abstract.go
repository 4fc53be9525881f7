package abstract

import (
	"context"
	"fmt"
	"sync"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"

	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
)

// AbstractDriver wraps a source driver with the orchestration every source
// shares: concurrent discovery, stream reads per replication strategy, and
// bookmark commit rules.
type AbstractDriver struct {
	driver DriverInterface
	state  *types.State

	vmu        sync.Mutex
	validators map[string]recordValidator
}

func NewAbstractDriver(driver DriverInterface) *AbstractDriver {
	return &AbstractDriver{
		driver:     driver,
		validators: make(map[string]recordValidator),
	}
}

func (a *AbstractDriver) SetupState(state *types.State) {
	a.state = state
	a.driver.SetupState(state)
}

func (a *AbstractDriver) GetConfigRef() Config {
	return a.driver.GetConfigRef()
}

func (a *AbstractDriver) Spec() any {
	return a.driver.Spec()
}

func (a *AbstractDriver) Type() string {
	return a.driver.Type()
}

func (a *AbstractDriver) Setup(ctx context.Context) error {
	return a.driver.Setup(ctx)
}

// Discover produces the source streams, fetching schemas concurrently with
// bounded retries.
func (a *AbstractDriver) Discover(ctx context.Context) ([]*types.Stream, error) {
	streamNames, err := a.driver.GetStreamNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream names: %s", err)
	}

	group, gCtx := errgroup.WithContext(ctx)
	if a.driver.MaxConnections() > 0 {
		group.SetLimit(a.driver.MaxConnections())
	}

	var streamMap sync.Map
	for _, name := range streamNames {
		name := name
		group.Go(func() error {
			return retry.Do(func() error {
				stream, err := a.driver.ProduceSchema(gCtx, name)
				if err != nil {
					return fmt.Errorf("failed to produce schema for stream %s: %s", name, err)
				}
				streamMap.Store(stream.ID(), stream)
				return nil
			},
				retry.Context(gCtx),
				retry.Attempts(uint(a.driver.MaxRetries())),
				retry.DelayType(retry.BackOffDelay),
				retry.LastErrorOnly(true),
			)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var finalStreams []*types.Stream
	streamMap.Range(func(_, value any) bool {
		stream, _ := value.(*types.Stream)

		// priority to default sync mode (incremental over full refresh)
		if stream.SupportedSyncModes.Exists(types.INCREMENTAL) {
			stream.SyncMode = types.INCREMENTAL
		} else {
			stream.SyncMode = types.FULLREFRESH
		}

		finalStreams = append(finalStreams, stream)
		return true
	})

	return finalStreams, nil
}

// Read runs the sync for every selected stream; streams run in parallel with
// independent bookmarks, bounded by the driver's connection budget.
func (a *AbstractDriver) Read(ctx context.Context, pool *emitter.Emitter, categories *types.StreamCategories) error {
	group, gCtx := errgroup.WithContext(ctx)
	if a.driver.MaxConnections() > 0 {
		group.SetLimit(a.driver.MaxConnections())
	}

	for _, stream := range categories.IncrementalStreams {
		stream := stream
		group.Go(func() error {
			return a.Incremental(gCtx, pool, stream)
		})
	}

	for _, stream := range categories.FullRefreshStreams {
		stream := stream
		group.Go(func() error {
			return a.Backfill(gCtx, pool, stream)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("error occurred while reading streams: %s", err)
	}

	return nil
}

// generateThreadID creates a unique thread ID for a stream
func generateThreadID(streamID string) string {
	return fmt.Sprintf("%s_%s", streamID, utils.ULID())
}
