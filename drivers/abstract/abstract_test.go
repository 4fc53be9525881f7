package abstract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/types"
)

// fakeDriver produces scripted pages so the orchestration rules can be
// exercised without a live source.
type fakeDriver struct {
	pages    [][]types.Record
	cursors  []any
	policy   types.ViolationPolicy
	failPage int // 1-based page index to fail at; 0 never fails
}

func (f *fakeDriver) GetConfigRef() Config          { return nil }
func (f *fakeDriver) Spec() any                     { return nil }
func (f *fakeDriver) Type() string                  { return "fake" }
func (f *fakeDriver) Setup(_ context.Context) error { return nil }
func (f *fakeDriver) SetupState(_ *types.State)     {}
func (f *fakeDriver) MaxConnections() int           { return 1 }
func (f *fakeDriver) MaxRetries() int               { return 1 }
func (f *fakeDriver) ViolationPolicy() types.ViolationPolicy {
	if f.policy == "" {
		return types.DropViolation
	}
	return f.policy
}

func (f *fakeDriver) GetStreamNames(_ context.Context) ([]string, error) {
	return []string{"numbers"}, nil
}

func (f *fakeDriver) ProduceSchema(_ context.Context, name string) (*types.Stream, error) {
	stream := types.NewStream(name, "fake").
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithCursorField("seq")
	stream.UpsertField("seq", types.STRING, false)
	stream.UpsertField("value", types.INT64, true)
	return stream, nil
}

func (f *fakeDriver) StreamRecords(ctx context.Context, _ types.StreamInterface, processFn MessageFn) error {
	for _, page := range f.pages {
		for _, record := range page {
			if err := processFn(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeDriver) StreamIncrementalChanges(ctx context.Context, _ types.StreamInterface, _ any, processFn MessageFn, checkpointFn CheckpointFn) error {
	for i, page := range f.pages {
		if f.failPage == i+1 {
			return fmt.Errorf("page %d failed", i+1)
		}
		for _, record := range page {
			if err := processFn(ctx, record); err != nil {
				return err
			}
		}
		if err := checkpointFn(ctx, f.cursors[i]); err != nil {
			return err
		}
	}
	return nil
}

func incrementalStream(t *testing.T, driver *fakeDriver) types.StreamInterface {
	t.Helper()
	stream, err := driver.ProduceSchema(context.Background(), "numbers")
	require.NoError(t, err)
	stream.SyncMode = types.INCREMENTAL
	return stream.Wrap()
}

func messageTypes(t *testing.T, out *bytes.Buffer) []string {
	t.Helper()
	var sequence []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		message := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &message))
		sequence = append(sequence, message["type"].(string))
	}
	return sequence
}

func TestIncrementalCommitsCursorPerPage(t *testing.T) {
	viper.Set(constants.StatePath, filepath.Join(t.TempDir(), "state.json"))
	defer viper.Set(constants.StatePath, "")

	driver := &fakeDriver{
		pages: [][]types.Record{
			{{"seq": "a", "value": int64(1)}, {"seq": "b", "value": int64(2)}},
			{{"seq": "c", "value": int64(3)}},
		},
		cursors: []any{"b", "c"},
	}
	a := NewAbstractDriver(driver)
	state := types.NewState()
	a.SetupState(state)

	out := &bytes.Buffer{}
	pool := emitter.New(out, state, 0)
	stream := incrementalStream(t, driver)

	require.NoError(t, a.Incremental(context.Background(), pool, stream))

	assert.Equal(t, []string{"SCHEMA", "RECORD", "RECORD", "STATE", "RECORD", "STATE"}, messageTypes(t, out))
	assert.Equal(t, "c", state.GetCursor(stream.Self(), "seq"))
}

func TestIncrementalFailureKeepsCommittedCursor(t *testing.T) {
	viper.Set(constants.StatePath, filepath.Join(t.TempDir(), "state.json"))
	defer viper.Set(constants.StatePath, "")

	driver := &fakeDriver{
		pages: [][]types.Record{
			{{"seq": "a", "value": int64(1)}},
			{{"seq": "b", "value": int64(2)}},
		},
		cursors:  []any{"a", "b"},
		failPage: 2,
	}
	a := NewAbstractDriver(driver)
	state := types.NewState()
	a.SetupState(state)

	stream := incrementalStream(t, driver)
	err := a.Incremental(context.Background(), emitter.New(&bytes.Buffer{}, state, 0), stream)

	require.Error(t, err)
	assert.Equal(t, "a", state.GetCursor(stream.Self(), "seq"), "the last fully produced page stays committed")
}

func TestIncrementalCursorNeverMovesBackwards(t *testing.T) {
	viper.Set(constants.StatePath, filepath.Join(t.TempDir(), "state.json"))
	defer viper.Set(constants.StatePath, "")

	driver := &fakeDriver{
		pages: [][]types.Record{
			{{"seq": "m", "value": int64(1)}},
			{{"seq": "d", "value": int64(2)}},
		},
		cursors: []any{"m", "d"},
	}
	a := NewAbstractDriver(driver)
	state := types.NewState()
	a.SetupState(state)

	stream := incrementalStream(t, driver)
	require.NoError(t, a.Incremental(context.Background(), emitter.New(&bytes.Buffer{}, state, 0), stream))

	assert.Equal(t, "m", state.GetCursor(stream.Self(), "seq"), "a lower cursor value must not overwrite the bookmark")
}

func TestViolationPolicyDropSkipsRecord(t *testing.T) {
	driver := &fakeDriver{
		pages: [][]types.Record{
			{{"seq": "a", "value": "not-a-number"}, {"seq": "b", "value": int64(2)}},
		},
		policy: types.DropViolation,
	}
	a := NewAbstractDriver(driver)
	a.SetupState(types.NewState())

	out := &bytes.Buffer{}
	stream, err := driver.ProduceSchema(context.Background(), "numbers")
	require.NoError(t, err)
	stream.SyncMode = types.FULLREFRESH

	require.NoError(t, a.Backfill(context.Background(), emitter.New(out, nil, 0), stream.Wrap()))

	sequence := messageTypes(t, out)
	assert.Equal(t, []string{"SCHEMA", "RECORD"}, sequence, "the violating record is dropped, the clean one emitted")
}

func TestViolationPolicyFailAbortsStream(t *testing.T) {
	driver := &fakeDriver{
		pages: [][]types.Record{
			{{"seq": "a", "value": "not-a-number"}},
		},
		policy: types.FailViolation,
	}
	a := NewAbstractDriver(driver)
	a.SetupState(types.NewState())

	stream, err := driver.ProduceSchema(context.Background(), "numbers")
	require.NoError(t, err)
	stream.SyncMode = types.FULLREFRESH

	err = a.Backfill(context.Background(), emitter.New(&bytes.Buffer{}, nil, 0), stream.Wrap())
	assert.Error(t, err, "fail policy must abort on the first violating record")
}

func TestDiscoverDefaultsToIncremental(t *testing.T) {
	a := NewAbstractDriver(&fakeDriver{})

	streams, err := a.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, len(streams))
	assert.Equal(t, types.INCREMENTAL, streams[0].SyncMode)
}
