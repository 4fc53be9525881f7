package emitter

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/datazip-inc/tap-adjust/types"
)

// Emitter serializes protocol messages to the output stream, one JSON object
// per line. It owns stdout for the whole run: every writer thread goes through
// the same mutex so messages never interleave.
//
// Ordering invariants enforced here:
//   - a SCHEMA message precedes the first RECORD of its stream
//   - STATE messages only ever carry bookmarks of fully emitted pages, since
//     cursors are committed to state after the page's records went through Record
type Emitter struct {
	mu                sync.Mutex
	out               io.Writer
	state             *types.State
	schemaSent        map[string]bool
	recordCount       atomic.Int64
	checkpointRecords int64
}

func New(out io.Writer, state *types.State, checkpointRecords int64) *Emitter {
	return &Emitter{
		out:               out,
		state:             state,
		schemaSent:        make(map[string]bool),
		checkpointRecords: checkpointRecords,
	}
}

func (e *Emitter) write(message *types.Message) error {
	content, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %s", message.Type, err)
	}

	if _, err := e.out.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("failed to write %s message: %s", message.Type, err)
	}

	return nil
}

// Schema emits the stream's SCHEMA message; idempotent per stream.
func (e *Emitter) Schema(stream types.StreamInterface) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.schemaSent[stream.ID()] {
		return nil
	}

	message := &types.Message{
		Type:          types.SchemaMessage,
		Stream:        stream.Name(),
		Schema:        stream.Schema(),
		KeyProperties: stream.GetStream().SourceDefinedPrimaryKey.Array(),
	}
	if stream.GetSyncMode() == types.INCREMENTAL && stream.Cursor() != "" {
		message.BookmarkProperties = []string{stream.Cursor()}
	}

	if err := e.write(message); err != nil {
		return err
	}

	e.schemaSent[stream.ID()] = true
	return nil
}

// Record emits a RECORD message. The stream's SCHEMA must have been emitted
// first; violating that is a programming error, not a data error.
func (e *Emitter) Record(stream types.StreamInterface, record types.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.schemaSent[stream.ID()] {
		return fmt.Errorf("record emitted before schema for stream %s", stream.ID())
	}

	now := time.Now().UTC()
	err := e.write(&types.Message{
		Type:          types.RecordMessage,
		Stream:        stream.Name(),
		Record:        record,
		TimeExtracted: &now,
	})
	if err != nil {
		return err
	}

	if count := e.recordCount.Add(1); e.checkpointRecords > 0 && count%e.checkpointRecords == 0 {
		return e.checkpoint()
	}

	return nil
}

// Checkpoint emits a STATE message and persists the state file atomically.
func (e *Emitter) Checkpoint() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.checkpoint()
}

func (e *Emitter) checkpoint() error {
	if e.state == nil || e.state.IsZero() {
		return nil
	}

	err := e.write(&types.Message{
		Type:  types.StateMessage,
		Value: e.state,
	})
	if err != nil {
		return err
	}

	return e.state.Save()
}

func (e *Emitter) ConnectionStatus(status types.ConnectionStatus, message string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.write(&types.Message{
		Type: types.ConnectionStatusMessage,
		ConnectionStatus: &types.StatusRow{
			Status:  status,
			Message: message,
		},
	})
}

func (e *Emitter) Catalog(catalog *types.Catalog) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.write(&types.Message{
		Type:    types.CatalogMessage,
		Catalog: catalog,
	})
}

func (e *Emitter) Spec(spec any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.write(&types.Message{
		Type: types.SpecMessage,
		Spec: spec,
	})
}

// TotalRecords returns records emitted so far in this run.
func (e *Emitter) TotalRecords() int64 {
	return e.recordCount.Load()
}
