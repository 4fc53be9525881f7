package abstract

import (
	"context"
	"fmt"
	"time"

	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils/logger"
	"github.com/datazip-inc/tap-adjust/utils/typeutils"
)

// Incremental resumes a stream from its committed bookmark and advances the
// bookmark one fully-emitted page at a time. The cursor never moves past a
// page that has not been emitted downstream, so a crashed run resumes with
// at-least-once delivery.
func (a *AbstractDriver) Incremental(ctx context.Context, pool *emitter.Emitter, stream types.StreamInterface) error {
	cursorField := stream.Cursor()
	if cursorField == "" {
		return fmt.Errorf("stream %s configured incremental without cursor field", stream.ID())
	}

	threadID := generateThreadID(stream.ID())
	committedCursor := a.state.GetCursor(stream.Self(), cursorField)
	stream.Self().InitialCursorStateValue = committedCursor
	if committedCursor != nil {
		logger.Infof("Thread[%s]: resuming stream %s from bookmark %v", threadID, stream.ID(), committedCursor)
	} else {
		logger.Infof("Thread[%s]: no bookmark for stream %s, starting from configured start", threadID, stream.ID())
	}

	if err := pool.Schema(stream); err != nil {
		return fmt.Errorf("failed to emit schema for stream %s: %s", stream.ID(), err)
	}

	start := time.Now()
	err := a.driver.StreamIncrementalChanges(ctx, stream, committedCursor,
		func(ctx context.Context, record types.Record) error {
			record, err := a.conformRecord(stream, record)
			if err != nil {
				return err
			}
			if record == nil {
				return nil
			}

			return pool.Record(stream, record)
		},
		func(ctx context.Context, cursorValue any) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			formatted := typeutils.FormatCursorValue(cursorValue)
			// bookmarks are monotonically non-decreasing within a run
			if typeutils.Compare(formatted, committedCursor) != 1 {
				return nil
			}

			a.state.SetCursor(stream.Self(), cursorField, formatted)
			committedCursor = formatted
			return pool.Checkpoint()
		})
	if err != nil {
		return fmt.Errorf("thread[%s]: incremental read failed: %s", threadID, err)
	}

	logger.Infof("Thread[%s]: finished reading stream %s in %s", threadID, stream.ID(), time.Since(start).String())
	return nil
}
