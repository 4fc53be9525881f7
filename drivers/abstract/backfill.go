package abstract

import (
	"context"
	"fmt"
	"time"

	"github.com/datazip-inc/tap-adjust/emitter"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

// Backfill runs a full refresh read: every record re-extracted, no bookmark kept.
func (a *AbstractDriver) Backfill(ctx context.Context, pool *emitter.Emitter, stream types.StreamInterface) error {
	threadID := generateThreadID(stream.ID())
	logger.Infof("Thread[%s]: starting full refresh read for stream %s", threadID, stream.ID())

	if err := pool.Schema(stream); err != nil {
		return fmt.Errorf("failed to emit schema for stream %s: %s", stream.ID(), err)
	}

	start := time.Now()
	err := a.driver.StreamRecords(ctx, stream, func(ctx context.Context, record types.Record) error {
		record, err := a.conformRecord(stream, record)
		if err != nil {
			return err
		}
		if record == nil {
			// dropped by the violation policy
			return nil
		}

		return pool.Record(stream, record)
	})
	if err != nil {
		return fmt.Errorf("thread[%s]: full refresh read failed: %s", threadID, err)
	}

	logger.Infof("Thread[%s]: finished reading stream %s in %s", threadID, stream.ID(), time.Since(start).String())
	return nil
}
