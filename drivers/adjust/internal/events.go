package driver

import (
	"context"
	"fmt"

	"github.com/datazip-inc/tap-adjust/drivers/abstract"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
)

func (a *Adjust) eventsSchema() *types.Stream {
	stream := types.NewStream(eventsStream, namespace).
		WithSyncMode(types.FULLREFRESH).
		WithPrimaryKey("id")

	stream.UpsertField("id", types.STRING, false)
	stream.UpsertField("name", types.STRING, true)
	stream.UpsertField("short_name", types.STRING, true)
	stream.UpsertField("section", types.STRING, true)
	stream.UpsertField("formatting", types.STRING, true)
	stream.UpsertField("is_revenue", types.BOOL, true)
	stream.UpsertField("is_hidden", types.BOOL, true)
	stream.UpsertField("tokens", types.ARRAY, true)
	stream.UpsertField("app_tokens", types.ARRAY, true)

	return stream
}

// readEvents extracts the app event metadata list; the endpoint has no
// pagination and is re-read fully each run.
func (a *Adjust) readEvents(ctx context.Context, processFn abstract.MessageFn) error {
	var events []types.Record
	if err := a.client.get(ctx, eventsPath, nil, &events); err != nil {
		return fmt.Errorf("failed to fetch events: %s", err)
	}

	return utils.ForEach(events, func(event types.Record) error {
		return processFn(ctx, event)
	})
}
