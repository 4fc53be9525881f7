package driver

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/datazip-inc/tap-adjust/drivers/abstract"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
	"github.com/datazip-inc/tap-adjust/utils/logger"
	"github.com/datazip-inc/tap-adjust/utils/typeutils"
)

// keyHashField is the synthetic primary key: a hash over the selected
// dimension values. The natural key of a report row is whatever dimensions
// the user selected, which downstream systems handle poorly; hashing them
// into one stable column sidesteps the dynamic key entirely.
const keyHashField = "key_hash"

type reportPage struct {
	Rows       []types.Record `json:"rows"`
	TotalCount int64          `json:"total_count"`
}

func (a *Adjust) reportSchema() *types.Stream {
	stream := types.NewStream(reportStream, namespace).
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithCursorField("day").
		WithPrimaryKey(keyHashField)

	for _, dimension := range reportDimensions {
		stream.UpsertField(dimension, types.STRING, dimension != "day")
	}
	for metric, typ := range reportMetrics {
		stream.UpsertField(metric, typ, true)
	}
	for _, metric := range a.config.AdditionalMetrics {
		stream.UpsertField(metric, types.FLOAT64, true)
	}
	stream.UpsertField(keyHashField, types.STRING, false)

	return stream
}

// reportSelection splits the catalog field selection into dimensions and
// metrics. The cursor dimension is always queried; additional metrics from
// config are always appended.
func (a *Adjust) reportSelection(stream types.StreamInterface) ([]string, []string) {
	dimensions := types.NewSet[string]()
	metrics := types.NewSet[string]()

	selected := stream.Self().StreamMetadata.SelectedFields
	if len(selected) == 0 {
		// no explicit selection narrows the report to the cursor dimension
		// and every base metric
		metrics.Insert(utils.MapKeys(reportMetrics)...)
	}
	for _, field := range selected {
		if reportDimensionSet.Exists(field) {
			dimensions.Insert(field)
			continue
		}
		if _, isMetric := reportMetrics[field]; isMetric {
			metrics.Insert(field)
		}
	}

	dimensions.Insert("day")
	metrics.Insert(a.config.AdditionalMetrics...)

	return dimensions.Array(), metrics.Array()
}

// readReport pages through the report one day at a time, committing the
// cursor only after the day's rows were fully produced.
func (a *Adjust) readReport(ctx context.Context, stream types.StreamInterface, startCursor any, processFn abstract.MessageFn, checkpointFn abstract.CheckpointFn) error {
	dimensions, metrics := a.reportSelection(stream)
	logger.Infof("stream %s: selected dimensions %v, metrics %v", stream.ID(), dimensions, metrics)

	begin := a.config.startDate
	if startCursor != nil {
		bookmark, err := typeutils.ParseTimestamp(fmt.Sprintf("%v", startCursor))
		if err != nil {
			return fmt.Errorf("invalid bookmark[%v] for stream %s: %s", startCursor, stream.ID(), err)
		}
		// the bookmarked day was fully emitted; resume after it
		next := bookmark.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
		if next.After(begin) {
			begin = next
		}
	}

	pager := newDatePaginator(begin, a.config.endDate)
	for pager.HasMore() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		day := pager.Next()

		params := url.Values{}
		params.Set("date_period", fmt.Sprintf("%s:%s", day.Format(dayLayout), day.Format(dayLayout)))
		params.Set("dimensions", strings.Join(dimensions, ","))
		params.Set("metrics", strings.Join(metrics, ","))
		params.Set("attribution_type", a.config.AttributionType)
		params.Set("attribution_source", a.config.AttributionSource)
		if a.config.Currency != "" {
			params.Set("currency", a.config.Currency)
		}

		var page reportPage
		if err := a.client.get(ctx, reportPath, params, &page); err != nil {
			return fmt.Errorf("failed to fetch report for day %s: %s", day.Format(dayLayout), err)
		}

		for _, row := range page.Rows {
			if err := processFn(ctx, a.reshape(row, dimensions)); err != nil {
				return err
			}
		}

		if err := checkpointFn(ctx, day.Format(dayLayout)); err != nil {
			return err
		}
	}

	return nil
}

// reshape coerces the all-string API row back to typed values, drops the
// attr_dependency envelope and stamps the primary key hash over the selected
// dimension values.
func (a *Adjust) reshape(row types.Record, dimensions []string) types.Record {
	delete(row, "attr_dependency")

	for field, value := range row {
		str, ok := value.(string)
		if !ok {
			continue
		}

		typ, known := reportMetrics[field]
		if !known {
			if reportDimensionSet.Exists(field) {
				continue
			}
			// additional user-provided metrics are assumed numeric
			typ = types.FLOAT64
		}

		switch typ {
		case types.INT64:
			parsed, err := strconv.ParseInt(str, 10, 64)
			if err != nil {
				logger.Warnf("unable to convert field '%s': %s to integer, leaving '%s' as is", field, str, field)
				continue
			}
			row[field] = parsed
		case types.FLOAT64:
			parsed, err := strconv.ParseFloat(str, 64)
			if err != nil {
				logger.Warnf("unable to convert field '%s': %s to number, leaving '%s' as is", field, str, field)
				continue
			}
			row[field] = parsed
		}
	}

	row[keyHashField] = utils.GetKeysHash(row, dimensions...)
	return row
}
