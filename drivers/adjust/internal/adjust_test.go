package driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/types"
)

func newTestDriver(t *testing.T, config *Config, handler http.Handler) *Adjust {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	require.NoError(t, config.Validate())
	client := NewClient(config)
	client.baseURL = server.URL

	return &Adjust{config: config, client: client}
}

func configuredReportStream(a *Adjust, selectedFields ...string) types.StreamInterface {
	stream := a.reportSchema()
	stream.SyncMode = types.INCREMENTAL
	configured := stream.Wrap()
	configured.StreamMetadata = types.StreamMetadata{
		StreamName:     reportStream,
		SelectedFields: selectedFields,
	}
	return configured
}

func TestReadReportPagesByDayAndCheckpoints(t *testing.T) {
	var requestedDays []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.Equal(t, reportPath, r.URL.Path)

		period := r.URL.Query().Get("date_period")
		day := period[:10]
		require.Equal(t, day+":"+day, period, "report must be queried one day per request")
		requestedDays = append(requestedDays, day)

		assert.Contains(t, r.URL.Query().Get("dimensions"), "day")
		assert.Contains(t, r.URL.Query().Get("metrics"), "my_metric")
		assert.Equal(t, "click", r.URL.Query().Get("attribution_type"))

		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"rows": []map[string]any{{
				"day":             day,
				"os_name":         "android",
				"installs":        "5",
				"ctr":             "0.25",
				"my_metric":       "1.5",
				"attr_dependency": map[string]any{"installs": "true"},
			}},
		}))
	})

	a := newTestDriver(t, &Config{
		APIToken:          "token",
		StartDate:         "2024-01-01",
		EndDate:           "2024-01-03",
		AdditionalMetrics: []string{"my_metric"},
	}, handler)
	stream := configuredReportStream(a, "day", "os_name", "installs", "ctr")

	var records []types.Record
	var checkpoints []any
	err := a.StreamIncrementalChanges(context.Background(), stream, nil,
		func(_ context.Context, record types.Record) error {
			records = append(records, record)
			return nil
		},
		func(_ context.Context, cursorValue any) error {
			checkpoints = append(checkpoints, cursorValue)
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, requestedDays)
	assert.Equal(t, []any{"2024-01-01", "2024-01-02", "2024-01-03"}, checkpoints, "cursor committed once per fully produced day")

	require.Equal(t, 3, len(records))
	first := records[0]
	assert.Equal(t, int64(5), first["installs"], "integer metrics are coerced from strings")
	assert.Equal(t, 0.25, first["ctr"], "number metrics are coerced from strings")
	assert.Equal(t, 1.5, first["my_metric"], "additional metrics are assumed numeric")
	assert.Equal(t, "android", first["os_name"], "dimensions stay strings")
	assert.NotContains(t, first, "attr_dependency")
	assert.NotEmpty(t, first[keyHashField])
}

func TestReadReportResumesAfterBookmark(t *testing.T) {
	var requestedDays []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("date_period")
		requestedDays = append(requestedDays, period[:10])
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"rows": []map[string]any{}}))
	})

	a := newTestDriver(t, &Config{
		APIToken:  "token",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-03",
	}, handler)
	stream := configuredReportStream(a, "day", "installs")

	err := a.StreamIncrementalChanges(context.Background(), stream, "2024-01-02",
		func(_ context.Context, _ types.Record) error { return nil },
		func(_ context.Context, _ any) error { return nil })
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-03"}, requestedDays, "resume must only request days after the bookmark")
}

func TestReadReportServerErrorExhaustsRetries(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	})

	a := newTestDriver(t, &Config{
		APIToken:   "token",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-01",
		RetryCount: 2,
	}, handler)
	stream := configuredReportStream(a, "day", "installs")

	checkpoints := 0
	err := a.StreamIncrementalChanges(context.Background(), stream, nil,
		func(_ context.Context, _ types.Record) error { return nil },
		func(_ context.Context, _ any) error { checkpoints++; return nil })

	require.Error(t, err)
	assert.Equal(t, int64(2), requests.Load(), "transient failures retried up to the configured attempts")
	assert.Equal(t, 0, checkpoints, "no cursor commit for a failed day")
}

func TestAuthErrorNotRetried(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	a := newTestDriver(t, &Config{
		APIToken:  "bad-token",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
	}, handler)
	stream := configuredReportStream(a, "day", "installs")

	err := a.StreamIncrementalChanges(context.Background(), stream, nil,
		func(_ context.Context, _ types.Record) error { return nil },
		func(_ context.Context, _ any) error { return nil })

	require.ErrorIs(t, err, constants.ErrAuth)
	assert.Equal(t, int64(1), requests.Load(), "credential rejections must not be retried")
}

func TestClientErrorNotRetried(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		http.Error(w, "bad dimensions", http.StatusBadRequest)
	})

	a := newTestDriver(t, &Config{
		APIToken:  "token",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
	}, handler)
	stream := configuredReportStream(a, "day", "installs")

	err := a.StreamIncrementalChanges(context.Background(), stream, nil,
		func(_ context.Context, _ types.Record) error { return nil },
		func(_ context.Context, _ any) error { return nil })

	require.ErrorIs(t, err, constants.ErrNonRetryable)
	assert.Equal(t, int64(1), requests.Load())
}

func TestReadEvents(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, eventsPath, r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{
			{"id": "purchase", "name": "Purchase", "is_revenue": true},
			{"id": "signup", "name": "Signup", "is_revenue": false},
		}))
	})

	a := newTestDriver(t, &Config{
		APIToken:  "token",
		StartDate: "2024-01-01",
	}, handler)

	stream := a.eventsSchema()
	stream.SyncMode = types.FULLREFRESH

	var records []types.Record
	err := a.StreamRecords(context.Background(), stream.Wrap(), func(_ context.Context, record types.Record) error {
		records = append(records, record)
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, 2, len(records))
	assert.Equal(t, "purchase", records[0]["id"])
}

func TestCredentialProbe(t *testing.T) {
	okDriver := newTestDriver(t, &Config{
		APIToken:  "token",
		StartDate: "2024-01-01",
	}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{}))
	}))
	require.NoError(t, okDriver.client.get(context.Background(), eventsPath, nil, &[]types.Record{}))

	deniedDriver := newTestDriver(t, &Config{
		APIToken:  "bad-token",
		StartDate: "2024-01-01",
	}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	err := deniedDriver.client.get(context.Background(), eventsPath, nil, &[]types.Record{})
	assert.ErrorIs(t, err, constants.ErrAuth)
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	a := &Adjust{}
	config := a.GetConfigRef().(*Config)
	config.APIToken = "token"
	// start_date missing

	assert.Error(t, a.Setup(context.Background()))
}
