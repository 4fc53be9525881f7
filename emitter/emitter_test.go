package emitter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/types"
)

func testStream() types.StreamInterface {
	stream := types.NewStream("report", "adjust").
		WithSyncMode(types.FULLREFRESH, types.INCREMENTAL).
		WithCursorField("day").
		WithPrimaryKey("key_hash")
	stream.UpsertField("day", types.STRING, false)
	stream.UpsertField("installs", types.INT64, true)
	stream.SyncMode = types.INCREMENTAL
	return stream.Wrap()
}

// decodeLines parses the emitter output into one map per protocol message.
func decodeLines(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()

	var messages []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		message := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &message))
		messages = append(messages, message)
	}
	return messages
}

func TestSchemaPrecedesRecords(t *testing.T) {
	out := &bytes.Buffer{}
	e := New(out, types.NewState(), 0)
	stream := testStream()

	err := e.Record(stream, types.Record{"day": "2024-01-01"})
	assert.Error(t, err, "record before schema must be rejected")

	require.NoError(t, e.Schema(stream))
	require.NoError(t, e.Schema(stream), "schema emission is idempotent")
	require.NoError(t, e.Record(stream, types.Record{"day": "2024-01-01", "installs": int64(3)}))

	messages := decodeLines(t, out)
	require.Equal(t, 2, len(messages), "repeated schema must emit once")
	assert.Equal(t, "SCHEMA", messages[0]["type"])
	assert.Equal(t, []any{"key_hash"}, messages[0]["key_properties"])
	assert.Equal(t, []any{"day"}, messages[0]["bookmark_properties"])
	assert.Equal(t, "RECORD", messages[1]["type"])
	assert.NotEmpty(t, messages[1]["time_extracted"])
}

func TestCheckpointSkipsZeroState(t *testing.T) {
	out := &bytes.Buffer{}
	e := New(out, types.NewState(), 0)

	require.NoError(t, e.Checkpoint())
	assert.Zero(t, out.Len(), "empty state must not produce a STATE message")
}

func TestCheckpointEmitsBookmarksAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	viper.Set(constants.StatePath, path)
	defer viper.Set(constants.StatePath, "")

	out := &bytes.Buffer{}
	state := types.NewState()
	e := New(out, state, 0)
	stream := testStream()

	state.SetCursor(stream.Self(), "day", "2024-01-02")
	require.NoError(t, e.Checkpoint())

	messages := decodeLines(t, out)
	require.Equal(t, 1, len(messages))
	assert.Equal(t, "STATE", messages[0]["type"])
	value := messages[0]["value"].(map[string]any)
	bookmarks := value["bookmarks"].(map[string]any)
	assert.Equal(t, "2024-01-02", bookmarks["report"].(map[string]any)["day"])

	loaded, err := types.LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", loaded.GetCursor(stream.Self(), "day"), "checkpoint must persist the state file")
}

func TestRecordCountCheckpointCadence(t *testing.T) {
	viper.Set(constants.StatePath, filepath.Join(t.TempDir(), "state.json"))
	defer viper.Set(constants.StatePath, "")

	out := &bytes.Buffer{}
	state := types.NewState()
	e := New(out, state, 2)
	stream := testStream()

	state.SetCursor(stream.Self(), "day", "2024-01-01")
	require.NoError(t, e.Schema(stream))
	for i := 0; i < 5; i++ {
		require.NoError(t, e.Record(stream, types.Record{"day": "2024-01-01"}))
	}

	stateCount := 0
	for _, message := range decodeLines(t, out) {
		if message["type"] == "STATE" {
			stateCount++
		}
	}
	assert.Equal(t, 2, stateCount, "a STATE message every checkpoint interval")
	assert.Equal(t, int64(5), e.TotalRecords())
}
