package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/types"
)

func TestConfigValidateDefaults(t *testing.T) {
	config := &Config{
		APIToken:  "token",
		StartDate: "2024-01-01",
	}
	require.NoError(t, config.Validate())

	assert.Equal(t, "click", config.AttributionType)
	assert.Equal(t, "dynamic", config.AttributionSource)
	assert.Equal(t, constants.DefaultThreadCount, config.MaxThreads)
	assert.Equal(t, constants.DefaultRetryCount, config.RetryCount)
	assert.Equal(t, types.DropViolation, config.OnSchemaViolation)
	assert.Equal(t, constants.DefaultRequestTimeout, config.RequestTimeout())

	// end_date defaults to today
	today := time.Now().UTC().Truncate(24 * time.Hour)
	assert.Equal(t, today, config.endDate)
}

func TestConfigValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		config Config
	}{
		{"missing token", Config{StartDate: "2024-01-01"}},
		{"missing start date", Config{APIToken: "token"}},
		{"malformed start date", Config{APIToken: "token", StartDate: "01/01/2024"}},
		{"end before start", Config{APIToken: "token", StartDate: "2024-02-01", EndDate: "2024-01-01"}},
		{"unknown violation policy", Config{APIToken: "token", StartDate: "2024-01-01", OnSchemaViolation: "explode"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Error(t, c.config.Validate())
		})
	}
}

func TestConfigValidateExplicitValues(t *testing.T) {
	config := &Config{
		APIToken:          "token",
		StartDate:         "2024-01-01",
		EndDate:           "2024-01-10",
		OnSchemaViolation: types.FailViolation,
		RequestTimeoutSec: 30,
		MaxThreads:        8,
	}
	require.NoError(t, config.Validate())

	assert.Equal(t, types.FailViolation, config.OnSchemaViolation)
	assert.Equal(t, 30*time.Second, config.RequestTimeout())
	assert.Equal(t, 8, config.MaxThreads)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), config.endDate)
}
