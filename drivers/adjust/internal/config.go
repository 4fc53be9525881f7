package driver

import (
	"fmt"
	"time"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/types"
	"github.com/datazip-inc/tap-adjust/utils"
	"github.com/datazip-inc/tap-adjust/utils/typeutils"
)

// Config represents the configuration for connecting to the Adjust report service
type Config struct {
	APIToken          string                `json:"api_token" validate:"required" description:"Adjust API token; sent as a Bearer credential"`
	StartDate         string                `json:"start_date" validate:"required" description:"First day to extract (YYYY-MM-DD)"`
	EndDate           string                `json:"end_date" description:"Last day to extract (YYYY-MM-DD); defaults to today"`
	AdditionalMetrics []string              `json:"additional_metrics" description:"Custom metrics appended to the report selection; values are treated as numbers"`
	AttributionType   string                `json:"attribution_type" description:"Attribution type filter; defaults to click"`
	AttributionSource string                `json:"attribution_source" description:"Attribution source filter; defaults to dynamic"`
	Currency          string                `json:"currency" description:"Report currency code; empty uses the account default"`
	MaxThreads        int                   `json:"max_threads" description:"Maximum concurrent stream readers"`
	RetryCount        int                   `json:"backoff_retry_count" description:"Retry attempts for transient request failures"`
	RequestTimeoutSec int                   `json:"request_timeout_sec" description:"Per-request timeout in seconds"`
	OnSchemaViolation types.ViolationPolicy `json:"on_schema_violation" description:"Policy for records violating the stream schema: drop or fail"`

	startDate time.Time
	endDate   time.Time
}

// Validate checks the configuration for any missing or invalid fields
// and fills defaults.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("api_token is required")
	}
	if c.StartDate == "" {
		return fmt.Errorf("start_date is required")
	}

	start, err := typeutils.ParseTimestamp(c.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date[%s]: %s", c.StartDate, err)
	}
	c.startDate = start.UTC().Truncate(24 * time.Hour)

	// end_date defaults to today; the paginator clamps it again at request
	// time so long-running syncs never ask for future days
	c.endDate = time.Now().UTC().Truncate(24 * time.Hour)
	if c.EndDate != "" {
		end, err := typeutils.ParseTimestamp(c.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end_date[%s]: %s", c.EndDate, err)
		}
		c.endDate = end.UTC().Truncate(24 * time.Hour)
	}

	if c.endDate.Before(c.startDate) {
		return fmt.Errorf("end_date[%s] precedes start_date[%s]", c.endDate.Format(dayLayout), c.startDate.Format(dayLayout))
	}

	if c.AttributionType == "" {
		c.AttributionType = "click"
	}
	if c.AttributionSource == "" {
		c.AttributionSource = "dynamic"
	}

	if c.MaxThreads <= 0 {
		c.MaxThreads = constants.DefaultThreadCount
	}
	if c.RetryCount <= 0 {
		c.RetryCount = constants.DefaultRetryCount
	}

	switch c.OnSchemaViolation {
	case "":
		c.OnSchemaViolation = types.DropViolation
	case types.DropViolation, types.FailViolation:
	default:
		return fmt.Errorf("invalid on_schema_violation[%s]; valid are %s and %s", c.OnSchemaViolation, types.DropViolation, types.FailViolation)
	}

	return utils.Validate(c)
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec > 0 {
		return time.Duration(c.RequestTimeoutSec) * time.Second
	}
	return constants.DefaultRequestTimeout
}
