package driver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"

	"github.com/datazip-inc/tap-adjust/constants"
	"github.com/datazip-inc/tap-adjust/utils/logger"
)

const (
	defaultBaseURL = "https://dash.adjust.com"

	reportPath = "/control-center/reports-service/report"
	eventsPath = "/control-center/reports-service/events"
)

// Client is a thin wrapper over the report service REST API. Transient
// failures (network errors, 408, 429, 5xx) are retried with exponential
// backoff; credential rejections and other client errors are surfaced
// immediately.
type Client struct {
	baseURL    string
	apiToken   string
	retryCount int
	http       *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiToken:   config.APIToken,
		retryCount: config.RetryCount,
		http: &http.Client{
			Timeout: config.RequestTimeout(),
		},
	}
}

// get fetches path with params and decodes the JSON response body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to build request for path %s: %s", path, err))
		}
		req.URL.RawQuery = params.Encode()
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request failed for path %s: %s", path, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode response for path %s: %s", path, err))
			}
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return retry.Unrecoverable(fmt.Errorf("%w: status %d for path %s; verify the api_token has report service access", constants.ErrAuth, resp.StatusCode, path))
		case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("%d %s error: %s for path: %s", resp.StatusCode, errorClass(resp.StatusCode), readBody(resp.Body), path)
		default:
			return retry.Unrecoverable(fmt.Errorf("%w: %d %s error: %s for path: %s", constants.ErrNonRetryable, resp.StatusCode, errorClass(resp.StatusCode), readBody(resp.Body), path))
		}
	},
		retry.Context(ctx),
		retry.Attempts(uint(c.retryCount)),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warnf("retrying request to %s (attempt %d): %s", path, attempt+1, err)
		}),
	)
}

func errorClass(status int) string {
	if status >= 400 && status < 500 {
		return "client"
	}
	return "server"
}

// readBody returns a bounded slice of the response body for error messages;
// response bodies never contain the token.
func readBody(body io.Reader) string {
	content, err := io.ReadAll(io.LimitReader(body, 1024))
	if err != nil {
		return ""
	}
	return string(content)
}
