package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/evaluation-logger/internal/logging"
	"github.com/smartdevs17/evaluation-logger/internal/metrics"
	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

// Endpoint names, also used as metric labels
const (
	EndpointRegister = "register"
	EndpointAuth     = "auth"
	EndpointHealth   = "health"
)

// Client talks to the evaluation service register, auth and health endpoints.
// Every call is a single round trip with no retry.
type Client struct {
	baseURL      string
	httpClient   logging.HTTPDoer
	maxErrorBody int64
	metrics      *metrics.PrometheusMetrics
	logger       *logrus.Entry
}

// NewClient creates an evaluation service client. A nil doer gets an
// *http.Client with the given timeout.
func NewClient(baseURL string, timeout time.Duration, doer logging.HTTPDoer, pm *metrics.PrometheusMetrics) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:      baseURL,
		httpClient:   doer,
		maxErrorBody: logging.DefaultMaxErrorBody,
		metrics:      pm,
		logger:       utils.ComponentLogger("evaluation_client"),
	}
}

// SetMaxErrorBody caps how much of a non-2xx response body is read into the
// error. Non-positive values keep the current cap.
func (c *Client) SetMaxErrorBody(limit int64) {
	if limit > 0 {
		c.maxErrorBody = limit
	}
}

// Register registers a user and returns the issued client credentials
func (c *Client) Register(ctx context.Context, data models.RegistrationData) models.APIResponse[models.RegistrationResponse] {
	var out models.RegistrationResponse
	if err := c.postJSON(ctx, EndpointRegister, "Registration failed", data, &out); err != nil {
		return models.APIResponse[models.RegistrationResponse]{Success: false, Error: err.Error()}
	}
	return models.APIResponse[models.RegistrationResponse]{Success: true, Data: &out}
}

// Authenticate exchanges client credentials for an access token
func (c *Client) Authenticate(ctx context.Context, data models.AuthData) models.APIResponse[models.AuthResponse] {
	var out models.AuthResponse
	if err := c.postJSON(ctx, EndpointAuth, "Authentication failed", data, &out); err != nil {
		return models.APIResponse[models.AuthResponse]{Success: false, Error: err.Error()}
	}
	return models.APIResponse[models.AuthResponse]{Success: true, Data: &out}
}

// TestConnection reports whether the health endpoint answers with a 2xx status
func (c *Client) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logging.JoinURL(c.baseURL, EndpointHealth), nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(EndpointHealth, "network_error")
		c.logger.WithError(err).Debug("Evaluation service unreachable")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.record(EndpointHealth, strconv.Itoa(resp.StatusCode))
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// postJSON posts payload and decodes a 2xx response into out. Non-2xx
// responses become "<prefix>: <status> - <body>".
func (c *Client) postJSON(ctx context.Context, endpoint, failurePrefix string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeInternal, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, logging.JoinURL(c.baseURL, endpoint), bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(endpoint, "network_error")
		return err
	}
	defer resp.Body.Close()

	c.record(endpoint, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, c.maxErrorBody))
		return fmt.Errorf("%s: %d - %s", failurePrefix, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: invalid response body: %v", failurePrefix, err)
	}
	return nil
}

func (c *Client) record(endpoint, status string) {
	if c.metrics != nil {
		c.metrics.RecordEvaluationRequest(endpoint, status)
	}
}
