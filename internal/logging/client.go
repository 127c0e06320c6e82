package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/evaluation-logger/internal/metrics"
	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

const (
	defaultLogsPath  = "/logs"
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Evaluation-Logger/1.0"
)

// DefaultMaxErrorBody caps how much of a failed response body is kept
const DefaultMaxErrorBody = 64 << 10

// HTTPDoer is the subset of *http.Client used to reach the log sink
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures the transport client. It is fixed at construction.
type ClientConfig struct {
	BaseURL      string
	LogsPath     string
	Timeout      time.Duration
	MaxErrorBody int64
	UserAgent    string
}

// Client submits validated log records to the remote log sink. A Client holds
// no mutable state and is safe for concurrent use.
type Client struct {
	endpoint     string
	userAgent    string
	maxErrorBody int64
	httpClient   HTTPDoer
	metrics      *metrics.PrometheusMetrics
	logger       *logrus.Entry
}

// NewClient creates a transport client. A nil doer gets a pooled *http.Client
// with the configured timeout; a nil metrics disables instrumentation.
func NewClient(config *ClientConfig, doer HTTPDoer, pm *metrics.PrometheusMetrics) *Client {
	logsPath := config.LogsPath
	if logsPath == "" {
		logsPath = defaultLogsPath
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxErrorBody := config.MaxErrorBody
	if maxErrorBody <= 0 {
		maxErrorBody = DefaultMaxErrorBody
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	if doer == nil {
		doer = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
		}
	}

	return &Client{
		endpoint:     JoinURL(config.BaseURL, logsPath),
		userAgent:    userAgent,
		maxErrorBody: maxErrorBody,
		httpClient:   doer,
		metrics:      pm,
		logger:       utils.ComponentLogger("log_client"),
	}
}

// Endpoint returns the URL records are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit sends one record in a single POST and reports the outcome. It never
// returns an error or retries; every failure is folded into the result.
func (c *Client) Submit(ctx context.Context, record models.LogRecord) models.SubmissionResult {
	startTime := time.Now()

	if err := ValidateRecord(record); err != nil {
		result := failureResult(err)
		c.ObserveRejection(record, result)
		return result
	}

	result := c.send(ctx, record)

	outcome := metrics.OutcomeSuccess
	if !result.Success {
		outcome = metrics.OutcomeTransportError
	}
	c.observe(record, result, outcome, time.Since(startTime))

	return result
}

// ObserveRejection accounts for a record that failed validation and was
// never sent.
func (c *Client) ObserveRejection(record models.LogRecord, result models.SubmissionResult) {
	c.observe(record, result, metrics.OutcomeValidationError, 0)
}

// send performs the round trip for a record that already passed validation
func (c *Client) send(ctx context.Context, record models.LogRecord) models.SubmissionResult {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return failureResult(utils.NewAppError(utils.ErrCodeTransport, err.Error()))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return failureResult(utils.NewAppError(utils.ErrCodeTransport, err.Error()))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", utils.GenerateID())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failureResult(utils.NewAppError(utils.ErrCodeTransport, err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxErrorBody))
		return models.SubmissionResult{Success: true}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxErrorBody))
	if err != nil {
		body = []byte(err.Error())
	}
	return failureResult(utils.NewAppError(utils.ErrCodeTransport,
		fmt.Sprintf("%d - %s", resp.StatusCode, string(body))))
}

func (c *Client) observe(record models.LogRecord, result models.SubmissionResult, outcome string, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordLogSubmission(record.Stack.String(), record.Level.String(), record.Package.String(), outcome, duration)
	}

	entry := c.logger.WithFields(logrus.Fields{
		"stack":       record.Stack,
		"level":       record.Level,
		"package":     record.Package,
		"success":     result.Success,
		"duration_ms": duration.Milliseconds(),
	})

	if !result.Success {
		entry.WithField("outcome", outcome).Warn("Log submission failed: " + result.Message)
		return
	}

	switch record.Level {
	case models.LevelDebug:
		entry.Debug(record.Message)
	case models.LevelInfo:
		entry.Info(record.Message)
	case models.LevelWarn:
		entry.Warn(record.Message)
	default:
		// fatal is mirrored as error so a remote record never exits this process
		entry.Error(record.Message)
	}
}

// JoinURL appends path to base with exactly one separating slash
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
