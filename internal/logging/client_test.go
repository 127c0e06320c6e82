package logging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdevs17/evaluation-logger/internal/metrics"
	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

// sinkServer is a stub log sink that counts requests and records the last body
type sinkServer struct {
	*httptest.Server
	calls   atomic.Int32
	mu      sync.Mutex
	last    models.LogRecord
	headers http.Header
}

func newSinkServer(t *testing.T, status int, body string) *sinkServer {
	t.Helper()
	s := &sinkServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		var record models.LogRecord
		json.NewDecoder(r.Body).Decode(&record)
		s.mu.Lock()
		s.last = record
		s.headers = r.Header.Clone()
		s.mu.Unlock()
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

type failingDoer struct {
	err   error
	calls atomic.Int32
}

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return nil, d.err
}

func validRecord() models.LogRecord {
	return models.LogRecord{
		Stack:   models.StackBackend,
		Level:   models.LevelInfo,
		Package: models.PackageDB,
		Message: "Database connection established",
	}
}

func TestSubmitSuccess(t *testing.T) {
	sink := newSinkServer(t, http.StatusCreated, `{"logID":"abc"}`)
	client := NewClient(&ClientConfig{BaseURL: sink.URL}, nil, nil)

	result := client.Submit(context.Background(), validRecord())

	assert.True(t, result.Success)
	assert.Empty(t, result.Message)
	assert.NoError(t, result.Err)
	assert.Equal(t, int32(1), sink.calls.Load())

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, validRecord(), sink.last)
	assert.Equal(t, "application/json", sink.headers.Get("Content-Type"))
	assert.NotEmpty(t, sink.headers.Get("X-Request-ID"))
}

func TestSubmitPostsToLogsPath(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(&ClientConfig{BaseURL: srv.URL + "/evaluation-service/"}, nil, nil)
	require.True(t, client.Submit(context.Background(), validRecord()).Success)

	assert.Equal(t, "/evaluation-service/logs", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestSubmitWireFormat(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(&ClientConfig{BaseURL: srv.URL}, nil, nil)
	record := models.LogRecord{Stack: models.StackFrontend, Level: models.LevelWarn, Package: models.PackageCronJob, Message: "slow"}
	require.True(t, client.Submit(context.Background(), record).Success)

	assert.Equal(t, map[string]interface{}{
		"stack":   "frontend",
		"level":   "warn",
		"package": "cron_job",
		"message": "slow",
	}, raw)
}

func TestSubmitNonSuccessStatus(t *testing.T) {
	sink := newSinkServer(t, http.StatusInternalServerError, "server error")
	client := NewClient(&ClientConfig{BaseURL: sink.URL}, nil, nil)

	result := client.Submit(context.Background(), validRecord())

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "500")
	assert.Contains(t, result.Message, "server error")
	assert.Equal(t, "500 - server error", result.Message)
	assert.True(t, utils.HasCode(result.Err, utils.ErrCodeTransport))
}

func TestSubmitErrorBodyIsCapped(t *testing.T) {
	sink := newSinkServer(t, http.StatusBadRequest, "abcdefghij")
	client := NewClient(&ClientConfig{BaseURL: sink.URL, MaxErrorBody: 4}, nil, nil)

	result := client.Submit(context.Background(), validRecord())
	assert.Equal(t, "400 - abcd", result.Message)
}

func TestSubmitNetworkFault(t *testing.T) {
	doer := &failingDoer{err: errors.New("dial tcp 10.0.0.1:80: connect: connection refused")}
	client := NewClient(&ClientConfig{BaseURL: "http://10.0.0.1"}, doer, nil)

	var result models.SubmissionResult
	assert.NotPanics(t, func() {
		result = client.Submit(context.Background(), validRecord())
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "connection refused")
	assert.True(t, utils.HasCode(result.Err, utils.ErrCodeTransport))
	assert.Equal(t, int32(1), doer.calls.Load())
}

func TestSubmitUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(&ClientConfig{BaseURL: url, Timeout: time.Second}, nil, nil)
	result := client.Submit(context.Background(), validRecord())

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestSubmitBadBaseURL(t *testing.T) {
	client := NewClient(&ClientConfig{BaseURL: "://nowhere"}, nil, nil)
	result := client.Submit(context.Background(), validRecord())

	assert.False(t, result.Success)
	assert.True(t, utils.HasCode(result.Err, utils.ErrCodeTransport))
}

func TestSubmitRejectsInvalidRecordWithoutNetwork(t *testing.T) {
	sink := newSinkServer(t, http.StatusOK, "")
	client := NewClient(&ClientConfig{BaseURL: sink.URL}, nil, nil)

	invalid := []models.LogRecord{
		{Stack: "web", Level: models.LevelInfo, Package: models.PackageAPI, Message: "m"},
		{Stack: models.StackFrontend, Level: "notice", Package: models.PackageAPI, Message: "m"},
		{Stack: models.StackFrontend, Level: models.LevelInfo, Package: "ui", Message: "m"},
		{Stack: models.StackFrontend, Level: models.LevelInfo, Package: models.PackageAPI, Message: "  "},
	}
	for _, record := range invalid {
		result := client.Submit(context.Background(), record)
		assert.False(t, result.Success)
		assert.True(t, utils.HasCode(result.Err, utils.ErrCodeValidation))
	}

	assert.Equal(t, int32(0), sink.calls.Load())
}

func TestSubmitRecordsMetrics(t *testing.T) {
	sink := newSinkServer(t, http.StatusServiceUnavailable, "down")
	pm := metrics.NewManager().GetPrometheusMetrics()
	client := NewClient(&ClientConfig{BaseURL: sink.URL}, nil, pm)

	client.Submit(context.Background(), validRecord())
	client.Submit(context.Background(), models.LogRecord{Stack: "nope"})

	assert.Equal(t, 1.0, testutil.ToFloat64(pm.LogSubmissionsTotal.WithLabelValues("backend", "info", "db", metrics.OutcomeTransportError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.LogSubmissionsTotal.WithLabelValues("nope", "", "", metrics.OutcomeValidationError)))
}

func TestSubmitConcurrentResultsStayCorrelated(t *testing.T) {
	// the sink fails every record whose message is odd and echoes the message back
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var record models.LogRecord
		json.NewDecoder(r.Body).Decode(&record)
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)

		var n int
		fmt.Sscanf(record.Message, "record-%d", &n)
		if n%2 == 1 {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, record.Message)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(&ClientConfig{BaseURL: srv.URL}, nil, nil)

	const n = 40
	results := make([]models.SubmissionResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := validRecord()
			record.Message = fmt.Sprintf("record-%d", i)
			results[i] = client.Submit(context.Background(), record)
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		if i%2 == 1 {
			assert.False(t, result.Success, i)
			assert.Equal(t, fmt.Sprintf("502 - record-%d", i), result.Message)
		} else {
			assert.True(t, result.Success, i)
			assert.Empty(t, result.Message)
		}
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://h/svc/logs", JoinURL("http://h/svc", "/logs"))
	assert.Equal(t, "http://h/svc/logs", JoinURL("http://h/svc/", "logs"))
	assert.Equal(t, "http://h/logs", JoinURL("http://h//", "//logs"))
}
