package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fastjson"

	"github.com/smartdevs17/evaluation-logger/internal/logging"
	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

const maxRequestBody = 1 << 20

// healthHandler returns service health including evaluation service reachability
func (s *HTTPServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":          "healthy",
		"timestamp":       time.Now().UTC().Format(time.RFC3339Nano),
		"version":         s.config.Version,
		"metrics_enabled": s.config.EnableMetrics,
		"history_size":    s.history.Len(),
	}

	if s.connection != nil {
		reachable := s.connection.TestConnection(r.Context())
		resp["evaluation_service"] = reachable
		if !reachable {
			resp["status"] = "degraded"
		}
		if s.metricsManager != nil {
			s.metricsManager.GetPrometheusMetrics().UpdateComponentHealth("evaluation_service", reachable)
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// submitLogHandler accepts a string-typed log request from the dashboard and
// forwards it through the middleware. Values come from UI controls, so the
// closed vocabulary is enforced here at runtime.
func (s *HTTPServer) submitLogHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	if v.Type() != fastjson.TypeObject {
		s.writeError(w, http.StatusBadRequest, "Log request must be a JSON object", nil)
		return
	}

	record := models.LogRecord{
		Stack:   models.Stack(v.GetStringBytes("stack")),
		Level:   models.Level(v.GetStringBytes("level")),
		Package: models.Package(v.GetStringBytes("package")),
		Message: string(v.GetStringBytes("message")),
	}

	result := s.logs.Log(r.Context(), record.Stack, record.Level, record.Package, record.Message)

	status := http.StatusOK
	switch {
	case result.Success:
	case utils.HasCode(result.Err, utils.ErrCodeValidation):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
	}

	// rejected records were never sent, so they are not part of the history
	if status != http.StatusUnprocessableEntity {
		s.history.Add(record, result)
	}

	s.writeJSON(w, status, result)
}

// historyHandler lists recent submissions, newest first
func (s *HTTPServer) historyHandler(w http.ResponseWriter, r *http.Request) {
	entries := s.history.List()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  entries,
		"total": len(entries),
	})
}

// clearHistoryHandler removes all history entries
func (s *HTTPServer) clearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

type demoResult struct {
	Record  models.LogRecord `json:"record"`
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
}

// demoHandler runs the demo sequence and records every result in the history
func (s *HTTPServer) demoHandler(w http.ResponseWriter, r *http.Request) {
	var results []demoResult

	err := logging.RunSequence(r.Context(), s.logs, logging.DemoRecords(), s.config.DemoDelay,
		func(record models.LogRecord, result models.SubmissionResult) {
			s.history.Add(record, result)
			results = append(results, demoResult{Record: record, Success: result.Success, Message: result.Message})
		})
	if err != nil {
		s.writeError(w, http.StatusRequestTimeout, fmt.Sprintf("Demo interrupted after %d records", len(results)), err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": results})
}

// vocabularyHandler returns the closed sets for dashboard dropdowns
func (s *HTTPServer) vocabularyHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"stacks":   models.Stacks(),
		"levels":   models.Levels(),
		"packages": models.Packages(),
	})
}

// registerHandler runs the registration flow
func (s *HTTPServer) registerHandler(w http.ResponseWriter, r *http.Request) {
	var data models.RegistrationData
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&data); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	if missing := data.MissingFields(); len(missing) > 0 {
		s.writeError(w, http.StatusBadRequest, "Missing required fields", fmt.Errorf("%v", missing))
		return
	}

	result := s.accounts.Register(r.Context(), data)
	s.writeJSON(w, apiStatus(result.Success), result)
}

// authHandler runs the authentication flow
func (s *HTTPServer) authHandler(w http.ResponseWriter, r *http.Request) {
	var data models.AuthData
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&data); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	if missing := data.MissingFields(); len(missing) > 0 {
		s.writeError(w, http.StatusBadRequest, "Missing required fields", fmt.Errorf("%v", missing))
		return
	}

	result := s.accounts.Authenticate(r.Context(), data)
	s.writeJSON(w, apiStatus(result.Success), result)
}

func apiStatus(success bool) int {
	if success {
		return http.StatusOK
	}
	return http.StatusBadGateway
}
