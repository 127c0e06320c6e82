// File: internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"

	"github.com/smartdevs17/evaluation-logger/internal/logging"
	"github.com/smartdevs17/evaluation-logger/internal/metrics"
	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port              int           `json:"port"`
	Host              string        `json:"host"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	EnableMetrics     bool          `json:"enable_metrics"`
	EnableHealth      bool          `json:"enable_health"`
	EnableCompression bool          `json:"enable_compression"`
	HistorySize       int           `json:"history_size"`
	DemoDelay         time.Duration `json:"demo_delay"`
	Version           string        `json:"version"`
}

// AccountFlows runs the instrumented registration and authentication flows
type AccountFlows interface {
	Register(ctx context.Context, data models.RegistrationData) models.APIResponse[models.RegistrationResponse]
	Authenticate(ctx context.Context, data models.AuthData) models.APIResponse[models.AuthResponse]
}

// ConnectionTester reports whether the evaluation service is reachable
type ConnectionTester interface {
	TestConnection(ctx context.Context) bool
}

// HTTPServer is the dashboard backend: it accepts log requests from the UI,
// keeps the rolling submission history and fronts the account flows.
type HTTPServer struct {
	config         *ServerConfig
	server         *http.Server
	router         *mux.Router
	logs           logging.RecordLogger
	accounts       AccountFlows
	connection     ConnectionTester
	history        *History
	metricsManager *metrics.Manager
	parsers        fastjson.ParserPool
	logger         *logrus.Entry
	stopUpdater    chan struct{}
	stopOnce       sync.Once
}

// NewHTTPServer creates a new HTTP server. accounts, connection and
// metricsManager may be nil, which disables the routes that need them.
func NewHTTPServer(
	config *ServerConfig,
	logs logging.RecordLogger,
	accounts AccountFlows,
	connection ConnectionTester,
	metricsManager *metrics.Manager,
) (*HTTPServer, error) {
	if logs == nil {
		return nil, utils.NewAppError(utils.ErrCodeConfiguration, "HTTP server requires a logger")
	}

	server := &HTTPServer{
		config:         config,
		logs:           logs,
		accounts:       accounts,
		connection:     connection,
		history:        NewHistory(config.HistorySize),
		metricsManager: metricsManager,
		logger:         utils.ComponentLogger("http_server"),
		stopUpdater:    make(chan struct{}),
	}

	server.setupRouter()

	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      server.Handler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return server, nil
}

// setupRouter sets up the HTTP routes
func (s *HTTPServer) setupRouter() {
	s.router = mux.NewRouter()

	s.router.Use(s.loggingMiddleware)
	if s.metricsManager != nil {
		s.router.Use(s.metricsMiddleware)
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()

	if s.config.EnableHealth {
		api.HandleFunc("/health", s.healthHandler).Methods("GET")
	}

	if s.config.EnableMetrics && s.metricsManager != nil {
		s.router.Handle("/metrics", s.metricsManager.Handler())
	}

	// Log endpoints
	api.HandleFunc("/logs", s.submitLogHandler).Methods("POST")
	api.HandleFunc("/logs/history", s.historyHandler).Methods("GET")
	api.HandleFunc("/logs/history", s.clearHistoryHandler).Methods("DELETE")
	api.HandleFunc("/logs/demo", s.demoHandler).Methods("POST")
	api.HandleFunc("/logs/vocabulary", s.vocabularyHandler).Methods("GET")

	// Account endpoints
	if s.accounts != nil {
		api.HandleFunc("/register", s.registerHandler).Methods("POST")
		api.HandleFunc("/auth", s.authHandler).Methods("POST")
	}
}

// Handler returns the fully wrapped HTTP handler
func (s *HTTPServer) Handler() http.Handler {
	var handler http.Handler = s.router
	if s.config.EnableCompression {
		handler = compressionMiddleware(handler)
	}
	return corsMiddleware(handler)
}

// History returns the server's submission history
func (s *HTTPServer) History() *History {
	return s.history
}

// Start starts the HTTP server
func (s *HTTPServer) Start() error {
	s.logger.WithFields(logrus.Fields{
		"address":         s.server.Addr,
		"metrics_enabled": s.config.EnableMetrics,
	}).Info("Starting HTTP server")

	if s.metricsManager != nil {
		s.updateSystemMetrics()
		go s.systemMetricsUpdater()
	}

	errChan := make(chan error, 1)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server error")
			errChan <- err
		}
	}()

	// Give the server a moment to start and check for immediate binding errors
	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start HTTP server: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// systemMetricsUpdater updates system metrics periodically
func (s *HTTPServer) systemMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.updateSystemMetrics()
		case <-s.stopUpdater:
			return
		}
	}
}

func (s *HTTPServer) updateSystemMetrics() {
	s.metricsManager.UpdateSystemMetrics()
	if s.connection != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.metricsManager.GetPrometheusMetrics().UpdateComponentHealth("evaluation_service", s.connection.TestConnection(ctx))
	}
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop() error {
	s.logger.Info("Stopping HTTP server")

	s.stopOnce.Do(func() { close(s.stopUpdater) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response
func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := map[string]interface{}{
		"error":     message,
		"timestamp": time.Now(),
	}
	if err != nil {
		resp["details"] = err.Error()
	}
	s.writeJSON(w, status, resp)
}
