package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

// EvaluationAPI is the register/auth surface of the evaluation service
type EvaluationAPI interface {
	Register(ctx context.Context, data models.RegistrationData) models.APIResponse[models.RegistrationResponse]
	Authenticate(ctx context.Context, data models.AuthData) models.APIResponse[models.AuthResponse]
}

// ActivityLogger is the part of the logging middleware the flows use
type ActivityLogger interface {
	LogUserAction(ctx context.Context, description, identifier string) models.SubmissionResult
	Error(ctx context.Context, stack models.Stack, pkg models.Package, message string) models.SubmissionResult
}

// Service runs registration and authentication, recording each step
// through the logging middleware.
type Service struct {
	api    EvaluationAPI
	events ActivityLogger
	logger *logrus.Entry
}

// NewService creates an account service
func NewService(api EvaluationAPI, events ActivityLogger) *Service {
	return &Service{
		api:    api,
		events: events,
		logger: utils.ComponentLogger("account"),
	}
}

// Register registers a user with the evaluation service
func (s *Service) Register(ctx context.Context, data models.RegistrationData) models.APIResponse[models.RegistrationResponse] {
	const action = "Registration"

	if missing := data.MissingFields(); len(missing) > 0 {
		return models.APIResponse[models.RegistrationResponse]{Error: missingFieldsError(action, missing)}
	}

	s.events.LogUserAction(ctx, action+" attempt", data.Email)

	result := s.api.Register(ctx, data)
	if result.Success {
		s.events.LogUserAction(ctx, action+" successful", data.Email)
	} else {
		s.reportFailure(ctx, action, result.Error)
	}
	return result
}

// Authenticate obtains an access token from the evaluation service
func (s *Service) Authenticate(ctx context.Context, data models.AuthData) models.APIResponse[models.AuthResponse] {
	const action = "Authentication"

	if missing := data.MissingFields(); len(missing) > 0 {
		return models.APIResponse[models.AuthResponse]{Error: missingFieldsError(action, missing)}
	}

	s.events.LogUserAction(ctx, action+" attempt", data.Email)

	result := s.api.Authenticate(ctx, data)
	if result.Success {
		s.events.LogUserAction(ctx, action+" successful", data.Email)
	} else {
		s.reportFailure(ctx, action, result.Error)
	}
	return result
}

// reportFailure sends the failure once through the middleware. When that
// report fails too, the second failure goes to the local log only.
func (s *Service) reportFailure(ctx context.Context, action, detail string) {
	prefix := action + " failed: "
	message := prefix + strings.TrimPrefix(detail, prefix)

	report := s.events.Error(ctx, models.StackFrontend, models.PackageAPI, message)
	if report.Success {
		return
	}

	s.logger.WithFields(logrus.Fields{
		"action":        action,
		"failure":       message,
		"report_result": report.Message,
	}).Warn("Failure report could not be delivered to the log service")
}

func missingFieldsError(action string, fields []string) string {
	return fmt.Sprintf("%s failed: missing required fields: %s", action, strings.Join(fields, ", "))
}
