package logging

import (
	"context"
	"fmt"

	"github.com/smartdevs17/evaluation-logger/internal/models"
)

// Submitter sends a single record and reports the outcome
type Submitter interface {
	Submit(ctx context.Context, record models.LogRecord) models.SubmissionResult
}

// RejectionObserver is implemented by submitters that count and log records
// rejected before they reach the network.
type RejectionObserver interface {
	ObserveRejection(record models.LogRecord, result models.SubmissionResult)
}

// Logger is the calling-code facing API. Each call validates, submits once
// and returns the result; nothing is retained between calls.
type Logger struct {
	submitter      Submitter
	defaultPackage models.Package
}

// NewLogger wraps a submitter. defaultPackage is used by LogUserAction and
// falls back to api when empty.
func NewLogger(submitter Submitter, defaultPackage models.Package) *Logger {
	if defaultPackage == "" {
		defaultPackage = models.PackageAPI
	}
	return &Logger{
		submitter:      submitter,
		defaultPackage: defaultPackage,
	}
}

// DefaultPackage returns the package used for user actions
func (l *Logger) DefaultPackage() models.Package {
	return l.defaultPackage
}

// Log validates the tuple and submits it. Invalid tuples are never submitted;
// they are only reported to the submitter when it observes rejections.
func (l *Logger) Log(ctx context.Context, stack models.Stack, level models.Level, pkg models.Package, message string) models.SubmissionResult {
	record := models.LogRecord{
		Stack:   stack,
		Level:   level,
		Package: pkg,
		Message: message,
	}
	if err := ValidateRecord(record); err != nil {
		result := failureResult(err)
		if observer, ok := l.submitter.(RejectionObserver); ok {
			observer.ObserveRejection(record, result)
		}
		return result
	}
	return l.submitter.Submit(ctx, record)
}

// LogUserAction records a user initiated event such as "Authentication attempt"
// as frontend/info under the default package.
func (l *Logger) LogUserAction(ctx context.Context, description, identifier string) models.SubmissionResult {
	return l.Log(ctx, models.StackFrontend, models.LevelInfo, l.defaultPackage,
		fmt.Sprintf("%s: %s", description, identifier))
}

// Error reports a failure the caller just observed. Callers must not report a
// failed Error result through Error again.
func (l *Logger) Error(ctx context.Context, stack models.Stack, pkg models.Package, message string) models.SubmissionResult {
	return l.Log(ctx, stack, models.LevelError, pkg, message)
}
