package logging

import (
	"context"
	"time"

	"github.com/smartdevs17/evaluation-logger/internal/models"
)

// RecordLogger is anything that validates and submits a (stack, level, package, message) tuple
type RecordLogger interface {
	Log(ctx context.Context, stack models.Stack, level models.Level, pkg models.Package, message string) models.SubmissionResult
}

// DemoRecords returns the sample records used to exercise a deployment end to end
func DemoRecords() []models.LogRecord {
	return []models.LogRecord{
		{Stack: models.StackFrontend, Level: models.LevelInfo, Package: models.PackageAPI, Message: "User logged into dashboard"},
		{Stack: models.StackFrontend, Level: models.LevelDebug, Package: models.PackageAPI, Message: "API call initiated to /user/profile"},
		{Stack: models.StackBackend, Level: models.LevelInfo, Package: models.PackageDB, Message: "Database connection established"},
		{Stack: models.StackBackend, Level: models.LevelWarn, Package: models.PackageController, Message: "High response time detected: 2.5s"},
		{Stack: models.StackFrontend, Level: models.LevelError, Package: models.PackageHandler, Message: "Failed to parse user data"},
	}
}

// RunSequence logs records one after another, waiting delay between them.
// onResult is called after each submission. It stops early and returns the
// context error if ctx is cancelled while waiting.
func RunSequence(ctx context.Context, logger RecordLogger, records []models.LogRecord, delay time.Duration,
	onResult func(models.LogRecord, models.SubmissionResult)) error {

	for i, record := range records {
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		result := logger.Log(ctx, record.Stack, record.Level, record.Package, record.Message)
		if onResult != nil {
			onResult(record, result)
		}
	}
	return nil
}
