package logging

import (
	"fmt"

	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

// Validate checks a (stack, level, package, message) tuple against the closed
// vocabulary and returns the accepted record. Fields are checked in that order
// and the first failure is returned as a VALIDATION_ERROR.
func Validate(stack models.Stack, level models.Level, pkg models.Package, message string) (models.LogRecord, error) {
	record := models.LogRecord{
		Stack:   stack,
		Level:   level,
		Package: pkg,
		Message: message,
	}
	if err := ValidateRecord(record); err != nil {
		return models.LogRecord{}, err
	}
	return record, nil
}

// ValidateRecord checks an already constructed record
func ValidateRecord(record models.LogRecord) error {
	switch {
	case !record.Stack.IsValid():
		return invalidField("stack", string(record.Stack))
	case !record.Level.IsValid():
		return invalidField("level", string(record.Level))
	case !record.Package.IsValid():
		return invalidField("package", string(record.Package))
	case !record.HasMessage():
		return invalidField("message", record.Message)
	}
	return nil
}

func invalidField(field, value string) error {
	return utils.NewAppError(utils.ErrCodeValidation, fmt.Sprintf("%s invalid: %s", field, value))
}

// failureResult converts a validation or transport error into the caller-facing result
func failureResult(err error) models.SubmissionResult {
	result := models.SubmissionResult{Success: false, Err: err}
	if appErr, ok := err.(*utils.AppError); ok {
		result.Message = appErr.Message
	} else {
		result.Message = err.Error()
	}
	return result
}
