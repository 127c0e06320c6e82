package utils

import "github.com/google/uuid"

// GenerateID returns a random identifier for history entries and request tracing
func GenerateID() string {
	return uuid.NewString()
}
