package utils

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := NewAppError(ErrCodeTransport, "Log submission failed", "500 - boom")
	assert.Equal(t, "TRANSPORT_ERROR: Log submission failed (500 - boom)", err.Error())
	assert.NotEmpty(t, err.File)
	assert.NotZero(t, err.Line)

	bare := NewAppError(ErrCodeValidation, "stack invalid: web")
	assert.Equal(t, "VALIDATION_ERROR: stack invalid: web", bare.Error())
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewAppError(ErrCodeValidation, "bad"))
	assert.True(t, HasCode(err, ErrCodeValidation))
	assert.False(t, HasCode(err, ErrCodeTransport))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeValidation))
	assert.False(t, HasCode(nil, ErrCodeValidation))
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger("debug", "text", "stdout", ""))
	assert.Equal(t, "debug", GetLogger().GetLevel().String())

	assert.NoError(t, InitLogger("info", "json", "stderr", ""))
	assert.Equal(t, os.Stderr, GetLogger().Out)

	assert.NoError(t, InitLogger("info", "json", "stdout", ""))
	assert.Equal(t, os.Stdout, GetLogger().Out)

	err := InitLogger("loud", "json", "stdout", "")
	assert.True(t, HasCode(err, ErrCodeConfiguration))
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
