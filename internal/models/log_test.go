package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosedSets(t *testing.T) {
	assert.Len(t, Stacks(), 2)
	assert.Len(t, Levels(), 5)
	assert.Len(t, Packages(), 10)

	for _, s := range Stacks() {
		assert.True(t, s.IsValid(), s)
	}
	for _, l := range Levels() {
		assert.True(t, l.IsValid(), l)
	}
	for _, p := range Packages() {
		assert.True(t, p.IsValid(), p)
	}

	// callers cannot mutate the canonical sets
	got := Stacks()
	got[0] = "mobile"
	assert.Equal(t, StackFrontend, Stacks()[0])
}

func TestParseIsCaseSensitive(t *testing.T) {
	_, ok := ParseStack("frontend")
	assert.True(t, ok)
	_, ok = ParseStack("Frontend")
	assert.False(t, ok)

	_, ok = ParseLevel("WARN")
	assert.False(t, ok)
	_, ok = ParseLevel("warning")
	assert.False(t, ok)

	p, ok := ParsePackage("cron_job")
	assert.True(t, ok)
	assert.Equal(t, PackageCronJob, p)
	_, ok = ParsePackage("cron-job")
	assert.False(t, ok)
	_, ok = ParsePackage("")
	assert.False(t, ok)
}

func TestLevelSeverity(t *testing.T) {
	assert.Equal(t, 0, LevelDebug.Severity())
	assert.Equal(t, 4, LevelFatal.Severity())
	assert.Equal(t, -1, Level("trace").Severity())

	assert.True(t, LevelError.AtLeast(LevelWarn))
	assert.True(t, LevelWarn.AtLeast(LevelWarn))
	assert.False(t, LevelInfo.AtLeast(LevelWarn))
	assert.False(t, Level("trace").AtLeast(LevelDebug))
}

func TestRecordHasMessage(t *testing.T) {
	assert.True(t, LogRecord{Message: " x "}.HasMessage())
	assert.False(t, LogRecord{Message: " \t\n"}.HasMessage())
	assert.False(t, LogRecord{}.HasMessage())
}
