package models

import "strings"

// Stack identifies which side of the instrumented system produced an event
type Stack string

const (
	StackFrontend Stack = "frontend"
	StackBackend  Stack = "backend"
)

// Level is the severity of a log event, ordered debug < info < warn < error < fatal
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// Package identifies the subsystem or layer that produced an event.
// Any package is accepted under either stack.
type Package string

const (
	PackageAPI        Package = "api"
	PackageCache      Package = "cache"
	PackageController Package = "controller"
	PackageCronJob    Package = "cron_job"
	PackageDB         Package = "db"
	PackageDomain     Package = "domain"
	PackageHandler    Package = "handler"
	PackageRepository Package = "repository"
	PackageRoute      Package = "route"
	PackageService    Package = "service"
)

var (
	stacks   = []Stack{StackFrontend, StackBackend}
	levels   = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}
	packages = []Package{
		PackageAPI, PackageCache, PackageController, PackageCronJob, PackageDB,
		PackageDomain, PackageHandler, PackageRepository, PackageRoute, PackageService,
	}
)

// Stacks returns the closed set of stacks in canonical order
func Stacks() []Stack {
	return append([]Stack(nil), stacks...)
}

// Levels returns the closed set of levels from least to most severe
func Levels() []Level {
	return append([]Level(nil), levels...)
}

// Packages returns the closed set of packages in canonical order
func Packages() []Package {
	return append([]Package(nil), packages...)
}

func (s Stack) String() string { return string(s) }

// IsValid reports whether s is a member of the closed stack set
func (s Stack) IsValid() bool {
	for _, v := range stacks {
		if s == v {
			return true
		}
	}
	return false
}

func (l Level) String() string { return string(l) }

// IsValid reports whether l is a member of the closed level set
func (l Level) IsValid() bool {
	return l.Severity() >= 0
}

// Severity returns the ordinal of l, or -1 when l is not a known level
func (l Level) Severity() int {
	for i, v := range levels {
		if l == v {
			return i
		}
	}
	return -1
}

// AtLeast reports whether l is at least as severe as other
func (l Level) AtLeast(other Level) bool {
	return l.IsValid() && l.Severity() >= other.Severity()
}

func (p Package) String() string { return string(p) }

// IsValid reports whether p is a member of the closed package set
func (p Package) IsValid() bool {
	for _, v := range packages {
		if p == v {
			return true
		}
	}
	return false
}

// ParseStack converts external input to a Stack. Matching is case-sensitive.
func ParseStack(value string) (Stack, bool) {
	s := Stack(value)
	return s, s.IsValid()
}

// ParseLevel converts external input to a Level. Matching is case-sensitive.
func ParseLevel(value string) (Level, bool) {
	l := Level(value)
	return l, l.IsValid()
}

// ParsePackage converts external input to a Package. Matching is case-sensitive.
func ParsePackage(value string) (Package, bool) {
	p := Package(value)
	return p, p.IsValid()
}

// LogRecord is the unit submitted to the remote log sink
type LogRecord struct {
	Stack   Stack   `json:"stack"`
	Level   Level   `json:"level"`
	Package Package `json:"package"`
	Message string  `json:"message"`
}

// HasMessage reports whether the message is non-empty after trimming
func (r LogRecord) HasMessage() bool {
	return strings.TrimSpace(r.Message) != ""
}

// SubmissionResult is returned to the caller for every submission attempt
type SubmissionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	// Err is a *utils.AppError carrying VALIDATION_ERROR or TRANSPORT_ERROR on failure
	Err error `json:"-"`
}
