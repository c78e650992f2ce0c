package types

// Status represents the lifecycle state of a persisted record
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}

// RunMode represents the deployment mode of the process
type RunMode string

const (
	ModeLocal RunMode = "local"
	ModeProd  RunMode = "prod"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
