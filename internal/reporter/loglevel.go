package reporter

import (
	"fmt"
	"strings"
)

// LogLevel controls how much per-item output a Console prints
type LogLevel int

const (
	LogLevelQuiet LogLevel = iota
	LogLevelNormal
	LogLevelVerbose
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelQuiet:
		return "quiet"
	case LogLevelVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

// ParseLogLevel converts a config/flag string into a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet", "q":
		return LogLevelQuiet, nil
	case "", "normal":
		return LogLevelNormal, nil
	case "verbose", "v", "debug":
		return LogLevelVerbose, nil
	default:
		return LogLevelNormal, fmt.Errorf("invalid log level: %s (must be quiet, normal, or verbose)", s)
	}
}
