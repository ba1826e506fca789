package strata

import (
	"fmt"
	"log"
	"strings"
)

// Logger is the logging contract used by builders and reloading strategies.
// Context is passed as optional key-value maps, merged left to right.
type Logger interface {
	Debug(message string, context ...map[string]interface{})
	Info(message string, context ...map[string]interface{})
	Warn(message string, context ...map[string]interface{})
	Error(message string, context ...map[string]interface{})
}

// NopLogger discards everything. It is the default logger.
type NopLogger struct{}

func (NopLogger) Debug(string, ...map[string]interface{}) {}
func (NopLogger) Info(string, ...map[string]interface{})  {}
func (NopLogger) Warn(string, ...map[string]interface{})  {}
func (NopLogger) Error(string, ...map[string]interface{}) {}

// StdLogger adapts the standard library logger
type StdLogger struct {
	logger *log.Logger
}

func NewStdLogger(logger *log.Logger) *StdLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &StdLogger{logger: logger}
}

func (sl *StdLogger) Debug(message string, context ...map[string]interface{}) {
	sl.write("debug", message, context)
}

func (sl *StdLogger) Info(message string, context ...map[string]interface{}) {
	sl.write("info", message, context)
}

func (sl *StdLogger) Warn(message string, context ...map[string]interface{}) {
	sl.write("warning", message, context)
}

func (sl *StdLogger) Error(message string, context ...map[string]interface{}) {
	sl.write("error", message, context)
}

func (sl *StdLogger) write(level, message string, context []map[string]interface{}) {
	var parts []string
	for _, ctx := range context {
		for k, v := range ctx {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}

	if len(parts) > 0 {
		sl.logger.Printf("[%s] %s %s", level, message, strings.Join(parts, " "))
	} else {
		sl.logger.Printf("[%s] %s", level, message)
	}
}
