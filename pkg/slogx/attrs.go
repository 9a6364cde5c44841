package slogx

import (
	"log/slog"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
//
// Parameters:
//   - err: The error to be converted into a slog.Attr.
//
// Returns:
//   - slog.Attr: An attribute with the key "error" and the error's message as the value.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Topic creates a slog.Attr naming the topic a log record is about.
//
// Parameters:
//   - name: The name of the topic.
//
// Returns:
//   - slog.Attr: An attribute with the key "topic" and the topic name as the value.
func Topic(name string) slog.Attr {
	return slog.String("topic", name)
}

// Agent creates a slog.Attr naming the agent a log record is about.
//
// Parameters:
//   - name: The name of the agent.
//
// Returns:
//   - slog.Attr: An attribute with the key "agent" and the agent name as the value.
func Agent(name string) slog.Attr {
	return slog.String("agent", name)
}

const (
	// KeyLoggerName is the key for the component logger name.
	KeyLoggerName = "logger"
)

// LoggerName creates a slog.Attr with the provided logger name.
// The attribute key is defined by KeyLoggerName.
//
// Parameters:
//   - name: The name of the logger.
//
// Returns:
//
//	A slog.Attr containing the logger name.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// Logger returns the default logger tagged with the given component name.
// The default logger is looked up on every call, so loggers installed with
// slog.SetDefault after package initialization are honored.
//
// Parameters:
//   - name: The component name, recorded under KeyLoggerName.
//
// Returns:
//
//	A *slog.Logger derived from slog.Default.
func Logger(name string) *slog.Logger {
	return slog.Default().With(LoggerName(name))
}
