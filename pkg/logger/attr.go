package logger

import (
	"log/slog"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". Nil errors produce an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RunID records the batch run identifier under "run_id".
func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}

// Seq records the 1-based position of a candidate in its input under "seq".
func Seq(n int) slog.Attr {
	return slog.Int("seq", n)
}

// Status records a validation status under "status".
func Status(s string) slog.Attr {
	return slog.String("status", s)
}

// Rule records the name of the failing rule under "rule".
func Rule(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("rule", name)
}

// Reason records a human-readable rejection reason under "reason".
func Reason(msg string) slog.Attr {
	if msg == "" {
		return slog.Attr{}
	}
	return slog.String("reason", msg)
}

// Count returns an int attribute under the given name.
func Count(name string, n int) slog.Attr {
	return slog.Int(name, n)
}

// Duration returns the standard "duration" attribute.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component tags records with the emitting component.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
