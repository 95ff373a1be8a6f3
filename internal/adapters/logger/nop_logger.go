package logger

import "github.com/baditaflorin/go_ichiran_gloss/internal/ports"

// NopLogger discards every record.
type NopLogger struct{}

// NewNopLogger returns a logger that discards every record.
func NewNopLogger() ports.Logger {
	return NopLogger{}
}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Close() error                 { return nil }
