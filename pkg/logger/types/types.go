package types

import (
	"go.uber.org/zap"
)

// Logger represents a logger
type Logger struct {
	*zap.SugaredLogger
	LogsPath string
	Name     string
}

// Nop returns a logger that discards everything, handy for tests and tools
// that run before logger.Init.
func Nop() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		Name:          "nop",
	}
}
