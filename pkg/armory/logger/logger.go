package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Debug mode switches to the development
// encoder with human-readable output.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
