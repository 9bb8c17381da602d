package utils

import "go.uber.org/zap"

// NewLogger builds the application logger
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
