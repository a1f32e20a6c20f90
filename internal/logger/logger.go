package logger

import "go.uber.org/zap"

// New builds a zap logger matching the environment: JSON output in
// production, human-readable output everywhere else.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
