package logger

import (
	"go.uber.org/zap"
)

// NewNamed builds a zap logger for env, named after the service.
// "development" gets the human-readable console encoder; everything else JSON.
func NewNamed(env, name string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Named(name), nil
}
