package config

import (
	"context"
	"os"
)

type ctxKey struct{}
type workDirKey struct{}

// WithConfig returns a new context with the config stored in it.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config stored in ctx, or nil if none is set.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(ctxKey{}).(*Config)
	return cfg
}

// WithWorkDir returns a new context with the working directory stored in it.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the working directory stored in ctx.
// Falls back to os.Getwd when unset or empty.
func WorkDirFromContext(ctx context.Context) string {
	if dir, _ := ctx.Value(workDirKey{}).(string); dir != "" {
		return dir
	}
	wd, _ := os.Getwd()
	return wd
}
