package settings

import (
	"context"
)

type contextKey struct{}

var runContextKey contextKey

// IntoContext attaches the run parameters to ctx.
func IntoContext(ctx context.Context, run *Run) context.Context {
	return context.WithValue(ctx, runContextKey, run)
}

// FromContext returns the run parameters attached by IntoContext.
func FromContext(ctx context.Context) (*Run, bool) {
	run, ok := ctx.Value(runContextKey).(*Run)
	return run, ok && run != nil
}

// FromContextOr is FromContext with a fallback for contexts that carry no
// parameters, such as code running before the root command's pre-run hook.
func FromContextOr(ctx context.Context, fallback *Run) *Run {
	if run, ok := FromContext(ctx); ok {
		return run
	}
	return fallback
}
