package tenant

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithProfile stores the resolved profile in ctx.
func WithProfile(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// ProfileFromContext returns the resolved profile.
func ProfileFromContext(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(contextKey{}).(Profile)
	return p, ok
}

// UserLoggerExtractor adds user_id to log records.
func UserLoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p, ok := ProfileFromContext(ctx); ok {
			return slog.String("user_id", p.ID.String()), true
		}
		return slog.Attr{}, false
	}
}

// TenantLoggerExtractor adds tenant_id to log records.
func TenantLoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p, ok := ProfileFromContext(ctx); ok {
			return slog.String("tenant_id", p.TenantID.String()), true
		}
		return slog.Attr{}, false
	}
}
