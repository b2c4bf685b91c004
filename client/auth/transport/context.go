package transport

import "context"

type contextKey string

const (
	contextRetriedKey           contextKey = "retried"
	contextSkipAuthorizationKey contextKey = "skipAuthorization"
)

// MarkRetried flags a request as the replay of a refreshed 401.
func MarkRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextRetriedKey, true)
}

func IsRetried(ctx context.Context) bool {
	v, _ := ctx.Value(contextRetriedKey).(bool)
	return v
}

// WithoutAuthorization sends the request without a bearer token and without refresh.
func WithoutAuthorization(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextSkipAuthorizationKey, true)
}

func skipAuthorization(ctx context.Context) bool {
	v, _ := ctx.Value(contextSkipAuthorizationKey).(bool)
	return v
}
