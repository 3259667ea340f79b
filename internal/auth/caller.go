package auth

import "context"

type callerContextKey struct{}

// WithCaller returns a context carrying the authenticated caller's email.
func WithCaller(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, callerContextKey{}, email)
}

// CallerFromContext returns the caller's email, if the request was authenticated.
func CallerFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(callerContextKey{}).(string)
	return email, ok && email != ""
}
