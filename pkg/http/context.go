package http

import "context"

type realIPKey struct{}

// WithRealIP returns a context whose requests carry ip as `x-real-ip`,
// overriding the client wide setting for one call.
func WithRealIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, realIPKey{}, ip)
}

func RealIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(realIPKey{}).(string)
	return ip, ok && ip != ""
}
