// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them; services read them without
// importing net/http.
//
// Usage in services (read values):
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	deviceIDKey    struct{}
	sponsorIDKey   struct{}
	sponsorNameKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyDeviceID    = deviceIDKey{}
	ContextKeySponsorID   = sponsorIDKey{}
	ContextKeySponsorName = sponsorNameKey{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// DeviceID retrieves the scanning device identifier from the context.
func DeviceID(ctx context.Context) string {
	if deviceID, ok := ctx.Value(ContextKeyDeviceID).(string); ok {
		return deviceID
	}
	return ""
}

// WithDeviceID injects a scanning device identifier into a context.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, ContextKeyDeviceID, deviceID)
}

// SponsorID retrieves the authenticated sponsor ID set by the sponsor auth
// middleware. Empty when the request carried no sponsor token.
func SponsorID(ctx context.Context) string {
	if sponsorID, ok := ctx.Value(ContextKeySponsorID).(string); ok {
		return sponsorID
	}
	return ""
}

// WithSponsorID injects an authenticated sponsor ID into a context.
func WithSponsorID(ctx context.Context, sponsorID string) context.Context {
	return context.WithValue(ctx, ContextKeySponsorID, sponsorID)
}

// SponsorName retrieves the authenticated sponsor display name.
func SponsorName(ctx context.Context) string {
	if name, ok := ctx.Value(ContextKeySponsorName).(string); ok {
		return name
	}
	return ""
}

// WithSponsorName injects an authenticated sponsor display name.
func WithSponsorName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextKeySponsorName, name)
}
