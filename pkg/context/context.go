package ctxutil

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Payphone-Digital/jury/internal/constants"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey     = constants.CtxKeyRequestID
	UserIDKey        = constants.CtxKeyUserID
	UserRoleKey      = constants.CtxKeyUserRole
	ClientIPKey      = constants.CtxKeyClientIP
	UserAgentKey     = constants.CtxKeyUserAgent
	TraceIDKey       = constants.CtxKeyTraceID
	CorrelationIDKey = constants.CtxKeyCorrelationID
	StartTimeKey     = constants.CtxKeyStartTime
	ModuleKey        = constants.CtxKeyModule
	FunctionKey      = constants.CtxKeyFunction
)

// WithValue adds a value to context
func WithValue(ctx context.Context, key ContextKey, value interface{}) context.Context {
	return context.WithValue(ctx, key, value)
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func WithUserRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, UserRoleKey, role)
}

// WithFunction tags the context with the current layer and operation.
func WithFunction(ctx context.Context, module, function string) context.Context {
	ctx = context.WithValue(ctx, FunctionKey, function)
	return context.WithValue(ctx, ModuleKey, module)
}

// Getter functions
func GetRequestID(ctx context.Context) string {
	return getString(ctx, RequestIDKey)
}

func GetTraceID(ctx context.Context) string {
	return getString(ctx, TraceIDKey)
}

func GetCorrelationID(ctx context.Context) string {
	return getString(ctx, CorrelationIDKey)
}

func GetClientIP(ctx context.Context) string {
	return getString(ctx, ClientIPKey)
}

func GetUserAgent(ctx context.Context) string {
	return getString(ctx, UserAgentKey)
}

func GetUserID(ctx context.Context) string {
	return getString(ctx, UserIDKey)
}

func GetUserRole(ctx context.Context) string {
	return getString(ctx, UserRoleKey)
}

func GetModule(ctx context.Context) string {
	return getString(ctx, ModuleKey)
}

func GetFunction(ctx context.Context) string {
	return getString(ctx, FunctionKey)
}

func GetStartTime(ctx context.Context) time.Time {
	if val, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return val
	}
	return time.Time{}
}

func getString(ctx context.Context, key ContextKey) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(key).(string); ok {
		return val
	}
	return ""
}

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

// NewContextWithRequest creates context with HTTP request information.
// Values already placed by middleware are kept.
func NewContextWithRequest(ctx context.Context, req *http.Request, module, function string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = WithFunction(ctx, module, function)

	if req != nil {
		if GetClientIP(ctx) == "" {
			ctx = context.WithValue(ctx, ClientIPKey, ClientIP(req))
		}
		if GetUserAgent(ctx) == "" {
			ctx = context.WithValue(ctx, UserAgentKey, req.UserAgent())
		}
		if GetRequestID(ctx) == "" {
			if requestID := req.Header.Get(constants.HeaderXRequestID); requestID != "" {
				ctx = context.WithValue(ctx, RequestIDKey, requestID)
			}
		}
	}

	// Set start time if not already set
	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}

	return ctx
}

// ClientIP prefers the first X-Forwarded-For hop, then the socket peer.
func ClientIP(req *http.Request) string {
	if forwarded := req.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
