package constants

// HTTP Header Names
const (
	HeaderAuthorization  = "Authorization"
	HeaderUserAgent      = "User-Agent"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderXForwardedFor  = "X-Forwarded-For"
)

const BearerPrefix = "Bearer "

// Common HTTP Error Messages
const (
	MsgUnauthorized     = "Unauthorized"
	MsgForbidden        = "Forbidden"
	MsgBadRequest       = "Invalid request format"
	MsgValidationFailed = "Validation failed"
	MsgInternalError    = "An error occurred while processing your request."
	MsgTooManyRequests  = "Rate limit exceeded"
	MsgInvalidID        = "Invalid identifier"
)

// HTTP Success Messages
const (
	MsgJuryAppointed = "Jury members have been successfully appointed."
	MsgUserRestored  = "User restored successfully."
	MsgRestored      = "Resource restored successfully."
)
