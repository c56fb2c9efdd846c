package constants

import "time"

// Standard Response Field Keys
const (
	ResponseFieldMessage   = "message"
	ResponseFieldDetails   = "details"
	ResponseFieldTimestamp = "timestamp"
)

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil && details != "" {
		response[ResponseFieldDetails] = details
	}

	return response
}

// BuildServerErrorResponse is the body of every unhandled failure. It
// never carries internal detail.
func BuildServerErrorResponse(now time.Time) map[string]any {
	return map[string]any{
		ResponseFieldMessage:   MsgInternalError,
		ResponseFieldTimestamp: now.UTC(),
	}
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
