package constants

// Application Information
const (
	AppName    = "Jury Office Service"
	AppVersion = "1.0.0"
)

const EnvProduction = "production"

// Cache Key Prefixes
const (
	CacheKeyPrefix   = "jury:"
	CacheKeyReminder = CacheKeyPrefix + "reminder:"
)
