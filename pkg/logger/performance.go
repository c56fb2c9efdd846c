package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// PerformanceConfig controls level filtering, sampling and rate limiting
// for the context log builders.
type PerformanceConfig struct {
	MinLogLevel      zapcore.Level `json:"min_log_level"`
	EnableSampling   bool          `json:"enable_sampling"`
	SampleInitial    int           `json:"sample_initial"`
	SampleThereafter int           `json:"sample_thereafter"`
	EnableRateLimit  bool          `json:"enable_rate_limit"`
	MaxLogPerSecond  int           `json:"max_log_per_second"`
}

// DefaultPerformanceConfig is used outside production and development.
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.InfoLevel,
		MaxLogPerSecond: 1000,
	}
}

// ProductionConfig samples repeated entries and caps chatty levels.
func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:      zapcore.InfoLevel,
		EnableSampling:   true,
		SampleInitial:    100,
		SampleThereafter: 10,
		EnableRateLimit:  true,
		MaxLogPerSecond:  500,
	}
}

// DevelopmentConfig logs everything.
func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.DebugLevel,
		MaxLogPerSecond: 10000,
	}
}

func performanceConfigFor(env string) PerformanceConfig {
	switch env {
	case "production":
		return ProductionConfig()
	case "development":
		return DevelopmentConfig()
	default:
		return DefaultPerformanceConfig()
	}
}

// OptimizedLogger filters entries before fields are built.
type OptimizedLogger struct {
	config  PerformanceConfig
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewOptimizedLogger wraps base with the filtering described by config.
func NewOptimizedLogger(base *zap.Logger, config PerformanceConfig) *OptimizedLogger {
	if base == nil {
		base = zap.NewNop()
	}

	if config.EnableSampling {
		base = base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, config.SampleInitial, config.SampleThereafter)
		}))
	}

	limit := rate.Inf
	if config.EnableRateLimit && config.MaxLogPerSecond > 0 {
		limit = rate.Limit(config.MaxLogPerSecond)
	}

	return &OptimizedLogger{
		config:  config,
		logger:  base,
		limiter: rate.NewLimiter(limit, max(config.MaxLogPerSecond, 1)),
	}
}

// ShouldLog reports whether an entry at level passes the filters.
// Warnings and errors are never rate limited.
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}
	if level < zapcore.WarnLevel && !ol.limiter.Allow() {
		return false
	}
	return true
}

// Zap exposes the wrapped logger.
func (ol *OptimizedLogger) Zap() *zap.Logger {
	return ol.logger
}

var optimizedLogger *OptimizedLogger

// GetOptimizedLogger returns the process builder logger, or one wrapping
// a no-op core before InitLogger has run.
func GetOptimizedLogger() *OptimizedLogger {
	mu.RLock()
	defer mu.RUnlock()
	if optimizedLogger == nil {
		return NewOptimizedLogger(zap.NewNop(), DefaultPerformanceConfig())
	}
	return optimizedLogger
}
