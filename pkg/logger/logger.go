package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type correlationKey struct{}

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Init builds the global logger. Production emits JSON with ISO8601 timestamps,
// anything else a coloured console. service is attached to every entry.
func Init(environment, service string) error {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if service != "" {
		cfg.InitialFields = map[string]interface{}{"service": service}
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	log = built
	mu.Unlock()
	return nil
}

// Get returns the global logger, falling back to a development logger before Init
func Get() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log, _ = zap.NewDevelopment()
	}
	return log
}

// ContextWithCorrelationID stores a request correlation ID in ctx
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, if any
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// WithContext returns the global logger annotated with the request correlation ID
func WithContext(ctx context.Context) *zap.Logger {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return Get().With(zap.String("correlation_id", id))
	}
	return Get()
}

func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }

// Fatal logs and exits the process
func Fatal(msg string, fields ...zap.Field) { Get().Fatal(msg, fields...) }

// Sync flushes buffered entries
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if log == nil {
		return nil
	}
	return log.Sync()
}
