package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	global   *zap.SugaredLogger
	globalMx sync.RWMutex
)

func init() {
	global = zap.NewNop().Sugar()
}

// Init replaces the process logger. Production uses the JSON encoder.
func Init(production bool, level string) error {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	SetLogger(l)
	return nil
}

func SetLogger(l *zap.Logger) {
	globalMx.Lock()
	defer globalMx.Unlock()
	global = l.Sugar()
}

func Sync() {
	_ = get(context.Background()).Sync()
}

// WithFields returns a context whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	return context.WithValue(ctx, ctxKey{}, get(ctx).With(keysAndValues...))
}

func get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}

	globalMx.RLock()
	defer globalMx.RUnlock()
	return global
}

func Debug(ctx context.Context, msg string, keysAndValues ...interface{}) {
	get(ctx).Debugw(msg, keysAndValues...)
}

func Info(ctx context.Context, msg string, keysAndValues ...interface{}) {
	get(ctx).Infow(msg, keysAndValues...)
}

func Warn(ctx context.Context, msg string, keysAndValues ...interface{}) {
	get(ctx).Warnw(msg, keysAndValues...)
}

func Error(ctx context.Context, msg string, keysAndValues ...interface{}) {
	get(ctx).Errorw(msg, keysAndValues...)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	get(ctx).Errorf(format, args...)
}

func Fatal(ctx context.Context, args ...interface{}) {
	get(ctx).Fatal(args...)
}
