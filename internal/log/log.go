package log

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap logger with context-aware hooks.
// Hooks can append fields derived from the context (trace id, request id)
// to every entry without the call site knowing about them.
type Logger struct {
	zap   *zap.Logger
	hooks []Hook

	mu sync.RWMutex
}

// New creates a Logger from the given config. Provided to fx.
func New(cfg Config) *Logger {
	cfg = cfg.withDefaults()

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		logger = zap.NewNop()
	}

	if cfg.Name != "" {
		logger = logger.Named(cfg.Name)
	}

	return &Logger{zap: logger}
}

// AddHook registers a context hook applied to every log entry.
func (l *Logger) AddHook(hook Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hooks = append(l.hooks, hook)
}

func (l *Logger) log(ctx context.Context, level zapcore.Level, msg string, fields ...Field) {
	l.mu.RLock()
	hooks := l.hooks
	l.mu.RUnlock()

	for _, hook := range hooks {
		fields = hook.Apply(ctx, msg, fields...)
	}

	switch level {
	case zapcore.DebugLevel:
		l.zap.Debug(msg, fields...)
	case zapcore.InfoLevel:
		l.zap.Info(msg, fields...)
	case zapcore.WarnLevel:
		l.zap.Warn(msg, fields...)
	case zapcore.ErrorLevel:
		l.zap.Error(msg, fields...)
	default:
		l.zap.Info(msg, fields...)
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

var (
	globalMu     sync.RWMutex
	globalLogger = New(Config{})
)

// SetGlobalConfig replaces the global logger with one built from cfg.
// The context trace hook is carried over.
func SetGlobalConfig(cfg Config) {
	logger := New(cfg)
	logger.AddHook(HookFunc(traceFields))

	globalMu.Lock()
	defer globalMu.Unlock()

	globalLogger = logger
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalLogger
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Error(ctx, msg, fields...)
}
