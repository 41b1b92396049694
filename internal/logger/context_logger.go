package logger

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type (
	ContextLogger struct {
		name string
		// replaced when the global configuration or context changes, while
		// other goroutines are logging
		zeroLogger atomic.Pointer[zerolog.Logger]
		// guarded by the global factory lock
		level LogLevel
	}

	Context map[string]interface{}
)

// newContextLogger creates the logger but doesn't build the zerolog instance
// yet, so loggers can be created in the var phase before the global
// configuration is applied.
func newContextLogger(name string, level LogLevel) *ContextLogger {
	return &ContextLogger{name: name, level: level}
}

// logger returns the zerolog instance, building it with the global
// configuration on first use.
func (c *ContextLogger) logger() *zerolog.Logger {
	if zl := c.zeroLogger.Load(); zl != nil {
		return zl
	}
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()
	if zl := c.zeroLogger.Load(); zl != nil {
		return zl
	}
	globalFactoryImpl.initialize()
	c.update(c.level, globalFactoryImpl.base, globalFactoryImpl.context)
	return c.zeroLogger.Load()
}

func (c *ContextLogger) update(level LogLevel, base zerolog.Logger, context Context) {
	c.level = level
	zl := base.Level(toZeroLevel(level)).With().Str("logger", c.name)
	for key, value := range context {
		zl = zl.Interface(key, value)
	}
	l := zl.Logger()
	c.zeroLogger.Store(&l)
}

func (c *ContextLogger) Trace(format string, args ...interface{}) {
	c.logMessage(func(l *zerolog.Logger) *zerolog.Event { return l.Trace() }, format, args)
}

func (c *ContextLogger) Debug(format string, args ...interface{}) {
	c.logMessage(func(l *zerolog.Logger) *zerolog.Event { return l.Debug() }, format, args)
}

func (c *ContextLogger) Info(format string, args ...interface{}) {
	c.logMessage(func(l *zerolog.Logger) *zerolog.Event { return l.Info() }, format, args)
}

func (c *ContextLogger) Warning(format string, args ...interface{}) {
	c.logMessage(func(l *zerolog.Logger) *zerolog.Event { return l.Warn() }, format, args)
}

func (c *ContextLogger) Error(format string, args ...interface{}) {
	c.logMessage(func(l *zerolog.Logger) *zerolog.Event { return l.Error() }, format, args)
}

func (c *ContextLogger) logMessage(level func(*zerolog.Logger) *zerolog.Event, format string, args []interface{}) {
	event := level(c.logger())
	if len(args) == 0 {
		event.Msg(format)
	} else {
		event.Msgf(format, args...)
	}
}

// ChangeLevel changes the level of the context logger.
func (c *ContextLogger) ChangeLevel(newLevel LogLevel) {
	c.logger()
	globalFactoryImpl.Lock()
	defer globalFactoryImpl.Unlock()
	c.level = newLevel
	l := c.zeroLogger.Load().Level(toZeroLevel(newLevel))
	c.zeroLogger.Store(&l)
}

func toZeroLevel(lvl LogLevel) zerolog.Level {
	switch lvl {
	case NONE:
		return zerolog.Disabled
	case TRACE:
		return zerolog.TraceLevel
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARNING:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		panic(fmt.Sprintf("unknown level: %d", lvl))
	}
}
