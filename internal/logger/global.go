package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type globalFactory struct {
	sync.Mutex
	config              GlobalConfig
	loggers             map[string]*ContextLogger
	context             Context
	base                zerolog.Logger
	output              io.Closer
	packageNameResolver *PackageNameResolver
	nonAlphaNumRegex    *regexp.Regexp
	initialized         bool
}

// Singleton for managing application wide logging.
var globalFactoryImpl = &globalFactory{
	loggers:             make(map[string]*ContextLogger),
	context:             make(Context),
	packageNameResolver: &PackageNameResolver{BasePackage: "github.com/cryptograss/stonemint"},
	nonAlphaNumRegex:    regexp.MustCompile("[^a-zA-Z0-9]+"),
}

// CreateForPackage creates logger named after the caller package.
func CreateForPackage() Logger {
	return Create(globalFactoryImpl.packageNameResolver.PackageName())
}

// Create creates custom named logger. Loggers are cached by name.
func Create(name string) Logger {
	return globalFactoryImpl.create(name)
}

// SetContext adds key to the context of all loggers.
func SetContext(key string, value interface{}) {
	gf := globalFactoryImpl
	gf.Lock()
	defer gf.Unlock()

	gf.context[key] = value
	gf.updateAllLoggers()
}

// ClearContext removes key from the context of all loggers.
func ClearContext(key string) {
	gf := globalFactoryImpl
	gf.Lock()
	defer gf.Unlock()

	delete(gf.context, key)
	gf.updateAllLoggers()
}

// UpdateGlobalConfig replaces the global configuration and rebuilds all loggers.
func UpdateGlobalConfig(config GlobalConfig) error {
	gf := globalFactoryImpl
	gf.Lock()
	defer gf.Unlock()

	return gf.updateFromConfig(config)
}

// initialize applies the default configuration if nothing has been applied yet.
// Caller must hold the lock.
func (gf *globalFactory) initialize() {
	if !gf.initialized {
		// default configuration never opens files so it can't fail
		_ = gf.updateFromConfig(DefaultConfig())
	}
}

func (gf *globalFactory) updateFromConfig(config GlobalConfig) error {
	w, closer, err := config.writer()
	if err != nil {
		return err
	}
	if gf.output != nil {
		if err := gf.output.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing previous log output: %v\n", err)
		}
	}
	gf.output = closer
	gf.config = config

	if config.TimeLocation != "" {
		updateTimeLocation(config.TimeLocation)
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	// levels are applied per logger
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var base zerolog.Logger
	if config.Format == FormatJSON {
		base = zerolog.New(w).With().Timestamp().Logger()
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:          w,
			TimeFormat:   consoleTimeFormat,
			FormatCaller: consoleFormatCallerLastTwoDirs,
		}).With().Timestamp().Logger()
	}
	if config.ShowCaller {
		base = base.With().CallerWithSkipFrameCount(callerSkipFrames).Logger()
	}
	gf.base = base
	gf.initialized = true
	gf.updateAllLoggers()
	return nil
}

func updateTimeLocation(location string) {
	loc, err := time.LoadLocation(location)
	if err != nil {
		loc = time.Local
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(loc)
	}
}

func (gf *globalFactory) updateAllLoggers() {
	if !gf.initialized {
		return
	}
	for name, logger := range gf.loggers {
		logger.update(gf.loggerLevel(name), gf.base, gf.context)
	}
}

func (gf *globalFactory) create(name string) Logger {
	gf.Lock()
	defer gf.Unlock()

	normName := gf.nonAlphaNumRegex.ReplaceAllString(name, "_")
	if logger, ok := gf.loggers[normName]; ok {
		return logger
	}
	// log levels can be configured per logger name, by convention loggers
	// are named after the package they are used in
	cl := newContextLogger(normName, gf.loggerLevel(normName))
	if gf.initialized {
		cl.update(cl.level, gf.base, gf.context)
	}
	gf.loggers[normName] = cl
	return cl
}

func (gf *globalFactory) loggerLevel(loggerName string) LogLevel {
	if level, ok := gf.config.PackageLevels[loggerName]; ok {
		return level
	}
	if !gf.initialized {
		return DefaultConfig().DefaultLevel
	}
	return gf.config.DefaultLevel
}
