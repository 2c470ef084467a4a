package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment

	// SinkPath, when non-empty, appends JSON log lines to the given file
	// in addition to the console writer. Sink failures are ignored so
	// logging can never take the agent down.
	SinkPath string
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	o := safe(opts...)

	var w io.Writer
	if o.Environment == core.Production {
		w = os.Stderr
	} else {
		w = zerolog.NewConsoleWriter()
	}

	if o.SinkPath != "" {
		if f, err := os.OpenFile(o.SinkPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = zerolog.MultiLevelWriter(w, f)
		}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
	if o.Environment == core.Production {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Panic() *zerolog.Event {
	return log.Panic()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
