// Package log wraps zerolog behind the package-level helpers the rest of
// the service calls.
package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}).
	With().Timestamp().Caller().Logger()

// Init sets the global level from a config value ("debug", "info", "warn",
// "error"). Unknown values keep the default info level.
func Init(level string) {
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func Debug(v ...interface{}) {
	logger.Debug().Msg(fmt.Sprint(v...))
}

func Debugf(format string, v ...interface{}) {
	logger.Debug().Msgf(format, v...)
}

func Info(v ...interface{}) {
	logger.Info().Msg(fmt.Sprint(v...))
}

func Infof(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

func Warn(v ...interface{}) {
	logger.Warn().Msg(fmt.Sprint(v...))
}

func Warnf(format string, v ...interface{}) {
	logger.Warn().Msgf(format, v...)
}

func Error(v ...interface{}) {
	logger.Error().Msg(fmt.Sprint(v...))
}

func Errorf(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
}
