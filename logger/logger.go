package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

func SetupLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	// stdout is reserved for results
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

func SetLevel(lvl int8) {
	zerolog.SetGlobalLevel(zerolog.Level(lvl))
}

func SetOutput(w io.Writer) {
	log.Logger = log.Output(w)
}

func New(cmd, ctx string) zerolog.Logger {
	logger := log.With()

	if cmd != "" {
		logger = logger.Str("cmd", cmd)
	}
	if ctx != "" {
		logger = logger.Str("ctx", ctx)
	}

	return logger.Logger()
}
