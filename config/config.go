package config

import (
	"errors"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	l "github.com/rs/zerolog/log"
	"pedro.to/rollstats/logger"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	// Decimals used when printing means and deviations
	Precision int
	// Output format, FormatText or FormatJSON
	Format string

	Debug bool
)

type SupportStringconv interface {
	~int | ~int8 | ~int64 | ~float32 | ~float64 | ~string | ~bool
}

func conv(v string, to reflect.Kind) any {
	var err error

	if to == reflect.String {
		return v
	}

	if to == reflect.Bool {
		if bool, err := strconv.ParseBool(v); err == nil {
			return bool
		}
	}

	if to == reflect.Int {
		if int, err := strconv.Atoi(v); err == nil {
			return int
		}
	}

	if to == reflect.Int8 {
		if i64, err := strconv.ParseInt(v, 10, 8); err == nil {
			return int8(i64)
		}
	}

	if to == reflect.Int64 {
		if i64, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i64
		}
	}

	if to == reflect.Float32 {
		if f64, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f64)
		}
	}

	if to == reflect.Float64 {
		if f64, err := strconv.ParseFloat(v, 64); err == nil {
			return f64
		}
	}

	l.Panic().
		Err(err).
		Str("ctx", "config").
		Str("value", v).
		Msg("unsupported config value")
	return nil
}

func Env[T SupportStringconv](key string, def T) T {
	if v, ok := os.LookupEnv(key); ok {
		val := conv(v, reflect.TypeOf(def).Kind()).(T)
		l.Debug().
			Str("ctx", "config").
			Msgf("=> [%s]: %v", key, val)
		return val
	}
	return def
}

// LoadDotEnv loads `path` into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func LoadVars() {
	l := l.With().
		Str("ctx", "config").
		Logger()

	if err := LoadDotEnv(".env"); err != nil {
		l.Panic().
			Err(err).
			Msg("couldn't load .env file")
	}

	l.Debug().Msg("reading environment variables")

	Precision = Env("ROLLSTATS_PRECISION", 2)
	Format = Env("ROLLSTATS_FORMAT", FormatText)

	Debug = Env("DEBUG", false)
	logger.SetLevel(Env("LOG_LEVEL", int8(zerolog.InfoLevel)))
	if Debug {
		logger.SetLevel(int8(zerolog.DebugLevel))
	}
}

func Setup() {
	logger.SetupLogger()
	LoadVars()
}
