package logger

import (
	"os"
	"strings"
	"time"

	"github.com/lshigami/studydeck/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs a console logger on the global zerolog instance. It runs
// before configuration is loaded so config loading itself can log.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Caller().Logger()
}

// Configure applies LOG_LEVEL and LOG_FORMAT once configuration is available.
func Configure(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown LOG_LEVEL, keeping info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(cfg.Log.Format, "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()
	}
	log.Debug().Str("level", level.String()).Str("format", cfg.Log.Format).Msg("Logger configured")
}
