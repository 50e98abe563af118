package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/appcollab/appcollab-backend/config"
)

// Init configures the global zerolog logger: a console writer on stderr, plus a rotated JSON
// file when LOG_FILE is set.
func Init(c map[string]string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}
	if file := config.GetString(c, "LOG_FILE", ""); file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    config.GetInt(c, "LOG_MAX_SIZE_MB", 10),
			MaxBackups: config.GetInt(c, "LOG_MAX_BACKUPS", 3),
			MaxAge:     config.GetInt(c, "LOG_MAX_AGE_DAYS", 28),
			Compress:   true,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("service", "appcollab").
		Logger()
	log.Logger = logger
	return logger
}
