package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultMaxSizeMB  = 50
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 30
)

// Apply sets the global log level and output writers. When logFile is set,
// entries also go to a rotating file next to the console output.
func Apply(level, logFile string) {
	applyLevel(level)

	consoleOutput := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
	var out io.Writer = consoleOutput

	if logFile != "" {
		if err := ensureLogDir(logFile); err != nil {
			log.Logger = zerolog.New(consoleOutput).With().Timestamp().Logger()
			log.Error().Err(err).Str("path", logFile).Msg("Failed to prepare log directory; logging to console only")
			return
		}
		fileOutput := zerolog.ConsoleWriter{
			Out: &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    DefaultMaxSizeMB,
				MaxBackups: DefaultMaxBackups,
				MaxAge:     DefaultMaxAgeDays,
				Compress:   true,
			},
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    true,
		}
		out = zerolog.MultiLevelWriter(consoleOutput, fileOutput)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func applyLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
