package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/datazip-inc/tap-adjust/constants"
)

// All human-readable logs go to stderr (and a rotating file); stdout is
// reserved for protocol messages.
var logger zerolog.Logger

func init() {
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger = zerolog.New(console).With().Timestamp().Logger()
}

// Init attaches a rotating file writer under CONFIG_FOLDER/logs; called once
// the config folder is known.
func Init() {
	configFolder := viper.GetString(constants.ConfigFolder)
	if configFolder == "" {
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(configFolder, "logs", fmt.Sprintf("sync_%d.log", time.Now().Unix())),
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger = zerolog.New(io.MultiWriter(console, fileWriter)).With().Timestamp().Logger()
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

func Fatal(v ...interface{}) {
	logger.Error().Msg(fmt.Sprint(v...))
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
	os.Exit(1)
}

// LogState prints the final committed state so operators can copy it into the
// next run without digging through the state file.
func LogState(state any) {
	marshaled, err := json.Marshal(state)
	if err != nil {
		Errorf("failed to marshal state for logging: %s", err)
		return
	}

	Infof("committed state: %s", string(marshaled))
}

// FileLogger writes an artifact (catalog, spec) as pretty JSON under the
// config folder so operators can inspect and edit it.
func FileLogger(content any, fileName, fileExtension string) {
	configFolder := viper.GetString(constants.ConfigFolder)
	path := filepath.Join(configFolder, fileName+fileExtension)

	marshaled, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		Fatalf("failed to marshal %s artifact: %s", fileName, err)
	}

	if err := os.WriteFile(path, marshaled, 0o644); err != nil {
		Fatalf("failed to write %s artifact: %s", fileName, err)
	}

	Infof("%s file generated at %s", fileName, path)
}
