package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log = logrus.New()

type LoggerConfig struct {
	LogLevel     string
	LogFile      string
	LogFileSize  int
	LogFileCount int
	LogCompress  bool
}

// InitLogger routes the global logger to stdout and a rotating log file.
func InitLogger(config LoggerConfig) {
	Log.SetFormatter(&logrus.TextFormatter{})
	Log.SetLevel(levelFor(config.LogLevel))

	filename := config.LogFile
	if filename == "" {
		filename = "mediateca.log"
	}
	mw := io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    config.LogFileSize, // megabytes
		MaxBackups: config.LogFileCount,
		MaxAge:     28,                 //days
		Compress:   config.LogCompress, // disabled by default
	})
	Log.SetOutput(mw)
}

func levelFor(level string) logrus.Level {
	switch {
	case strings.EqualFold(level, "Debug"):
		return logrus.DebugLevel
	case strings.EqualFold(level, "Warning"):
		return logrus.WarnLevel
	case strings.EqualFold(level, "Error"):
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}

// Request returns an entry tagged with the request id, if any.
func Request(requestID string) *logrus.Entry {
	if requestID == "" {
		return logrus.NewEntry(Log)
	}
	return Log.WithField("request_id", requestID)
}
