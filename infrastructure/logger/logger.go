package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	logger.Out = os.Stderr
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetLevel(log.InfoLevel)
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
}

// Configure applies the configured level and output. LOG_TO_FILE=true writes to logs/<date>.log.
func Configure(level string, toFile bool) {
	if lvl, err := log.ParseLevel(level); err == nil && level != "" {
		logger.SetLevel(lvl)
	}
	if !toFile && os.Getenv("LOG_TO_FILE") != "true" {
		return
	}
	cwd, err := os.Getwd()
	if err != nil {
		logger.WithField("error", err).Warn("Failed get current working directory, keeping stderr")
		return
	}
	logsDir := filepath.Join(cwd, "logs")
	if mkErr := os.MkdirAll(logsDir, 0o755); mkErr != nil {
		logger.Warnf("Failed to create logs directory %s: %v, falling back to stderr", logsDir, mkErr)
		return
	}
	filePath := filepath.Join(logsDir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	f, openErr := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if openErr != nil {
		logger.Warnf("Failed to open log file %s: %v, falling back to stderr", filePath, openErr)
		return
	}
	logger.Out = f
}

// SetOutput redirects log output, mainly for tests and quiet CLI runs.
func SetOutput(w io.Writer) {
	logger.Out = w
}

func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	functionObject := runtime.FuncForPC(function)
	entry := logger.WithFields(log.Fields{
		"function": functionObject.Name(),
		"file":     file,
		"line":     line,
	})

	return entry
}
