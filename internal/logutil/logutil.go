package logutil

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger  = log.NewWithOptions(os.Stderr, log.Options{Prefix: "postpreview", ReportTimestamp: true, Level: log.InfoLevel})
	verbose bool
	mu      sync.RWMutex
)

// SetVerbose adjusts the global logging level.
func SetVerbose(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = enable
	if enable {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// Verbose reports whether verbose logging is enabled.
func Verbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetFormatter switches between text and JSON log lines.
func SetFormatter(json bool) {
	if json {
		logger.SetFormatter(log.JSONFormatter)
		return
	}
	logger.SetFormatter(log.TextFormatter)
}

// SetLogFile sends log output to a size-rotated file in addition to stderr.
func SetLogFile(path string) io.Closer {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, file))
	return file
}

// Debugf logs a debug message when verbose logging is enabled.
func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

// Warnf logs a warning.
func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

// Info logs msg with structured key/value pairs.
func Info(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// Debug logs msg with structured key/value pairs.
func Debug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}

// Warn logs msg with structured key/value pairs.
func Warn(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
}
