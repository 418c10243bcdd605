package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the process-wide instance. It is nil until Init runs.
	Logger *logrus.Logger

	logMu      sync.Mutex
	fileWriter *lumberjack.Logger
)

// Config selects level, format and an optional rotating log file.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // text (default) or json
	OutputFile string // empty means stdout only
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Init builds the logger and mirrors its settings onto the logrus standard
// logger so packages logging through logrus directly share the same sinks.
func Init(config Config) error {
	logMu.Lock()
	defer logMu.Unlock()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	closeFile()

	writers := []io.Writer{os.Stdout}
	if config.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0755); err != nil {
			return err
		}
		fileWriter = &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		}
		writers = append(writers, fileWriter)
	}
	out := io.MultiWriter(writers...)

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(formatter(config.Format))
	logger.SetOutput(out)

	logrus.SetLevel(level)
	logrus.SetFormatter(formatter(config.Format))
	logrus.SetOutput(out)

	Logger = logger
	return nil
}

// Close closes the current log file. A later write reopens it.
func Close() error {
	logMu.Lock()
	defer logMu.Unlock()
	if fileWriter == nil {
		return nil
	}
	return fileWriter.Close()
}

func closeFile() {
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
}

// InitDefault logs at info level to stdout.
func InitDefault() error {
	return Init(Config{Level: "info"})
}

func formatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	}
}

func Infof(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Infof(format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Warnf(format, args...)
	}
}

// WithField returns an entry on the configured logger, or on a fresh
// standard logger before Init.
func WithField(key string, value interface{}) *logrus.Entry {
	if Logger != nil {
		return Logger.WithField(key, value)
	}
	return logrus.NewEntry(logrus.StandardLogger()).WithField(key, value)
}

// Component is shorthand for WithField("component", name).
func Component(name string) *logrus.Entry {
	return WithField("component", name)
}
