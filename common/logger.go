// Package common provides shared constants, types, and utilities
// used across the window manager preferences tool.
package common

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a configuration string onto a LogLevel.
// Unknown values fall back to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// AppLogger is a structured logger for the application.
// Supports file logging with automatic rotation based on size.
type AppLogger struct {
	mu          sync.Mutex
	level       LogLevel
	zlog        zerolog.Logger
	output      io.Writer
	console     io.Writer
	logFile     *os.File
	filePath    string
	maxFileSize int64 // bytes before rotation
	maxBackups  int
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level       LogLevel
	EnableFile  bool
	MaxFileSize int64 // in bytes, default 5MB
	MaxBackups  int   // number of rotated files to keep, default 5
	// Console replaces stdout, for commands whose stdout is data.
	Console io.Writer
}

var (
	defaultLogger *AppLogger
	loggerOnce    sync.Once
)

const (
	defaultMaxFileSize = 5 * 1024 * 1024 // 5MB
	defaultMaxBackups  = 5
)

// refuseSymlinks fails when any of paths is a symbolic link, so the log
// cannot be redirected onto another file.
func refuseSymlinks(paths ...string) error {
	for _, p := range paths {
		if info, err := os.Lstat(p); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to log through symlink %s", p)
		}
	}
	return nil
}

// newConsoleWriter renders zerolog events in the familiar
// "2006/01/02 15:04:05 [LEVEL] file:line: message" layout.
func newConsoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "2006/01/02 15:04:05",
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			return "[" + ParseLogLevel(s).String() + "]"
		},
		FormatCaller: func(i interface{}) string {
			s, _ := i.(string)
			if s == "" {
				return ""
			}
			return s + ":"
		},
	}
}

func newZeroLogger(w io.Writer, level LogLevel) zerolog.Logger {
	return zerolog.New(newConsoleWriter(w)).Level(level.zerolog()).With().Timestamp().Logger()
}

// GetLogger returns the singleton logger instance.
func GetLogger() *AppLogger {
	loggerOnce.Do(func() {
		defaultLogger = &AppLogger{
			level:       LevelInfo,
			output:      os.Stdout,
			zlog:        newZeroLogger(os.Stdout, LevelInfo),
			maxFileSize: defaultMaxFileSize,
			maxBackups:  defaultMaxBackups,
		}
	})
	return defaultLogger
}

// InitLogger initializes the logger with custom configuration.
// Should be called early in application startup.
func InitLogger(config LogConfig) error {
	logger := GetLogger()
	logger.SetLevel(config.Level)
	if config.Console != nil {
		logger.SetOutput(config.Console)
	}

	if config.MaxFileSize > 0 {
		logger.maxFileSize = config.MaxFileSize
	}
	if config.MaxBackups > 0 {
		logger.maxBackups = config.MaxBackups
	}

	if config.EnableFile {
		return logger.EnableFileLogging()
	}
	return nil
}

// SetLevel sets the minimum log level.
func (l *AppLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zlog = l.zlog.Level(level.zerolog())
}

// SetOutput sets the log output destination.
func (l *AppLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.console = w
	l.zlog = newZeroLogger(w, l.level)
}

// EnableFileLogging tees the log into GetLogDir()/wm-properties.log,
// rotating the file first when it has grown past maxFileSize.
func (l *AppLogger) EnableFileLogging() error {
	dir := GetLogDir()
	if dir == "" {
		return fmt.Errorf("cannot determine log directory")
	}
	path := filepath.Join(dir, LogFileName)

	if err := refuseSymlinks(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if err := refuseSymlinks(path); err != nil {
		return err
	}
	l.rotateIfNeeded(path)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
	}
	l.logFile, l.filePath = file, path

	console := l.console
	if console == nil {
		console = os.Stdout
	}
	l.output = zerolog.MultiLevelWriter(console, file)
	l.zlog = newZeroLogger(l.output, l.level)
	return nil
}

// rotateIfNeeded archives logPath once it reaches maxFileSize. The
// archive is gzipped next to it as wm-properties.log.YYYYMMDD-HHMMSS.gz.
func (l *AppLogger) rotateIfNeeded(logPath string) {
	info, err := os.Stat(logPath)
	if err != nil || info.Size() < l.maxFileSize {
		return
	}

	l.mu.Lock()
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}
	l.mu.Unlock()

	archive := logPath + "." + time.Now().Format("20060102-150405")
	if err := gzipTo(logPath, archive+".gz"); err != nil {
		// Keep the old lines uncompressed rather than lose them.
		os.Rename(logPath, archive)
	} else {
		os.Remove(logPath)
	}

	l.pruneArchives(logPath)
}

func gzipTo(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// pruneArchives keeps the newest maxBackups archives. Archive names
// embed their timestamp, so name order is age order.
func (l *AppLogger) pruneArchives(logPath string) {
	archives, err := filepath.Glob(logPath + ".*")
	if err != nil || len(archives) <= l.maxBackups {
		return
	}
	sort.Strings(archives)
	for _, old := range archives[:len(archives)-l.maxBackups] {
		os.Remove(old)
	}
}

// GetLogDir returns the log directory path.
func GetLogDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, "logs")
}

func (l *AppLogger) log(level LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	caller := ""
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = l.zlog.Debug()
	case LevelWarn:
		event = l.zlog.Warn()
	case LevelError:
		event = l.zlog.Error()
	default:
		event = l.zlog.Info()
	}
	if caller != "" {
		event = event.Str(zerolog.CallerFieldName, caller)
	}
	event.Msg(msg)
}

func (l *AppLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *AppLogger) Info(msg string, args ...interface{}) { l.log(LevelInfo, msg, args...) }
func (l *AppLogger) Warn(msg string, args ...interface{}) { l.log(LevelWarn, msg, args...) }
func (l *AppLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

// LogDebug and the other package-level helpers write to the default
// logger. Format arguments follow fmt.Sprintf.
func LogDebug(msg string, args ...interface{}) { GetLogger().Debug(msg, args...) }
func LogInfo(msg string, args ...interface{}) { GetLogger().Info(msg, args...) }
func LogWarn(msg string, args ...interface{}) { GetLogger().Warn(msg, args...) }
func LogError(msg string, args ...interface{}) { GetLogger().Error(msg, args...) }

// Close stops file logging; console output continues.
func (l *AppLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	l.output = l.console
	if l.output == nil {
		l.output = os.Stdout
	}
	l.zlog = newZeroLogger(l.output, l.level)
	return err
}

// CloseLogger closes the default logger.
func CloseLogger() error {
	return GetLogger().Close()
}
