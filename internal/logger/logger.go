// Package logger writes daystreak's diagnostics to a rotating file under the
// local data directory. Nothing reaches the terminal unless debug is on.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/daystreak/internal/constants"
)

// Logger is nil until Init runs; the package helpers are no-ops until then.
var Logger *log.Logger

var rotator *lumberjack.Logger

// Config selects where logs go and how much is kept.
type Config struct {
	// Debug lowers the level to debug, adds caller info and mirrors to stderr
	Debug bool
	// Dir is the local data directory; the log file lives in its logs/ folder
	Dir string
}

// FilePath returns the log file used for the local data directory dir.
func FilePath(dir string) string {
	return filepath.Join(dir, "logs", constants.AppName+".log")
}

// Init opens the rotating log file under cfg.Dir and installs Logger.
func Init(cfg Config) error {
	path := FilePath(cfg.Dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if rotator != nil {
		_ = rotator.Close()
	}
	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	}

	out := io.Writer(rotator)
	level := log.InfoLevel
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, rotator)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
		// skip the package helpers so callers are reported
		CallerOffset: 2,
	})
	return nil
}

// Close flushes and releases the log file.
func Close() error {
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

func emit(level log.Level, msg string, keyvals []interface{}) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...interface{}) { emit(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...interface{}) { emit(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }

// Fatal logs at error level, closes the log file and exits with status 1.
func Fatal(msg string, keyvals ...interface{}) {
	emit(log.ErrorLevel, msg, keyvals)
	_ = Close()
	os.Exit(1)
}
