package mktree

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
)

const logFileName = "mktree.log"

// DefaultLogPath is the rotating log file under the user cache folder.
func DefaultLogPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, stateDirName, logFileName), nil
}

// SetupLogging sends slog output to a rotating file and, when verbose, to
// stderr as well. It returns the logger and a func that closes the file.
func SetupLogging(path string, verbose bool) (*slog.Logger, func() error) {
	var writers []io.Writer
	closeFn := func() error { return nil }

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			fileLogger := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    5, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			writers = append(writers, fileLogger)
			closeFn = fileLogger.Close
		}
	}

	level := slog.LevelInfo
	if verbose {
		writers = append(writers, os.Stderr)
		level = slog.LevelDebug
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	mw := io.MultiWriter(writers...)
	handler := slog.NewTextHandler(mw, &slog.HandlerOptions{AddSource: false, Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closeFn
}
