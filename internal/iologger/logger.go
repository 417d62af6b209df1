// Package iologger configures the process-wide slog logger from the
// log section of the configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/gndesc/pkg/config"
	"github.com/gnames/gnsys"
)

// logFileName is the file created under the log directory when the
// destination is "file".
const logFileName = "gndesc.log"

// Init installs the default slog logger according to cfg. The logDir
// is only used for the "file" destination and is created on demand;
// appendFile keeps previous runs in the file instead of truncating it.
func Init(logDir string, cfg config.LogConfig, appendFile bool) error {
	w, err := destination(logDir, cfg.Destination, appendFile)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(h))
	return nil
}

func destination(
	logDir, dest string,
	appendFile bool,
) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "file":
		if err := gnsys.MakeDir(logDir); err != nil {
			return nil, createDirError(logDir, err)
		}
		return logFile(filepath.Join(logDir, logFileName), appendFile)
	default:
		// "stderr" and anything unrecognized.
		return os.Stderr, nil
	}
}

func logFile(path string, appendFile bool) (io.Writer, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendFile {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, CreateLogFileError(path, err)
	}
	return f, nil
}

// Unknown levels fall back to info.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
