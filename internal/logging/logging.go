// Package logging routes the standard log package to a rotating file.
//
// willdo draws a full-screen interface, so anything written to stderr would
// tear the display. All log.Printf output goes to a size-capped log file
// under the user's state directory instead.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogPath = "~/.local/state/willdo/willdo.log"

// DefaultPath returns the default log file location.
func DefaultPath() string {
	return defaultLogPath
}

// Setup points the standard logger at a rotating file and returns a close
// function. Pass an empty path to use DefaultPath.
func Setup(path string) (func() error, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   resolved,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		Compress:   true,
	}
	log.SetOutput(writer)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return writer.Close, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultLogPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
