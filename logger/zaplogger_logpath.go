// logger/zaplogger_logpath.go

package logger

import (
	"os"
	"path/filepath"
	"time"
)

const logFilePrefix = "mckinley_"

// EnsureLogFilePath prepares logPath for use as a zap output path.
// An existing directory, or a path that does not exist yet, gets a timestamped file name
// appended. An existing file is used as is. The parent directory is created when missing.
func EnsureLogFilePath(logPath string) (string, error) {
	fileName := logFilePrefix + time.Now().Format("20060102_150405") + ".log"

	if logPath == "" {
		logPath = filepath.Join(".", fileName)
	} else {
		info, err := os.Stat(logPath)
		switch {
		case os.IsNotExist(err), err == nil && info.IsDir():
			logPath = filepath.Join(logPath, fileName)
		case err != nil:
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return "", err
	}

	return logPath, nil
}
