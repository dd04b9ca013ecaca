// Package logging provides the leveled program logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"ytdlnis/internal/domain/consts"

	"github.com/rs/zerolog"
)

var (
	// Level is the debug threshold, D(l, ...) prints when l <= Level.
	Level int = 0

	mu          sync.Mutex
	logger      = newLogger(os.Stdout, nil, false)
	logFile     *os.File
	console     io.Writer = os.Stdout
	jsonConsole bool
)

// SetupLogging opens (or creates) the log file and routes output to both it and the console.
func SetupLogging(logFilePath string, out io.Writer, jsonOut bool) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), consts.PermsGenericDir); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, consts.PermsLogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	console, jsonConsole = out, jsonOut
	logger = newLogger(console, f, jsonConsole)
	logger.Info().Msgf("=========== %v ===========", time.Now().Format(time.RFC1123Z))
	return nil
}

// SetOutput replaces all log output with w. Mainly useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// Close closes the log file if one is open. Later output goes to the console only.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	logger = newLogger(console, nil, jsonConsole)
	err := logFile.Close()
	logFile = nil
	return err
}

// E logs an error with the calling function, file and line.
func E(format string, args ...any) {
	pc, file, line, _ := runtime.Caller(1)

	mu.Lock()
	defer mu.Unlock()

	logger.Error().
		Str("func", funcName(pc)).
		Str("file", filepath.Base(file)).
		Int("line", line).
		Msgf(format, args...)
}

// W logs a warning.
func W(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Warn().Msgf(format, args...)
}

// I logs information.
func I(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Info().Msgf(format, args...)
}

// S logs a success.
func S(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Info().Bool("success", true).Msgf(format, args...)
}

// D logs debug output when l is within the configured level.
func D(l int, format string, args ...any) {
	if l > Level {
		return
	}
	pc, file, line, _ := runtime.Caller(1)

	mu.Lock()
	defer mu.Unlock()

	logger.Debug().
		Int("lvl", l).
		Str("func", funcName(pc)).
		Str("file", filepath.Base(file)).
		Int("line", line).
		Msgf(format, args...)
}

// P prints plain output without a level.
func P(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Log().Msgf(format, args...)
}

// newLogger builds the zerolog logger writing to the console and, if set, a file.
func newLogger(console io.Writer, file io.Writer, jsonConsole bool) zerolog.Logger {
	var out io.Writer = console
	if !jsonConsole {
		out = zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"}
	}
	if file != nil {
		out = zerolog.MultiLevelWriter(out, file)
	}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// funcName returns the short name of the function at pc.
func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return filepath.Base(fn.Name())
}
