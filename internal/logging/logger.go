package logging

// Levelled logging for pclscope

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

var levelNames = map[LogLevel]string{
	LogLevelSilent:  "silent",
	LogLevelError:   "error",
	LogLevelInfo:    "info",
	LogLevelVerbose: "verbose",
	LogLevelDebug:   "debug",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ParseLevel resolves a level name as used in pclscope.yaml.
func ParseLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LogLevelInfo, nil
	}
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// hexDumpLimit caps the bytes LogHex prints.
const hexDumpLimit = 512

// Logger provides levelled logging to the console and an optional file
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	format  string
	file    *os.File
	fileLog *log.Logger
	out     *log.Logger
	errOut  *log.Logger
}

// NewLogger creates a new text logger
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	return NewLoggerWithOptions(level, logFile, "text")
}

// NewLoggerWithOptions creates a logger writing "text" or "json" lines.
func NewLoggerWithOptions(level LogLevel, logFile, format string) (*Logger, error) {
	switch format {
	case "":
		format = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	l := &Logger{
		level:  level,
		format: format,
		out:    log.New(os.Stderr, "", 0),
		errOut: log.New(os.Stderr, "", 0),
	}

	if logFile != "" {
		file, err := os.Create(logFile)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		flags := log.LstdFlags
		if format == "json" {
			flags = 0
		}
		l.fileLog = log.New(file, "", flags)
	}

	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{
		level:  LogLevelSilent,
		format: "text",
		out:    log.New(io.Discard, "", 0),
		errOut: log.New(io.Discard, "", 0),
	}
}

// SetOutput redirects console output. Informational lines go to out,
// errors to errOut.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = log.New(out, "", 0)
	l.errOut = log.New(errOut, "", 0)
}

// Close closes the logger and flushes all data
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.fileLog = nil
		return err
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LogLevelError, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LogLevelInfo, format, v...)
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	l.log(LogLevelVerbose, format, v...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LogLevelDebug, format, v...)
}

func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	if l.GetLevel() < level {
		return
	}
	l.write(level, fmt.Sprintf(format, v...))
}

// write sends a message to the log file and, for errors or at verbose and
// above, to the console.
func (l *Logger) write(level LogLevel, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := l.render(level, msg)
	if l.fileLog != nil {
		l.fileLog.Println(line)
	}

	if level == LogLevelError {
		l.errOut.Println(line)
	} else if l.level >= LogLevelVerbose {
		l.out.Println(line)
	}
}

func (l *Logger) render(level LogLevel, msg string) string {
	if l.format != "json" {
		return strings.ToUpper(level.String()) + ": " + msg
	}
	data, err := json.Marshal(struct {
		Time    string `json:"time"`
		Level   string `json:"level"`
		Message string `json:"message"`
	}{time.Now().UTC().Format(time.RFC3339Nano), level.String(), msg})
	if err != nil {
		return msg
	}
	return string(data)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogClassification logs the outcome of one classification pass
func (l *Logger) LogClassification(source string, size int64, rows, warnings, errors int, elapsed time.Duration) {
	msg := fmt.Sprintf("classified %s: %d bytes, %d rows (%d warnings, %d errors) in %s",
		source, size, rows, warnings, errors, elapsed.Round(time.Microsecond))
	if errors > 0 {
		l.Info("%s", msg)
	} else {
		l.Verbose("%s", msg)
	}
}

// LogTransfer logs a job sent to or a reply read from a printer
func (l *Logger) LogTransfer(direction, driver, address string, n int64, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("%s %s %s failed after %d bytes: %v", direction, driver, address, n, err)
		return
	}
	l.Verbose("%s %s %s: %d bytes in %s", direction, driver, address, n, elapsed.Round(time.Millisecond))
}

// LogHex logs a hex dump of data (debug level only)
func (l *Logger) LogHex(label string, data []byte) {
	if l.GetLevel() < LogLevelDebug {
		return
	}
	shown := data
	suffix := ""
	if len(shown) > hexDumpLimit {
		shown = shown[:hexDumpLimit]
		suffix = fmt.Sprintf("\n... %d more bytes", len(data)-hexDumpLimit)
	}
	l.Debug("%s (%d bytes):\n%s%s", label, len(data), strings.TrimRight(hex.Dump(shown), "\n"), suffix)
}
