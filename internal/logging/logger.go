// Package logging provides a leveled JSON-line logger writing to a
// size-rotated file, mirroring to stderr when console output is
// enabled in the logging section of the settings file.
package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dentexpo/expo-manager/internal/config"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch s {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l level) String() string {
	switch l {
	case levelDebug:
		return "debug"
	case levelWarn:
		return "warn"
	case levelError:
		return "error"
	default:
		return "info"
	}
}

// Logger writes structured log lines.  Safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	min level
}

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Msg    string         `json:"msg"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// New builds a Logger from the logging configuration.  File output
// rotates at max_bytes keeping backup_count old files.
func New(cfg config.LoggingConfig) *Logger {
	var writers []io.Writer
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxBytes/(1<<20)), // lumberjack counts megabytes
			MaxBackups: cfg.BackupCount,
		})
	}
	if cfg.Console || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	return &Logger{out: io.MultiWriter(writers...), min: parseLevel(cfg.Level)}
}

func (l *Logger) write(lv level, msg string, err error, fields map[string]any) {
	if lv < l.min {
		return
	}
	e := entry{
		TS:     time.Now().UTC().Format(time.RFC3339),
		Level:  lv.String(),
		Msg:    msg,
		Fields: fields,
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, marshalErr := json.Marshal(e)
	if marshalErr != nil {
		log.Printf("logging: marshal failed: %v", marshalErr)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(b, '\n'))
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields map[string]any) { l.write(levelDebug, msg, nil, fields) }

// Info logs at info level.
func (l *Logger) Info(msg string, fields map[string]any) { l.write(levelInfo, msg, nil, fields) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields map[string]any) { l.write(levelWarn, msg, nil, fields) }

// Error logs at error level with the causing error attached.
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	l.write(levelError, msg, err, fields)
}
