// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

var (
	traceEnabled bool

	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// levels maps RPGDEX_LOG values onto apex levels. trace is reported through
// the debug level with a TRACE: prefix.
var levels = map[string]log.Level{
	"trace": log.DebugLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

// InitLogger sets up Apex with the line handler and a log level from the
// RPGDEX_LOG env variable. Unknown or empty values fall back to error.
func InitLogger() {
	envLevel := strings.ToLower(strings.TrimSpace(os.Getenv("RPGDEX_LOG")))
	traceEnabled = envLevel == "trace"

	level, ok := levels[envLevel]
	if !ok {
		level = log.ErrorLevel
	}

	log.SetHandler(&LineHandler{})
	log.SetLevel(level)
}

// SetOutput redirects log lines, mainly for tests. A nil writer restores
// stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// LineHandler writes one "<timestamp> <level> <message>" line per entry.
// Entry fields are appended as key=value pairs.
type LineHandler struct{}

// HandleLog implements the log.Handler interface.
func (h *LineHandler) HandleLog(e *log.Entry) error {
	message := e.Message
	level := levelLetter(e.Level)
	if rest, ok := strings.CutPrefix(message, "TRACE: "); ok {
		level = "T"
		message = rest
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" " + level + " " + message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&sb, " %s=%v", name, e.Fields.Get(name))
	}

	mu.Lock()
	defer mu.Unlock()
	_, err := fmt.Fprintln(out, sb.String())
	return err
}

func levelLetter(l log.Level) string {
	switch l {
	case log.DebugLevel:
		return "D"
	case log.InfoLevel:
		return "I"
	case log.WarnLevel:
		return "W"
	case log.ErrorLevel:
		return "E"
	case log.FatalLevel:
		return "F"
	}
	return "?"
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
