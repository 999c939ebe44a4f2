// Package logger provides the prefixed console logger used by the
// coordinator, the loader and every worker.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger writes lines tagged with a fixed component prefix such as "[TA 2]".
type Logger struct {
	prefix string
	ilog   *log.Logger
}

// New creates a logger writing to w; a nil writer means os.Stdout.
func New(prefix string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{prefix: prefix, ilog: log.New(w, "", log.LstdFlags|log.Lmicroseconds)}
}

// Prefix returns the component prefix.
func (l *Logger) Prefix() string {
	return l.prefix
}

// Println logs the operands, space separated, after the prefix.
func (l *Logger) Println(v ...interface{}) {
	l.ilog.Println(l.prefix + " " + fmt.Sprint(v...))
}

// Printf logs a formatted line after the prefix.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.ilog.Printf(l.prefix+" "+format, v...)
}
