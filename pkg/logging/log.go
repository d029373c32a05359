// pkg/logging/log.go
// Package logging implements the configure transcript: a terse console
// progress view paired with a log file that keeps the raw tool output.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ruler is the width of the section separators in the log file.
const ruler = 80

// ANSI escapes for the console status markers.
const (
	colorFail  = "\033[91m"
	colorReset = "\033[0m"
)

// Log routes configure messages to the console, the log file, or both.
// The file is attached with Open once the arch directory exists;
// messages sent before that reach the console only.
type Log struct {
	mu         sync.Mutex
	console    io.Writer
	file       *os.File
	path       string
	lastFailed bool

	// Trace receives debug lines; discarded unless debug is enabled.
	Trace *log.Logger
}

// Config controls where a Log writes.
type Config struct {
	// Console receives the progress view. Defaults to os.Stdout.
	Console io.Writer

	// Debug enables the trace logger on stderr.
	Debug bool
}

// New returns a Log for cfg, which may be nil for the defaults.
func New(cfg *Config) *Log {
	if cfg == nil {
		cfg = &Config{}
	}
	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}
	trace := log.New(io.Discard, "", 0)
	if cfg.Debug {
		trace = log.New(os.Stderr, "[configure] ", log.LstdFlags)
	}
	return &Log{console: console, Trace: trace}
}

// Open attaches the transcript file at dir/name and drops a
// best-effort symlink to it in basedir. When the log already lives in
// basedir no link is made, since it would replace the log itself. The
// recorded path is shown relative to basedir in later error messages.
func (l *Log) Open(basedir, dir, name string) error {
	filename := filepath.Join(dir, name)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating log file %s: %w", filename, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.file = f
	l.path = filename
	if rel, err := filepath.Rel(basedir, filename); err == nil {
		l.path = rel
	}
	link := filepath.Join(basedir, name)
	if filepath.Clean(link) != filepath.Clean(filename) {
		if fi, err := os.Lstat(link); err == nil && !fi.IsDir() {
			os.Remove(link)
		}
		os.Symlink(l.path, link)
	}
	return nil
}

// Path returns the transcript location as shown to the user.
func (l *Log) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Println writes a line to both sinks.
func (l *Log) Println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, s)
	if l.file != nil {
		fmt.Fprintln(l.file, s)
	}
}

// Print writes to both sinks without a newline, leaving the cursor on
// the progress line so the next section can append its status.
func (l *Log) Print(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, s+" ")
	if l.file != nil {
		fmt.Fprint(l.file, s+" ")
	}
}

// NewSection closes the previous progress line with its status and
// starts a new one. The file gets a ruler instead of the status word.
func (l *Log) NewSection(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastFailed {
		fmt.Fprint(l.console, colorFail+"failed"+colorReset+"\n"+s+" ")
	} else {
		fmt.Fprint(l.console, "done\n"+s+" ")
	}
	l.lastFailed = false
	if l.file != nil {
		fmt.Fprint(l.file, strings.Repeat("=", ruler)+"\n"+s+"\n")
	}
}

// Write sends a line to the log file only.
func (l *Log) Write(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		fmt.Fprintln(l.file, s)
	}
}

// Console sends a line to the console only.
func (l *Log) Console(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, s)
}

// Warn emits a banner-framed warning on both sinks.
func (l *Log) Warn(s string) {
	banner := "xxx" + strings.Repeat("=", 74) + "xxx"
	msg := "\n" + banner + "\nWARNING: " + s + "\n" + banner
	l.Println(msg)
}

// SetLastFailed marks the current section so the next one reports
// failed instead of done.
func (l *Log) SetLastFailed() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastFailed = true
}

// Fatal records msg on both sinks and returns the error the caller
// should terminate with. Before the file is open the message is not
// echoed here; it becomes the returned error instead.
func (l *Log) Fatal(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return errors.New(msg)
	}
	line := "\nERROR: " + msg
	fmt.Fprintln(l.console, line)
	fmt.Fprintln(l.file, line)
	return fmt.Errorf("see %q file for details", l.path)
}

// Close releases the log file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
