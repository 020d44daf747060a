// Package buildctx provides the logging-category and timer facility shared
// by every pipeline stage.
package buildctx

import (
	"fmt"
	"log"
	"time"
)

// Category is a log entry's severity.
type Category int

const (
	Progress Category = iota
	Warning
	Error
)

func (c Category) String() string {
	switch c {
	case Progress:
		return "PROG"
	case Warning:
		return "WARN"
	case Error:
		return "ERR"
	default:
		return "?"
	}
}

// Timer names the named phases whose wall-clock time is tracked.
type Timer string

const (
	TimerTotal        Timer = "total"
	TimerConditioner  Timer = "conditioner"
	TimerDEM          Timer = "dem"
	TimerSimplify     Timer = "simplify"
	TimerAssign       Timer = "assign"
	TimerHeight       Timer = "height"
	TimerGroundMesh   Timer = "groundmesh"
	TimerVolumeLayer  Timer = "volume"
	TimerSmooth       Timer = "smooth"
	TimerTrim         Timer = "trim"
	TimerBoundary     Timer = "boundary"
)

// Logger receives formatted log lines; the default writes through the
// standard library logger, but collaborators may plug in structured
// logging (e.g. slog) without the core importing it.
type Logger interface {
	Logf(cat Category, msg string)
}

type stdLogger struct{ l *log.Logger }

func (s stdLogger) Logf(cat Category, msg string) {
	s.l.Printf("%s %s", cat, msg)
}

// Context tracks enabled/disabled logging and per-label timers across a
// pipeline run.
type Context struct {
	logEnabled   bool
	timerEnabled bool
	logger       Logger

	start map[Timer]time.Time
	acc   map[Timer]time.Duration
}

// New returns a Context with logging and timers enabled, writing through
// logger. A nil logger defaults to the standard library log package.
func New(logger Logger) *Context {
	if logger == nil {
		logger = stdLogger{l: log.Default()}
	}
	return &Context{
		logEnabled:   true,
		timerEnabled: true,
		logger:       logger,
		start:        make(map[Timer]time.Time),
		acc:          make(map[Timer]time.Duration),
	}
}

// EnableLog toggles logging.
func (c *Context) EnableLog(state bool) { c.logEnabled = state }

// EnableTimers toggles timer tracking.
func (c *Context) EnableTimers(state bool) { c.timerEnabled = state }

// Log emits a formatted message in category cat, if logging is enabled.
func (c *Context) Log(cat Category, format string, args ...interface{}) {
	if !c.logEnabled {
		return
	}
	c.logger.Logf(cat, fmt.Sprintf(format, args...))
}

// Progressf logs a progress message.
func (c *Context) Progressf(format string, args ...interface{}) { c.Log(Progress, format, args...) }

// Warningf logs a warning message.
func (c *Context) Warningf(format string, args ...interface{}) { c.Log(Warning, format, args...) }

// Errorf logs an error message.
func (c *Context) Errorf(format string, args ...interface{}) { c.Log(Error, format, args...) }

// StartTimer begins accumulating wall-clock time under label.
func (c *Context) StartTimer(label Timer) {
	if !c.timerEnabled {
		return
	}
	c.start[label] = time.Now()
}

// StopTimer stops accumulating time under label, adding the elapsed
// duration since the matching StartTimer to its running total.
func (c *Context) StopTimer(label Timer) {
	if !c.timerEnabled {
		return
	}
	c.acc[label] += time.Since(c.start[label])
}

// AccumulatedTime returns the total time spent under label, or zero if
// timers are disabled or the label was never started.
func (c *Context) AccumulatedTime(label Timer) time.Duration {
	if !c.timerEnabled {
		return 0
	}
	return c.acc[label]
}

// ResetTimers clears every accumulated timer.
func (c *Context) ResetTimers() {
	c.acc = make(map[Timer]time.Duration)
}
