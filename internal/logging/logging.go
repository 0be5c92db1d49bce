package logging

import (
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// New returns a logger with full timestamps at the given level. Unknown levels
// fall back to info.
func New(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if out != nil {
		l.SetOutput(out)
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// ChanHook forwards every entry at or above MinLevel to C as a short line.
// A full channel drops the line instead of blocking the logger.
type ChanHook struct {
	C        chan string
	MinLevel logrus.Level
}

func NewChanHook(buffer int) *ChanHook {
	return &ChanHook{C: make(chan string, buffer), MinLevel: logrus.InfoLevel}
}

func (h *ChanHook) Levels() []logrus.Level {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= h.MinLevel {
			levels = append(levels, l)
		}
	}
	return levels
}

func (h *ChanHook) Fire(e *logrus.Entry) error {
	line := e.Time.Format("15:04:05") + " " + strings.ToUpper(e.Level.String()) + " " + e.Message
	if topic, ok := e.Data["topic"]; ok {
		if s, ok := topic.(string); ok && s != "" {
			line += " [" + s + "]"
		}
	}
	select {
	case h.C <- line:
	default:
	}
	return nil
}

// Recent keeps the last n lines drained from a ChanHook.
type Recent struct {
	mu    sync.Mutex
	lines []string
	limit int
}

func NewRecent(limit int) *Recent {
	return &Recent{limit: limit}
}

// Add appends a line, discarding the oldest once full.
func (r *Recent) Add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	if len(r.lines) > r.limit {
		r.lines = r.lines[len(r.lines)-r.limit:]
	}
}

func (r *Recent) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Drain copies lines from c into r until c is closed.
func (r *Recent) Drain(c <-chan string) {
	for line := range c {
		r.Add(line)
	}
}
