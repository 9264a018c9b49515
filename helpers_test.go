package onshutdown

import (
	"sync"
	"time"
)

type record struct {
	level string
	msg   string
	attrs map[string]any
}

// recLogger is a Logger that keeps every record for inspection.
type recLogger struct {
	mu      sync.Mutex
	records []record
}

func (l *recLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *recLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *recLogger) add(level, msg string, args []any) {
	attrs := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		k, _ := args[i].(string)
		attrs[k] = args[i+1]
	}
	l.mu.Lock()
	l.records = append(l.records, record{level: level, msg: msg, attrs: attrs})
	l.mu.Unlock()
}

func (l *recLogger) find(msg string) []record {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []record
	for _, r := range l.records {
		if r.msg == msg {
			out = append(out, r)
		}
	}
	return out
}

// stepClock returns t0 on the first call and t0+step*n on the n-th following call.
func stepClock(t0 time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := t0.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// exitRecorder replaces os.Exit in tests.
type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	e.codes = append(e.codes, code)
	e.mu.Unlock()
}

func (e *exitRecorder) calls() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.codes...)
}
