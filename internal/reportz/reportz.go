// Package reportz keeps the most recent on shutdown reports in memory and
// serves them over HTTP.
package reportz

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/evan-idocoding/onshutdown"
)

// Format controls the response rendering format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

const defaultCapacity = 64

// Entry is the JSON form of a single onshutdown.Report.
type Entry struct {
	Name  string    `json:"name,omitempty"`
	Start time.Time `json:"start"`
	// TookUS is the elapsed time in whole microseconds.
	TookUS   int64  `json:"took_us"`
	Panicked bool   `json:"panicked,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Recorder is an onshutdown.Observer that retains the last N reports.
// The zero value is not usable; use NewRecorder.
type Recorder struct {
	mu    sync.Mutex
	buf   []Entry
	next  int
	full  bool
	total uint64
}

// NewRecorder returns a Recorder keeping up to capacity entries.
// capacity <= 0 means the default (64).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Recorder{buf: make([]Entry, capacity)}
}

// ObserveShutdown implements onshutdown.Observer.
func (r *Recorder) ObserveShutdown(rep onshutdown.Report) {
	e := Entry{
		Name:     rep.Name,
		Start:    rep.Start,
		TookUS:   rep.Duration.Microseconds(),
		Panicked: rep.Panicked,
	}
	if rep.Err != nil {
		e.Error = rep.Err.Error()
	}

	r.mu.Lock()
	r.buf[r.next] = e
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
	r.total++
	r.mu.Unlock()
}

// Snapshot returns the retained entries, oldest first, and the number of
// reports observed since creation.
func (r *Recorder) Snapshot() ([]Entry, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]Entry(nil), r.buf[:r.next]...), r.total
	}
	out := make([]Entry, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out, r.total
}

type handlerConfig struct {
	format Format
}

// Option configures Handler.
type Option func(*handlerConfig)

// WithDefaultFormat sets the default response format.
//
// This default can be overridden per request by URL query:
//   - ?format=json
//   - ?format=text
//
// Default is FormatText.
func WithDefaultFormat(f Format) Option {
	return func(c *handlerConfig) { c.format = f }
}

type response struct {
	Total   uint64  `json:"total"`
	Reports []Entry `json:"reports"`
}

// Handler serves the recorder's snapshot. GET/HEAD only; other methods return 405.
func Handler(rec *Recorder, opts ...Option) http.Handler {
	if rec == nil {
		panic("reportz: nil recorder")
	}
	cfg := handlerConfig{format: FormatText}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.format != FormatText && cfg.format != FormatJSON {
		cfg.format = FormatText
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		entries, total := rec.Snapshot()
		write(w, r, formatFromRequest(r, cfg.format), response{Total: total, Reports: entries})
	})
}

func formatFromRequest(r *http.Request, def Format) Format {
	if r.URL == nil {
		return def
	}
	switch r.URL.Query().Get("format") {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return def
	}
}

func write(w http.ResponseWriter, r *http.Request, f Format, resp response) {
	w.Header().Set("Cache-Control", "no-store")
	switch f {
	case FormatJSON:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if resp.Reports == nil {
			resp.Reports = []Entry{}
		}
		_ = json.NewEncoder(w).Encode(resp)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		for _, e := range resp.Reports {
			name := e.Name
			if name == "" {
				name = "-"
			}
			line := name + " took_us=" + strconv.FormatInt(e.TookUS, 10)
			if e.Panicked {
				line += " panicked"
			}
			if e.Error != "" {
				line += " error=" + e.Error
			}
			_, _ = w.Write([]byte(line + "\n"))
		}
	}
}
