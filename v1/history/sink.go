package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/graph"
)

// entry is one line of the history file.
type entry struct {
	RecordedAt time.Time     `json:"recordedAt"`
	Report     *graph.Report `json:"report"`
}

// JSONLSink appends validation reports to a JSONL file through a bounded
// asynchronous writer. Recording never blocks the validation path: when
// the queue is full the report is dropped and counted.
type JSONLSink struct {
	cfg    *Config
	logger *zap.Logger

	queue   chan entry
	dropped atomic.Int64

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

var _ graph.Sink = (*JSONLSink)(nil)

// NewJSONLSink builds a sink. The writer goroutine starts on first use.
func NewJSONLSink(cfg *Config, logger *zap.Logger) *JSONLSink {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &JSONLSink{
		cfg:    cfg,
		logger: logger.Named("history"),
		queue:  make(chan entry, cfg.BufferSize),
		done:   make(chan struct{}),
	}
}

// RecordReport enqueues a report for appending. It never blocks; a full
// queue drops the report.
func (s *JSONLSink) RecordReport(_ context.Context, report *graph.Report) error {
	s.startOnce.Do(func() { go s.run() })

	select {
	case s.queue <- entry{RecordedAt: time.Now().UTC(), Report: report}:
		return nil
	default:
		n := s.dropped.Add(1)
		s.logger.Warn("history queue full, dropping report", zap.Int64("dropped_total", n))
		return nil
	}
}

// Dropped returns how many reports were discarded because the queue was
// full.
func (s *JSONLSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close flushes queued reports and stops the writer.
func (s *JSONLSink) Close() error {
	s.startOnce.Do(func() { go s.run() })
	s.closeOnce.Do(func() { close(s.queue) })
	<-s.done
	return nil
}

func (s *JSONLSink) run() {
	defer close(s.done)
	for e := range s.queue {
		if err := s.append(e); err != nil {
			s.logger.Error("failed to append history entry", zap.Error(err))
		}
	}
}

func (s *JSONLSink) append(e entry) error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	f, err := os.OpenFile(s.cfg.reportPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(e); err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}
	return nil
}

// ReadReports loads every recorded report, oldest first. Lines that fail
// to decode are skipped: a torn final line from a crash must not make the
// whole history unreadable.
func ReadReports(cfg *Config) ([]*graph.Report, error) {
	f, err := os.Open(cfg.reportPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var out []*graph.Report
	dec := json.NewDecoder(f)
	for dec.More() {
		var e entry
		if err := dec.Decode(&e); err != nil {
			break
		}
		out = append(out, e.Report)
	}
	return out, nil
}
