package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is a single audit record.
type Entry struct {
	Timestamp     time.Time              `json:"ts"`
	CorrelationID string                 `json:"correlationId"`
	Action        string                 `json:"action"`
	Params        map[string]interface{} `json:"params,omitempty"`
	Outcome       string                 `json:"outcome"`
	LatencyMs     int64                  `json:"latencyMs"`
}

// Recorder is the write-side contract the dispatcher depends on.
type Recorder interface {
	Record(action string, params map[string]interface{}, outcome string, latency time.Duration)
}

// Logger appends audit entries to a size-rotated JSONL file.
type Logger struct {
	mu  sync.Mutex
	out io.WriteCloser
}

// NewLogger creates an audit logger writing to <dir>/commands.jsonl with
// rotation at 10 MB, keeping five compressed backups.
func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	return &Logger{
		out: &lumberjack.Logger{
			Filename:   filepath.Join(dir, "commands.jsonl"),
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			Compress:   true,
		},
	}, nil
}

// NewLoggerWithWriter creates an audit logger writing to w. Used by tests.
func NewLoggerWithWriter(w io.WriteCloser) *Logger {
	return &Logger{out: w}
}

// Record appends one entry. Failures are reported on stderr and never
// propagate: auditing must not interfere with command flow.
func (l *Logger) Record(action string, params map[string]interface{}, outcome string, latency time.Duration) {
	entry := Entry{
		Timestamp:     time.Now().UTC(),
		CorrelationID: newCorrelationID(),
		Action:        action,
		Params:        params,
		Outcome:       outcome,
		LatencyMs:     latency.Milliseconds(),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: marshal entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.out.Write(append(line, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "audit: write entry: %v\n", err)
	}
}

func newCorrelationID() string {
	return uuid.NewString()
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}
