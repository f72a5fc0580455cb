package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Run kinds.
const (
	KindGenerate = "generate"
	KindValidate = "validate"
)

// TaskEntry records one agent call inside a run.
type TaskEntry struct {
	Task         string `json:"task"`
	Agent        string `json:"agent"`
	Model        string `json:"model,omitempty"`
	PromptDigest string `json:"prompt_digest,omitempty"`
	TotalTokens  int    `json:"total_tokens"`
	DurationMS   int64  `json:"duration_ms"`
	Raw          string `json:"raw,omitempty"`
}

// RunRecord captures a generate or validate run end to end for audit.
type RunRecord struct {
	Timestamp    time.Time         `json:"timestamp"`
	RunID        string            `json:"run_id"`
	Sequence     int               `json:"sequence"`
	Kind         string            `json:"kind"`
	Input        map[string]string `json:"input,omitempty"`
	Tasks        []TaskEntry       `json:"tasks,omitempty"`
	Result       any               `json:"result,omitempty"`
	CacheHit     bool              `json:"cache_hit,omitempty"`
	Success      bool              `json:"success"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// Writer persists run records to a directory as one JSON file each. Safe for concurrent use.
type Writer struct {
	dir   string
	nowFn func() time.Time

	mu  sync.Mutex
	seq int
}

// NewWriter constructs a journal writer, creating dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "journal"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir: %w", err)
	}
	return &Writer{dir: dir, nowFn: time.Now}, nil
}

// Dir returns the target directory.
func (w *Writer) Dir() string { return w.dir }

// WriteRun writes rec to a timestamped JSON file and returns its path.
func (w *Writer) WriteRun(rec *RunRecord) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("journal: nil record")
	}
	if rec.Kind == "" {
		return "", fmt.Errorf("journal: record kind is required")
	}

	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = w.nowFn()
	}
	rec.Sequence = seq

	name := fmt.Sprintf("%s_%s_%05d.json", rec.Kind, rec.Timestamp.UTC().Format("20060102_150405"), seq)
	path := filepath.Join(w.dir, name)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("journal: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("journal: write %s: %w", path, err)
	}
	return path, nil
}
