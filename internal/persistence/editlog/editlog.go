// Package editlog appends every committed edit action to a per-project
// JSONL stream compressed with zstd. The log is best-effort recovery
// and audit material; it is never consulted during normal editing.
package editlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"voxelforge/internal/history"
)

// Writer appends actions to one log file. Safe for use from a single
// editor; the mutex only guards against interleaved Close.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Open creates or appends to the log at path.
func Open(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriter(enc)}, nil
}

// Append writes one action as a JSON line and flushes.
func (w *Writer) Append(a history.Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return errors.New("edit log closed")
	}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	var firstErr error
	if err := w.w.Flush(); err != nil {
		firstErr = err
	}
	if err := w.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := w.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	w.f = nil
	return firstErr
}

// ReadAll decodes every action line from a log file, oldest first.
func ReadAll(path string) ([]history.Action, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []history.Action
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1<<16), 16<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var a history.Action
		if err := json.Unmarshal(line, &a); err != nil {
			return out, fmt.Errorf("edit log line %d: %w", len(out)+1, err)
		}
		out = append(out, a)
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return out, err
	}
	return out, nil
}
