package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// MaxFileSize caps the serialized document at 10 MiB. A safety valve
// against runaway exports, not a format limitation.
const MaxFileSize = 10 << 20

var (
	ErrTooLarge            = errors.New("serialized project exceeds size cap")
	ErrIncompatibleVersion = errors.New("incompatible project version")
	ErrInvalidDocument     = errors.New("invalid project document")
)

// zstExt marks the compressed project variant.
const zstExt = ".zst"

// Save refreshes updatedAt, serializes the whole document in memory,
// enforces the size cap and writes atomically: temp file in the target
// directory, then rename. A failed save never leaves a partial file.
func Save(path string, doc *Document) error {
	doc.Metadata.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize project: %w", err)
	}
	if len(payload) > MaxFileSize {
		return fmt.Errorf("%d bytes: %w", len(payload), ErrTooLarge)
	}
	if strings.HasSuffix(path, zstExt) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		payload = enc.EncodeAll(payload, nil)
		enc.Close()
	}
	return writeAtomic(path, payload)
}

func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".vxf-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// Load reads, parses, migrates and schema-validates a project file.
// Version incompatibility and schema violations are distinct failures:
// migration is attempted first, and only a still-invalid document is
// rejected.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	if strings.HasSuffix(path, zstExt) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		raw, err = dec.DecodeAll(raw, nil)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("decompress project: %w", err)
		}
	}
	return Parse(raw)
}

// Parse decodes and heals a serialized document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if err := Migrate(&doc); err != nil {
		return nil, err
	}
	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
