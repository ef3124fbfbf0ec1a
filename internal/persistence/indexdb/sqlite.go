// Package indexdb keeps a small sqlite catalog of saved projects so
// shells can offer a "recent projects" list without scanning the disk.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ProjectInfo is one catalog row.
type ProjectInfo struct {
	Path       string
	Name       string
	Version    string
	VoxelCount int
	UpdatedAt  string
}

// Index is the project catalog. Writes are serialized by a mutex; the
// save rate of an interactive editor does not need more.
type Index struct {
	mu sync.Mutex
	db *sql.DB
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS projects (
	path        TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	version     TEXT NOT NULL,
	voxel_count INTEGER NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at DESC);
`
	_, err := db.Exec(schema)
	return err
}

// Touch upserts a project row after a successful save.
func (ix *Index) Touch(info ProjectInfo) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if info.UpdatedAt == "" {
		info.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := ix.db.Exec(`
INSERT INTO projects (path, name, version, voxel_count, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
	name = excluded.name,
	version = excluded.version,
	voxel_count = excluded.voxel_count,
	updated_at = excluded.updated_at;`,
		info.Path, info.Name, info.Version, info.VoxelCount, info.UpdatedAt)
	if err != nil {
		return fmt.Errorf("touch %s: %w", info.Path, err)
	}
	return nil
}

// Recents lists projects most recently saved first.
func (ix *Index) Recents(limit int) ([]ProjectInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := ix.db.Query(`
SELECT path, name, version, voxel_count, updated_at
FROM projects ORDER BY updated_at DESC, path ASC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProjectInfo
	for rows.Next() {
		var p ProjectInfo
		if err := rows.Scan(&p.Path, &p.Name, &p.Version, &p.VoxelCount, &p.UpdatedAt); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Forget drops a project from the catalog. Unknown paths are a no-op.
func (ix *Index) Forget(path string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, err := ix.db.Exec(`DELETE FROM projects WHERE path = ?;`, path)
	return err
}

func (ix *Index) Close() error {
	return ix.db.Close()
}
