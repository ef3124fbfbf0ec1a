package indexdb

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestTouchAndRecents_Ordering(t *testing.T) {
	ix := openTest(t)
	rows := []ProjectInfo{
		{Path: "/p/a.vxf", Name: "a", Version: "1.2.0", VoxelCount: 3, UpdatedAt: "2026-08-01T00:00:00Z"},
		{Path: "/p/b.vxf", Name: "b", Version: "1.2.0", VoxelCount: 9, UpdatedAt: "2026-08-03T00:00:00Z"},
		{Path: "/p/c.vxf", Name: "c", Version: "1.2.0", VoxelCount: 1, UpdatedAt: "2026-08-02T00:00:00Z"},
	}
	for _, r := range rows {
		if err := ix.Touch(r); err != nil {
			t.Fatalf("touch: %v", err)
		}
	}
	got, err := ix.Recents(10)
	if err != nil {
		t.Fatalf("recents: %v", err)
	}
	if len(got) != 3 || got[0].Name != "b" || got[1].Name != "c" || got[2].Name != "a" {
		t.Fatalf("order %v", got)
	}
}

func TestTouch_UpsertsByPath(t *testing.T) {
	ix := openTest(t)
	if err := ix.Touch(ProjectInfo{Path: "/p/a.vxf", Name: "a", Version: "1.1.0", VoxelCount: 1, UpdatedAt: "2026-08-01T00:00:00Z"}); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := ix.Touch(ProjectInfo{Path: "/p/a.vxf", Name: "a", Version: "1.2.0", VoxelCount: 5, UpdatedAt: "2026-08-02T00:00:00Z"}); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, err := ix.Recents(10)
	if err != nil {
		t.Fatalf("recents: %v", err)
	}
	if len(got) != 1 || got[0].VoxelCount != 5 || got[0].Version != "1.2.0" {
		t.Fatalf("upsert failed: %v", got)
	}
}

func TestRecents_Limit(t *testing.T) {
	ix := openTest(t)
	for i := 0; i < 5; i++ {
		ix.Touch(ProjectInfo{Path: filepath.Join("/p", string(rune('a'+i))), Name: "x", Version: "1.2.0"})
	}
	got, err := ix.Recents(2)
	if err != nil {
		t.Fatalf("recents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit ignored: %d", len(got))
	}
}

func TestForget(t *testing.T) {
	ix := openTest(t)
	ix.Touch(ProjectInfo{Path: "/p/a.vxf", Name: "a", Version: "1.2.0"})
	if err := ix.Forget("/p/a.vxf"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if err := ix.Forget("/p/missing.vxf"); err != nil {
		t.Fatalf("forget missing: %v", err)
	}
	got, _ := ix.Recents(10)
	if len(got) != 0 {
		t.Fatalf("row survived forget: %v", got)
	}
}
