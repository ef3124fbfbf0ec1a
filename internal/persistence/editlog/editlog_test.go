package editlog

import (
	"path/filepath"
	"testing"

	"voxelforge/internal/grid"
	"voxelforge/internal/history"
)

func TestAppendReadAll_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.jsonl.zst")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	acts := []history.Action{
		{ID: "a1", Type: history.ActionAddVoxel, Timestamp: "2026-01-01T00:00:00Z",
			Data: history.AddVoxelData{VoxelID: "v1", Position: grid.Pos{X: 1}}, TargetObject: history.TargetMain},
		{ID: "a2", Type: history.ActionColorFace, Timestamp: "2026-01-01T00:00:01Z",
			Data: history.ColorFaceData{VoxelID: "v1", FaceID: grid.FaceTop, NewColor: "#ff0000"}, TargetObject: history.TargetMain},
	}
	for _, a := range acts {
		if err := w.Append(a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a1" || got[1].ID != "a2" {
		t.Fatalf("got %v", got)
	}
	d, ok := got[1].Data.(history.ColorFaceData)
	if !ok || d.NewColor != "#ff0000" {
		t.Fatalf("payload %T %v", got[1].Data, got[1].Data)
	}
}

func TestAppend_AcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.jsonl.zst")
	for i, id := range []string{"a1", "a2"} {
		w, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := w.Append(history.Action{ID: id, Type: history.ActionAddVoxel, Timestamp: "t"}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("actions %d want 2 across reopen", len(got))
	}
}

func TestAppend_AfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.jsonl.zst")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	w.Close()
	if err := w.Append(history.Action{ID: "a1", Type: history.ActionAddVoxel, Timestamp: "t"}); err == nil {
		t.Fatalf("append after close succeeded")
	}
}
