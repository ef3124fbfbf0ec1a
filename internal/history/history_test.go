package history

import (
	"encoding/json"
	"fmt"
	"testing"

	"voxelforge/internal/grid"
	"voxelforge/internal/store"
)

func pushN(l *Log, n int) {
	for i := 0; i < n; i++ {
		l.Push(ActionAddVoxel, AddVoxelData{VoxelID: store.VoxelID(fmt.Sprintf("v%d", i+1))}, "add", TargetMain)
	}
}

func TestPush_LIFOAndRedoInvalidation(t *testing.T) {
	l := NewLog(0)
	a := l.Push(ActionAddVoxel, AddVoxelData{VoxelID: "v1"}, "add A", TargetMain)
	b := l.Push(ActionAddVoxel, AddVoxelData{VoxelID: "v2"}, "add B", TargetMain)

	got := l.Undo()
	if got == nil || got.ID != b.ID {
		t.Fatalf("undo returned %+v want %s", got, b.ID)
	}
	if top := l.PeekUndo(); top == nil || top.ID != a.ID {
		t.Fatalf("peek undo %+v want %s", top, a.ID)
	}
	if !l.CanRedo() {
		t.Fatalf("redo should be available")
	}

	l.Push(ActionAddVoxel, AddVoxelData{VoxelID: "v3"}, "add C", TargetMain)
	if l.CanRedo() {
		t.Fatalf("push must clear the redo stack")
	}
}

func TestPush_StackCapEvictsOldest(t *testing.T) {
	l := NewLog(5)
	pushN(l, 6)
	if l.UndoCount() != 5 {
		t.Fatalf("count %d want 5", l.UndoCount())
	}
	stack := l.UndoStack()
	if d := stack[0].Data.(AddVoxelData); d.VoxelID != "v2" {
		t.Fatalf("oldest entry %s, v1 should be evicted", d.VoxelID)
	}
}

func TestUndoRedo_EmptyReturnsNil(t *testing.T) {
	l := NewLog(0)
	if l.Undo() != nil || l.Redo() != nil || l.PeekUndo() != nil || l.PeekRedo() != nil {
		t.Fatalf("empty log must return nil")
	}
	if l.CanUndo() || l.CanRedo() {
		t.Fatalf("empty log reports work")
	}
}

func TestRedo_ReplaysInOrder(t *testing.T) {
	l := NewLog(0)
	pushN(l, 3)
	l.Undo()
	l.Undo()
	first := l.Redo()
	if first == nil || first.Data.(AddVoxelData).VoxelID != "v2" {
		t.Fatalf("redo order wrong: %+v", first)
	}
	second := l.Redo()
	if second == nil || second.Data.(AddVoxelData).VoxelID != "v3" {
		t.Fatalf("redo order wrong: %+v", second)
	}
	if l.Redo() != nil {
		t.Fatalf("redo past end")
	}
}

func TestSerialize_RoundTripTypedPayloads(t *testing.T) {
	l := NewLog(0)
	l.Push(ActionAddVoxel, AddVoxelData{VoxelID: "v1", Position: grid.Pos{X: 1}}, "add", TargetMain)
	l.Push(ActionColorFace, ColorFaceData{VoxelID: "v1", FaceID: grid.FaceTop, PreviousColor: "#808080", NewColor: "#ff0000"}, "paint", TargetMain)
	l.Push(ActionCameraZoom, CameraData{From: [3]float64{0, 0, 5}, To: [3]float64{0, 0, 3}}, "zoom", TargetMain)
	l.Undo()

	b, err := l.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	r := NewLog(0)
	if err := r.Deserialize(b); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if r.UndoCount() != 2 || r.RedoCount() != 1 {
		t.Fatalf("stacks %d/%d want 2/1", r.UndoCount(), r.RedoCount())
	}
	top := r.PeekUndo()
	cf, ok := top.Data.(ColorFaceData)
	if !ok {
		t.Fatalf("payload type %T", top.Data)
	}
	if cf.NewColor != "#ff0000" || cf.FaceID != grid.FaceTop {
		t.Fatalf("payload %+v", cf)
	}
	cam, ok := r.PeekRedo().Data.(CameraData)
	if !ok || cam.To != [3]float64{0, 0, 3} {
		t.Fatalf("camera payload %+v", r.PeekRedo().Data)
	}

	// Counter restored explicitly: next push must not collide.
	a := r.Push(ActionAddVoxel, AddVoxelData{VoxelID: "v2"}, "add", TargetMain)
	if a.ID != "a4" {
		t.Fatalf("post-restore id %s want a4", a.ID)
	}
}

func TestDeserialize_RejectsBadDocuments(t *testing.T) {
	l := NewLog(0)
	pushN(l, 2)

	bad := [][]byte{
		[]byte(`{"redoStack":[]}`),
		[]byte(`{"undoStack":[]}`),
		[]byte(`{"undoStack":{},"redoStack":[]}`),
		[]byte(`{"undoStack":[],"redoStack":"nope"}`),
		[]byte(`not json`),
	}
	for _, b := range bad {
		if err := l.Deserialize(b); err == nil {
			t.Fatalf("accepted %s", b)
		}
		if l.UndoCount() != 2 {
			t.Fatalf("state touched by rejected document %s", b)
		}
	}
}

func TestRestoreHistory_KeepsRedoAndIDs(t *testing.T) {
	l := NewLog(0)
	l.Push(ActionAddVoxel, AddVoxelData{VoxelID: "v1"}, "add", TargetMain)
	l.Undo() // one entry on redo

	saved := []Action{
		{ID: "a7", Type: ActionAddVoxel, Timestamp: "2026-01-01T00:00:00Z", Description: "add", TargetObject: TargetMain},
		{ID: "a8", Type: ActionDeleteVoxel, Timestamp: "2026-01-01T00:00:01Z", Description: "delete", TargetObject: TargetMain},
	}
	if err := l.RestoreHistory(saved); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !l.CanRedo() {
		t.Fatalf("restore must not clear redo")
	}
	if l.UndoCount() != 2 {
		t.Fatalf("undo count %d", l.UndoCount())
	}
	l.AdvanceID(9)
	a := l.Push(ActionColorFace, ColorFaceData{}, "paint", TargetMain)
	if a.ID != "a9" {
		t.Fatalf("id %s want a9", a.ID)
	}
}

func TestRestoreAction_RejectsCorrupt(t *testing.T) {
	l := NewLog(0)
	if err := l.RestoreAction(Action{Type: ActionAddVoxel, Timestamp: "x"}); err == nil {
		t.Fatalf("accepted action without id")
	}
}

func TestValidate(t *testing.T) {
	l := NewLog(0)
	pushN(l, 3)
	l.Undo()
	if !l.Validate() {
		t.Fatalf("healthy log failed validation")
	}

	dup := Action{ID: "a1", Type: ActionAddVoxel, Timestamp: "2026-01-01T00:00:00Z"}
	if err := l.RestoreAction(dup); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if l.Validate() {
		t.Fatalf("duplicate id passed validation")
	}
}

func TestAction_UnknownTypeKeepsRawPayload(t *testing.T) {
	var a Action
	raw := []byte(`{"id":"a1","type":"futureThing","timestamp":"t","data":{"k":1},"targetObject":"main"}`)
	if err := json.Unmarshal(raw, &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := a.Data.(json.RawMessage); !ok {
		t.Fatalf("unknown payload type %T", a.Data)
	}
}
