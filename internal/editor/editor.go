// Package editor is the composition root of the modeling core: it owns
// the voxel store, the action history and the adjacent-object registry,
// records every edit with the data its inverse needs, and applies those
// inverses on undo/redo.
//
// All methods expect a single serialized stream of commands; the editor
// is not safe for concurrent mutation. Undo and redo apply as one
// logical step: the store is only touched after the inverse is known to
// be applicable, so no partial application is observable.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"voxelforge/internal/adjacent"
	"voxelforge/internal/grid"
	"voxelforge/internal/history"
	"voxelforge/internal/persistence/editlog"
	"voxelforge/internal/project"
	"voxelforge/internal/store"
)

type Editor struct {
	store    *store.Store
	history  *history.Log
	adjacent *adjacent.Registry

	gridX, gridY, gridZ int
	palette             []project.PaletteColor
	createdAt           string

	// Snapshots of voxels removed by undo-of-add, keyed by action id,
	// so redo can reinstate them exactly. Dropped when a fresh push
	// invalidates the redo chain.
	redoSnapshots map[string]store.Snapshot

	onChange []func()

	log     *zap.Logger
	editLog *editlog.Writer
}

type Option func(*Editor)

// WithLogger attaches a structured logger; default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithHistoryLimit overrides the default undo depth.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.history = history.NewLog(n) }
}

// WithEditLog streams every committed action to an append-only log.
// Best effort: a failing log never fails the edit.
func WithEditLog(w *editlog.Writer) Option {
	return func(e *Editor) { e.editLog = w }
}

// WithBounds constrains additions to the grid dimensions.
func WithBounds() Option {
	return func(e *Editor) {
		e.store.SetBounds(&store.Bounds{
			Min: grid.Pos{},
			Max: grid.Pos{X: e.gridX, Y: e.gridY, Z: e.gridZ},
		})
	}
}

// New builds an editor around an empty project of the given grid size.
// gridZ <= 0 defaults to gridY.
func New(gridX, gridY, gridZ int, opts ...Option) *Editor {
	if gridZ <= 0 {
		gridZ = gridY
	}
	e := &Editor{
		store:         store.New(),
		history:       history.NewLog(0),
		adjacent:      adjacent.NewRegistry(),
		gridX:         gridX,
		gridY:         gridY,
		gridZ:         gridZ,
		palette:       project.DefaultPalette(),
		redoSnapshots: map[string]store.Snapshot{},
		log:           zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Store exposes the underlying voxel store for read paths (mesh builds,
// queries). Mutation must go through the editor so history stays true.
func (e *Editor) Store() *store.Store { return e.store }

// History exposes the command log for affordance checks.
func (e *Editor) History() *history.Log { return e.history }

// Adjacent exposes the adjacent-object registry.
func (e *Editor) Adjacent() *adjacent.Registry { return e.adjacent }

// Palette returns the current palette entries, copy-on-read.
func (e *Editor) Palette() []project.PaletteColor {
	out := make([]project.PaletteColor, len(e.palette))
	copy(out, e.palette)
	return out
}

// OnChange registers a callback fired after every mutation that changed
// the store or the history stacks. Replaces ambient global events.
func (e *Editor) OnChange(fn func()) {
	e.onChange = append(e.onChange, fn)
}

func (e *Editor) notify() {
	for _, fn := range e.onChange {
		fn()
	}
}

func (e *Editor) commit(a history.Action) {
	if e.editLog != nil {
		if err := e.editLog.Append(a); err != nil {
			e.log.Warn("edit log append failed", zap.String("action", a.ID), zap.Error(err))
		}
	}
	// A fresh push invalidated any redo chain; drop stashed snapshots.
	for id := range e.redoSnapshots {
		delete(e.redoSnapshots, id)
	}
	e.notify()
}

// AddVoxel adds a voxel at p and records the action.
func (e *Editor) AddVoxel(p grid.Pos) (*store.Voxel, error) {
	v, err := e.store.AddVoxel(p)
	if err != nil {
		return nil, err
	}
	a := e.history.Push(history.ActionAddVoxel,
		history.AddVoxelData{VoxelID: v.ID, Position: v.Position},
		fmt.Sprintf("Add voxel at (%d,%d,%d)", p.X, p.Y, p.Z),
		history.TargetMain)
	e.commit(a)
	return v, nil
}

// AddVoxelAtFace extrudes from an existing face and records the action
// with the extrusion direction.
func (e *Editor) AddVoxelAtFace(id store.VoxelID, face grid.FaceName) (*store.Voxel, error) {
	src, ok := e.store.Voxel(id)
	if !ok {
		return nil, fmt.Errorf("extrude from voxel %s: %w", id, store.ErrNotFound)
	}
	f, ok := src.Face(face)
	if !ok {
		return nil, fmt.Errorf("extrude from face %s/%s: %w", id, face, store.ErrNotFound)
	}
	v, err := e.store.AddVoxel(src.Position.Add(grid.Delta(f.Normal)))
	if err != nil {
		return nil, err
	}
	a := e.history.Push(history.ActionAddVoxel,
		history.AddVoxelData{VoxelID: v.ID, Position: v.Position, AdjacentDirection: f.Normal},
		fmt.Sprintf("Extrude voxel from %s/%s", id, face),
		history.TargetMain)
	e.commit(a)
	return v, nil
}

// DeleteVoxel removes a voxel; the recorded action carries the full
// snapshot its undo needs.
func (e *Editor) DeleteVoxel(id store.VoxelID) error {
	v, ok := e.store.Voxel(id)
	if !ok {
		return fmt.Errorf("delete voxel %s: %w", id, store.ErrNotFound)
	}
	pos := v.Position
	snap, err := e.store.DeleteVoxel(id)
	if err != nil {
		return err
	}
	a := e.history.Push(history.ActionDeleteVoxel,
		history.DeleteVoxelData{VoxelID: id, Position: pos, VoxelData: snap},
		fmt.Sprintf("Delete voxel %s", id),
		history.TargetMain)
	e.commit(a)
	return nil
}

// PaintFace recolors one face, recording previous and new color.
func (e *Editor) PaintFace(id store.VoxelID, face grid.FaceName, color string) error {
	prev := e.store.FaceColor(id, face)
	if err := e.store.ColorFace(id, face, color); err != nil {
		return err
	}
	a := e.history.Push(history.ActionColorFace,
		history.ColorFaceData{VoxelID: id, FaceID: face, PreviousColor: prev, NewColor: color},
		fmt.Sprintf("Paint %s/%s %s", id, face, color),
		history.TargetMain)
	e.commit(a)
	return nil
}

// RecordCamera pushes a camera action without touching the store. The
// shell applies camera state itself; the history just sequences it.
func (e *Editor) RecordCamera(t history.ActionType, data history.CameraData, description string) {
	a := e.history.Push(t, data, description, history.TargetMain)
	e.commit(a)
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Undo applies the inverse of the most recent action and moves it to
// the redo stack. Returns the undone action, or nil when the undo
// stack is empty. The inverse is applied before the pop commits, so a
// failing inverse leaves both stacks and the store untouched.
func (e *Editor) Undo() (*history.Action, error) {
	a := e.history.PeekUndo()
	if a == nil {
		return nil, nil
	}
	switch a.Type {
	case history.ActionAddVoxel:
		d, ok := a.Data.(history.AddVoxelData)
		if !ok {
			return nil, fmt.Errorf("undo %s: malformed payload", a.ID)
		}
		snap, err := e.store.DeleteVoxel(d.VoxelID)
		if err != nil {
			return nil, fmt.Errorf("undo %s: %w", a.ID, err)
		}
		e.redoSnapshots[a.ID] = snap
	case history.ActionDeleteVoxel:
		d, ok := a.Data.(history.DeleteVoxelData)
		if !ok {
			return nil, fmt.Errorf("undo %s: malformed payload", a.ID)
		}
		if err := e.store.RestoreVoxel(d.VoxelID, d.VoxelData); err != nil {
			return nil, fmt.Errorf("undo %s: %w", a.ID, err)
		}
	case history.ActionColorFace:
		d, ok := a.Data.(history.ColorFaceData)
		if !ok {
			return nil, fmt.Errorf("undo %s: malformed payload", a.ID)
		}
		if err := e.store.ColorFace(d.VoxelID, d.FaceID, d.PreviousColor); err != nil {
			return nil, fmt.Errorf("undo %s: %w", a.ID, err)
		}
	default:
		// Camera actions have no store effect.
	}
	popped := e.history.Undo()
	e.log.Debug("undo", zap.String("action", popped.ID), zap.String("type", string(popped.Type)))
	e.notify()
	return popped, nil
}

// Redo re-applies the most recently undone action. Returns the redone
// action, or nil when the redo stack is empty.
func (e *Editor) Redo() (*history.Action, error) {
	a := e.history.PeekRedo()
	if a == nil {
		return nil, nil
	}
	switch a.Type {
	case history.ActionAddVoxel:
		d, ok := a.Data.(history.AddVoxelData)
		if !ok {
			return nil, fmt.Errorf("redo %s: malformed payload", a.ID)
		}
		if snap, ok := e.redoSnapshots[a.ID]; ok {
			if err := e.store.RestoreVoxel(d.VoxelID, snap); err != nil {
				return nil, fmt.Errorf("redo %s: %w", a.ID, err)
			}
			delete(e.redoSnapshots, a.ID)
		} else if _, err := e.store.AddVoxelWithID(d.VoxelID, d.Position); err != nil {
			return nil, fmt.Errorf("redo %s: %w", a.ID, err)
		}
	case history.ActionDeleteVoxel:
		d, ok := a.Data.(history.DeleteVoxelData)
		if !ok {
			return nil, fmt.Errorf("redo %s: malformed payload", a.ID)
		}
		if _, err := e.store.DeleteVoxel(d.VoxelID); err != nil {
			return nil, fmt.Errorf("redo %s: %w", a.ID, err)
		}
	case history.ActionColorFace:
		d, ok := a.Data.(history.ColorFaceData)
		if !ok {
			return nil, fmt.Errorf("redo %s: malformed payload", a.ID)
		}
		if err := e.store.ColorFace(d.VoxelID, d.FaceID, d.NewColor); err != nil {
			return nil, fmt.Errorf("redo %s: %w", a.ID, err)
		}
	default:
	}
	moved := e.history.Redo()
	e.log.Debug("redo", zap.String("action", moved.ID), zap.String("type", string(moved.Type)))
	e.notify()
	return moved, nil
}

// NewProject resets the editor to an empty project of its grid size.
func (e *Editor) NewProject() {
	e.store.Clear()
	e.history.Clear()
	e.adjacent.Clear()
	for id := range e.redoSnapshots {
		delete(e.redoSnapshots, id)
	}
	e.palette = project.DefaultPalette()
	e.createdAt = ""
	e.notify()
}

// AddCustomColor appends a user color to the palette.
func (e *Editor) AddCustomColor(id, name, hex string) error {
	if !store.ValidHexColor(hex) {
		return fmt.Errorf("custom color %q: %w", hex, store.ErrBadColor)
	}
	e.palette = append(e.palette, project.PaletteColor{
		ID: id, Name: name, Hex: hex, Custom: true,
	})
	return nil
}
