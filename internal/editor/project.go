package editor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"voxelforge/internal/persistence/indexdb"
	"voxelforge/internal/project"
)

// BuildDocument snapshots the full editor state as a project document.
func (e *Editor) BuildDocument() *project.Document {
	doc := project.CreateTemplate(e.gridX, e.gridY, e.gridZ)
	if e.createdAt != "" {
		doc.Metadata.CreatedAt = e.createdAt
	}
	for _, v := range e.store.Voxels() {
		doc.MainObject.Voxels = append(doc.MainObject.Voxels, *v)
	}
	doc.MainObject.Colors = e.store.Colors()
	doc.AdjacentObjects = e.adjacent.Records()
	doc.ColorPalette = e.Palette()
	doc.UndoRedoHistory = e.history.UndoStack()

	nextVox, nextVert := e.store.NextIDs()
	doc.NextIDs = project.Counters{
		Voxel:  nextVox,
		Vertex: nextVert,
		Action: e.history.NextID(),
	}
	return doc
}

// LoadDocument replaces the editor state with the document's contents.
// Counters advance to the persisted values so restored ids are never
// reissued. The redo stack does not survive a reload.
func (e *Editor) LoadDocument(doc *project.Document) error {
	e.store.Clear()
	e.history.Clear()
	for id := range e.redoSnapshots {
		delete(e.redoSnapshots, id)
	}

	for _, v := range doc.MainObject.Voxels {
		if err := e.store.InstallVoxel(v, doc.MainObject.Colors); err != nil {
			return fmt.Errorf("load voxel %s: %w", v.ID, err)
		}
	}
	if err := e.history.RestoreHistory(doc.UndoRedoHistory); err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	e.adjacent.Restore(doc.AdjacentObjects)
	if len(doc.ColorPalette) > 0 {
		e.palette = append([]project.PaletteColor(nil), doc.ColorPalette...)
	}

	e.store.AdvanceIDs(doc.NextIDs.Voxel, doc.NextIDs.Vertex)
	e.history.AdvanceID(doc.NextIDs.Action)

	e.gridX = doc.MainObject.GridSizeX
	e.gridY = doc.MainObject.GridSizeY
	e.gridZ = doc.MainObject.GridSizeZ
	if e.gridZ <= 0 {
		e.gridZ = e.gridY
	}
	e.createdAt = doc.Metadata.CreatedAt
	e.notify()
	return nil
}

// SaveProject writes the project to disk and, when an index is given,
// records the save in the recent-projects catalog.
func (e *Editor) SaveProject(path string, ix *indexdb.Index) error {
	doc := e.BuildDocument()
	if err := project.Save(path, doc); err != nil {
		return err
	}
	e.log.Info("project saved",
		zap.String("path", path),
		zap.Int("voxels", len(doc.MainObject.Voxels)))
	if ix != nil {
		info := indexdb.ProjectInfo{
			Path:       path,
			Name:       projectName(path),
			Version:    doc.Version,
			VoxelCount: len(doc.MainObject.Voxels),
			UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := ix.Touch(info); err != nil {
			e.log.Warn("index update failed", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

// LoadProject reads, migrates and validates a project file, then
// replaces the editor state with it.
func (e *Editor) LoadProject(path string) error {
	doc, err := project.Load(path)
	if err != nil {
		return err
	}
	if err := e.LoadDocument(doc); err != nil {
		return err
	}
	e.log.Info("project loaded",
		zap.String("path", path),
		zap.Int("voxels", e.store.VoxelCount()))
	return nil
}

func projectName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".zst")
	return strings.TrimSuffix(base, filepath.Ext(base))
}
