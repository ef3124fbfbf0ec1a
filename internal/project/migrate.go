package project

import (
	"fmt"
	"strconv"
	"strings"

	"voxelforge/internal/history"
)

// Migrate heals a document written by an older minor version by filling
// fields introduced since then with safe defaults. It never changes the
// major version; a major mismatch is a hard incompatibility.
func Migrate(doc *Document) error {
	if doc.Version == "" {
		return fmt.Errorf("document has no version")
	}
	if !Compatible(doc.Version) {
		return fmt.Errorf("document version %s: %w", doc.Version, ErrIncompatibleVersion)
	}

	// 1.0 documents predate adjacent objects.
	if doc.AdjacentObjects == nil {
		doc.AdjacentObjects = []AdjacentObjectRecord{}
	}
	// 1.0 documents were square in Z.
	if doc.MainObject.GridSizeZ == 0 {
		doc.MainObject.GridSizeZ = doc.MainObject.GridSizeY
	}
	if doc.Metadata.GridSizeZ == 0 {
		doc.Metadata.GridSizeZ = doc.Metadata.GridSizeY
	}
	if doc.ColorPalette == nil {
		doc.ColorPalette = DefaultPalette()
	}
	if doc.UndoRedoHistory == nil {
		doc.UndoRedoHistory = []history.Action{}
	}
	if doc.MainObject.Colors == nil {
		doc.MainObject.Colors = map[string]string{}
	}

	// Documents older than 1.2 carry no explicit counters. Derive them
	// once from the stored ids; every save from here on persists them.
	if doc.NextIDs.Voxel == 0 {
		doc.NextIDs = deriveCounters(doc)
	}

	doc.Version = CurrentVersion
	doc.Metadata.Version = CurrentVersion
	return nil
}

func deriveCounters(doc *Document) Counters {
	c := Counters{Voxel: 1, Vertex: 0, Action: 1}
	for i := range doc.MainObject.Voxels {
		v := &doc.MainObject.Voxels[i]
		if n, ok := numericSuffix(string(v.ID), "v"); ok && n >= c.Voxel {
			c.Voxel = n + 1
		}
		for _, vert := range v.Vertices {
			if int(vert.ID) > c.Vertex {
				c.Vertex = int(vert.ID)
			}
		}
	}
	for _, a := range doc.UndoRedoHistory {
		if n, ok := numericSuffix(a.ID, "a"); ok && n >= c.Action {
			c.Action = n + 1
		}
	}
	return c
}

func numericSuffix(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
