// Package project persists a whole model as one versioned document:
// voxels, colors, palette, adjacent-object placements and the undo
// history, plus the id counters that keep allocation monotonic across
// reloads.
package project

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"voxelforge/internal/history"
	"voxelforge/internal/store"
)

// CurrentVersion is the document format version written by this build.
const CurrentVersion = "1.2.0"

// Document is the project file root.
type Document struct {
	Version         string                 `json:"version"`
	Metadata        Metadata               `json:"metadata"`
	MainObject      MainObject             `json:"mainObject"`
	AdjacentObjects []AdjacentObjectRecord `json:"adjacentObjects"`
	ColorPalette    []PaletteColor         `json:"colorPalette"`
	UndoRedoHistory []history.Action       `json:"undoRedoHistory"`
	NextIDs         Counters               `json:"nextIds"`
}

type Metadata struct {
	Version   string `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	GridSizeX int    `json:"gridSizeX"`
	GridSizeY int    `json:"gridSizeY"`
	GridSizeZ int    `json:"gridSizeZ,omitempty"`

	// Historical fields kept for older documents.
	MaxGridX int `json:"maxGridX,omitempty"`
	MaxGridY int `json:"maxGridY,omitempty"`
	MaxGrid  int `json:"maxGrid,omitempty"`
}

type MainObject struct {
	GridSizeX int               `json:"gridSizeX"`
	GridSizeY int               `json:"gridSizeY"`
	GridSizeZ int               `json:"gridSizeZ,omitempty"`
	Voxels    []store.Voxel     `json:"voxels"`
	Colors    map[string]string `json:"colors"`
}

// AdjacentObjectRecord is the persisted placement of an externally
// loaded reference mesh. The geometry payload travels with the project;
// loading the actual mesh stays outside this core.
type AdjacentObjectRecord struct {
	ID        string            `json:"id"`
	FilePath  string            `json:"filePath"`
	Direction string            `json:"direction"`
	Position  [3]float64        `json:"position"`
	GridSizeX int               `json:"gridSizeX"`
	GridSizeY int               `json:"gridSizeY"`
	Voxels    []store.Voxel     `json:"voxels"`
	Colors    map[string]string `json:"colors"`
	Visible   bool              `json:"visible"`
	RotationY int               `json:"rotationY"`
}

// Counters are the persisted "next id" values. Saving them explicitly
// keeps the never-reuse invariant checkable instead of re-deriving
// counters by parsing id strings.
type Counters struct {
	Voxel  int `json:"voxel"`
	Vertex int `json:"vertex"`
	Action int `json:"action"`
}

// CreateTemplate builds an empty, valid document for a fresh project.
// gridZ <= 0 defaults to gridY.
func CreateTemplate(gridX, gridY, gridZ int) *Document {
	if gridZ <= 0 {
		gridZ = gridY
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return &Document{
		Version: CurrentVersion,
		Metadata: Metadata{
			Version:   CurrentVersion,
			CreatedAt: now,
			UpdatedAt: now,
			GridSizeX: gridX,
			GridSizeY: gridY,
			GridSizeZ: gridZ,
		},
		MainObject: MainObject{
			GridSizeX: gridX,
			GridSizeY: gridY,
			GridSizeZ: gridZ,
			Voxels:    []store.Voxel{},
			Colors:    map[string]string{},
		},
		AdjacentObjects: []AdjacentObjectRecord{},
		ColorPalette:    DefaultPalette(),
		UndoRedoHistory: []history.Action{},
		NextIDs:         Counters{Voxel: 1, Vertex: 0, Action: 1},
	}
}

func majorVersion(v string) (int, error) {
	head, _, _ := strings.Cut(v, ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("version %q: %w", v, err)
	}
	return n, nil
}

// Compatible reports whether a document version can be opened by this
// build: major components must match.
func Compatible(v string) bool {
	got, err := majorVersion(v)
	if err != nil {
		return false
	}
	want, _ := majorVersion(CurrentVersion)
	return got == want
}
