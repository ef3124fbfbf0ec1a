package store

import (
	"errors"

	"voxelforge/internal/grid"
)

// Snapshot is a self-contained capture of one deleted voxel: position,
// vertex list, face list and the color-map entries for its faces. It is
// everything RestoreVoxel needs to reinstate the voxel exactly, and it
// is the payload carried by deleteVoxel history actions.
type Snapshot struct {
	Position grid.Pos                 `json:"position"`
	Vertices []Vertex                 `json:"vertices"`
	Faces    []Face                   `json:"faces"`
	Colors   map[grid.FaceName]string `json:"colors"`
}

func captureSnapshot(v *Voxel, colors map[string]string) Snapshot {
	snap := Snapshot{
		Position: v.Position,
		Vertices: make([]Vertex, 8),
		Faces:    make([]Face, 6),
		Colors:   make(map[grid.FaceName]string, 6),
	}
	copy(snap.Vertices, v.Vertices[:])
	copy(snap.Faces, v.Faces[:])
	for i := range v.Faces {
		if c, ok := colors[ColorKey(v.ID, v.Faces[i].ID)]; ok {
			snap.Colors[v.Faces[i].ID] = c
		}
	}
	return snap
}

var errBadSnapshot = errors.New("snapshot must carry 8 vertices and 6 faces")

func (s Snapshot) toVoxel(id VoxelID) (*Voxel, error) {
	if len(s.Vertices) != 8 || len(s.Faces) != 6 {
		return nil, errBadSnapshot
	}
	v := &Voxel{ID: id, Position: s.Position}
	copy(v.Vertices[:], s.Vertices)
	copy(v.Faces[:], s.Faces)
	return v, nil
}
