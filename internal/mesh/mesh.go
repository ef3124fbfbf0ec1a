// Package mesh derives renderable geometry from a voxel store.
//
// Two builds with different fidelity: the display mesh emits every face
// of every voxel so the viewer can pick and repaint faces that are
// currently buried, and the export mesh culls internal faces and winds
// triangles for consistent outward normals.
package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"voxelforge/internal/grid"
	"voxelforge/internal/store"
)

// Primitive is one drawable quad of the display mesh, tagged with its
// source voxel and face so recoloring and hit-testing can address it
// without a rebuild.
type Primitive struct {
	VoxelID store.VoxelID
	FaceID  grid.FaceName
	// Corners in stored face order; triangles are (0,1,2) and (0,2,3).
	Corners [4]r3.Vec
	Normal  r3.Vec
	Color   string
}

// Triangles returns the two index triples of the quad.
func (p Primitive) Triangles() [2][3]int {
	return [2][3]int{{0, 1, 2}, {0, 2, 3}}
}

func vec(p grid.Pos) r3.Vec {
	return r3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

// BuildDisplay emits all 6 faces of every live voxel, no culling. The
// flat normal comes from the cross product of the first two edges of
// each quad.
func BuildDisplay(s *store.Store) []Primitive {
	voxels := s.Voxels()
	out := make([]Primitive, 0, len(voxels)*6)
	for _, v := range voxels {
		vertexByID := make(map[store.VertexID]grid.Pos, 8)
		for _, vert := range v.Vertices {
			vertexByID[vert.ID] = vert.Position
		}
		for i := range v.Faces {
			f := &v.Faces[i]
			p := Primitive{
				VoxelID: v.ID,
				FaceID:  f.ID,
				Color:   s.FaceColor(v.ID, f.ID),
			}
			for j, vid := range f.VertexIDs {
				p.Corners[j] = vec(vertexByID[vid])
			}
			e1 := r3.Sub(p.Corners[1], p.Corners[0])
			e2 := r3.Sub(p.Corners[2], p.Corners[0])
			p.Normal = r3.Unit(r3.Cross(e1, e2))
			out = append(out, p)
		}
	}
	return out
}
