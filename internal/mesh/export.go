package mesh

import (
	"sort"

	"voxelforge/internal/grid"
	"voxelforge/internal/store"
)

// ColorGroup is one export primitive: every boundary face resolved to
// the same color, with independent per-face vertex attributes. Positions
// are deliberately not deduplicated across faces; per-vertex colors need
// independent attributes even at coincident positions.
type ColorGroup struct {
	Color     string
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
}

// Export is the culled, color-grouped triangle mesh handed to the
// interchange writers.
type Export struct {
	Groups []ColorGroup
	// Bounding box over all emitted positions. Zero when empty.
	Min, Max [3]float32
}

// Empty reports whether no geometry was emitted.
func (e Export) Empty() bool { return len(e.Groups) == 0 }

// FaceCount is the number of boundary faces across all groups.
func (e Export) FaceCount() int {
	n := 0
	for _, g := range e.Groups {
		n += len(g.Positions) / 4
	}
	return n
}

func unitNormal(d grid.Direction) [3]float32 {
	delta := grid.Delta(d)
	return [3]float32{float32(delta.X), float32(delta.Y), float32(delta.Z)}
}

// BuildExport walks every live voxel and keeps only boundary faces: a
// face whose neighbor cell at position+delta(normal) is occupied is
// fully enclosed and skipped. Culling is color-blind. Remaining faces
// are grouped by resolved color and triangulated with sign-dependent
// winding: "-" normals use (0,1,2),(0,2,3) on the stored corner order,
// "+" normals the reverse (0,2,1),(0,3,2).
func BuildExport(s *store.Store) Export {
	groups := make(map[string]*ColorGroup)

	var (
		min, max [3]float32
		seen     bool
	)
	grow := func(p [3]float32) {
		if !seen {
			min, max = p, p
			seen = true
			return
		}
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}

	for _, v := range s.Voxels() {
		vertexByID := make(map[store.VertexID]grid.Pos, 8)
		for _, vert := range v.Vertices {
			vertexByID[vert.ID] = vert.Position
		}
		for i := range v.Faces {
			f := &v.Faces[i]
			if s.Occupied(v.Position.Add(grid.Delta(f.Normal))) {
				continue
			}
			color := s.FaceColor(v.ID, f.ID)
			g := groups[color]
			if g == nil {
				g = &ColorGroup{Color: color}
				groups[color] = g
			}
			base := uint32(len(g.Positions))
			n := unitNormal(f.Normal)
			for _, vid := range f.VertexIDs {
				p := vertexByID[vid]
				fp := [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
				g.Positions = append(g.Positions, fp)
				g.Normals = append(g.Normals, n)
				grow(fp)
			}
			if f.Normal.Positive() {
				g.Indices = append(g.Indices,
					base, base+2, base+1,
					base, base+3, base+2)
			} else {
				g.Indices = append(g.Indices,
					base, base+1, base+2,
					base, base+2, base+3)
			}
		}
	}

	out := Export{Min: min, Max: max}
	colors := make([]string, 0, len(groups))
	for c := range groups {
		colors = append(colors, c)
	}
	sort.Strings(colors)
	for _, c := range colors {
		out.Groups = append(out.Groups, *groups[c])
	}
	return out
}
