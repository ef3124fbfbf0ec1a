// Package adjacent tracks externally loaded reference meshes placed
// beside the main voxel grid. Only the placement contract lives here:
// loading the actual model file is the shell's job.
package adjacent

import (
	"errors"
	"fmt"

	"voxelforge/internal/grid"
	"voxelforge/internal/project"
)

var ErrNotFound = errors.New("adjacent object not found")

// Object is one placed reference mesh.
type Object struct {
	ID       string
	FilePath string
	// Direction the object sits in relative to the main grid.
	Direction grid.Direction
	// Position is the computed placement offset of the object's origin.
	Position [3]float64
	// Size is the object's bounding size, reported by the loader.
	Size      [3]float64
	GridSizeX int
	GridSizeY int
	Visible   bool
	// RotationY is the Y-axis rotation in degrees, stepped by 90.
	RotationY int
}

// PlacementOffset computes where an object of the given bounding size
// sits so it abuts the main grid along the chosen direction. Positive
// directions start at the far edge of the main grid; negative ones back
// the object's own extent off the origin.
func PlacementOffset(d grid.Direction, mainSize, objSize [3]float64) [3]float64 {
	switch d {
	case grid.XPlus:
		return [3]float64{mainSize[0], 0, 0}
	case grid.XMinus:
		return [3]float64{-objSize[0], 0, 0}
	case grid.YPlus:
		return [3]float64{0, mainSize[1], 0}
	case grid.YMinus:
		return [3]float64{0, -objSize[1], 0}
	case grid.ZPlus:
		return [3]float64{0, 0, mainSize[2]}
	case grid.ZMinus:
		return [3]float64{0, 0, -objSize[2]}
	}
	return [3]float64{}
}

// Registry owns the placed objects, keyed by generated id.
type Registry struct {
	objects map[string]*Object
	order   []string
	nextID  int
}

func NewRegistry() *Registry {
	return &Registry{objects: make(map[string]*Object), nextID: 1}
}

// Place registers a loaded object and computes its position.
func (r *Registry) Place(filePath string, d grid.Direction, mainSize, objSize [3]float64) (*Object, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("place %s: bad direction %q", filePath, d)
	}
	id := fmt.Sprintf("adj%d", r.nextID)
	r.nextID++
	o := &Object{
		ID:        id,
		FilePath:  filePath,
		Direction: d,
		Position:  PlacementOffset(d, mainSize, objSize),
		Size:      objSize,
		Visible:   true,
	}
	r.objects[id] = o
	r.order = append(r.order, id)
	return o, nil
}

func (r *Registry) Get(id string) (*Object, bool) {
	o, ok := r.objects[id]
	return o, ok
}

// Objects returns the placed objects in placement order, as a copy.
func (r *Registry) Objects() []*Object {
	out := make([]*Object, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.objects[id])
	}
	return out
}

func (r *Registry) Remove(id string) error {
	if _, ok := r.objects[id]; !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	delete(r.objects, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ToggleVisibility flips the flag and returns the new state.
func (r *Registry) ToggleVisibility(id string) (bool, error) {
	o, ok := r.objects[id]
	if !ok {
		return false, fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	o.Visible = !o.Visible
	return o.Visible, nil
}

// RotateY advances the object's Y rotation by 90 degrees.
func (r *Registry) RotateY(id string) (int, error) {
	o, ok := r.objects[id]
	if !ok {
		return 0, fmt.Errorf("rotate %s: %w", id, ErrNotFound)
	}
	o.RotationY = (o.RotationY + 90) % 360
	return o.RotationY, nil
}

func (r *Registry) Clear() {
	r.objects = make(map[string]*Object)
	r.order = nil
	r.nextID = 1
}

// Records converts the registry to its persisted form.
func (r *Registry) Records() []project.AdjacentObjectRecord {
	out := make([]project.AdjacentObjectRecord, 0, len(r.order))
	for _, o := range r.Objects() {
		out = append(out, project.AdjacentObjectRecord{
			ID:        o.ID,
			FilePath:  o.FilePath,
			Direction: string(o.Direction),
			Position:  o.Position,
			GridSizeX: o.GridSizeX,
			GridSizeY: o.GridSizeY,
			Visible:   o.Visible,
			RotationY: o.RotationY,
		})
	}
	return out
}

// Restore rebuilds the registry from persisted records, keeping ids.
func (r *Registry) Restore(records []project.AdjacentObjectRecord) {
	r.Clear()
	max := 0
	for _, rec := range records {
		o := &Object{
			ID:        rec.ID,
			FilePath:  rec.FilePath,
			Direction: grid.Direction(rec.Direction),
			Position:  rec.Position,
			GridSizeX: rec.GridSizeX,
			GridSizeY: rec.GridSizeY,
			Visible:   rec.Visible,
			RotationY: rec.RotationY,
		}
		r.objects[o.ID] = o
		r.order = append(r.order, o.ID)
		if n, ok := numericSuffix(rec.ID); ok && n > max {
			max = n
		}
	}
	if max >= r.nextID {
		r.nextID = max + 1
	}
}

func numericSuffix(id string) (int, bool) {
	const prefix = "adj"
	if len(id) <= len(prefix) || id[:len(prefix)] != prefix {
		return 0, false
	}
	n := 0
	for _, c := range id[len(prefix):] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
