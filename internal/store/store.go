// Package store owns the live voxel graph of one open model: the voxel
// records, their vertices and faces, and the authoritative face-color
// map. All mutation goes through a single Store instance; the package is
// not safe for concurrent mutation.
package store

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"voxelforge/internal/grid"
)

const DefaultFaceColor = "#808080"

var (
	ErrPositionOccupied = errors.New("position already occupied")
	ErrOutOfBounds      = errors.New("position out of bounds")
	ErrNotFound         = errors.New("not found")
	ErrIDInUse          = errors.New("id already present")
	ErrBadColor         = errors.New("malformed color")
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidHexColor reports whether s is a #RRGGBB color string.
func ValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

type VoxelID string

type VertexID int

// Vertex is one cube corner. Vertices are owned by exactly one voxel and
// never shared, even when coincident in space.
type Vertex struct {
	ID       VertexID `json:"id"`
	Position grid.Pos `json:"position"`
}

// Face is one of a voxel's six quads. VertexIDs index the owning voxel's
// vertices in the canonical corner order for the face. Color caches the
// current paint; the store's color map is the source of truth.
type Face struct {
	ID        grid.FaceName `json:"id"`
	VertexIDs [4]VertexID   `json:"vertexIds"`
	Normal    grid.Direction `json:"normal"`
	Color     string        `json:"color"`
}

// Voxel is a unit cube on the integer grid: 8 vertices, 6 faces, built
// in the fixed order defined by package grid.
type Voxel struct {
	ID       VoxelID   `json:"id"`
	Position grid.Pos  `json:"position"`
	Vertices [8]Vertex `json:"vertices"`
	Faces    [6]Face   `json:"faces"`
}

// Face returns the named face of the voxel.
func (v *Voxel) Face(name grid.FaceName) (*Face, bool) {
	for i := range v.Faces {
		if v.Faces[i].ID == name {
			return &v.Faces[i], true
		}
	}
	return nil, false
}

// Bounds is a half-open region [Min, Max) constraining where voxels may
// be added.
type Bounds struct {
	Min grid.Pos `json:"min"`
	Max grid.Pos `json:"max"`
}

func (b Bounds) Contains(p grid.Pos) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// ColorKey builds the composite "<voxelId>_<faceId>" key used by the
// color map and the project file's flat color dictionary.
func ColorKey(id VoxelID, face grid.FaceName) string {
	return fmt.Sprintf("%s_%s", id, face)
}

// Store holds all live voxels of one model plus the face-color map.
type Store struct {
	voxels   map[VoxelID]*Voxel
	byPos    map[grid.Pos]VoxelID
	colors   map[string]string
	bounds   *Bounds
	nextVox  int
	nextVert int
}

func New() *Store {
	return &Store{
		voxels:  make(map[VoxelID]*Voxel),
		byPos:   make(map[grid.Pos]VoxelID),
		colors:  make(map[string]string),
		nextVox: 1,
	}
}

// NewBounded returns a store that rejects additions outside b.
func NewBounded(b Bounds) *Store {
	s := New()
	s.bounds = &b
	return s
}

// SetBounds installs or removes (nil) the addition bounds. Existing
// voxels are not re-checked.
func (s *Store) SetBounds(b *Bounds) {
	s.bounds = b
}

// AddVoxel creates a fresh voxel at p. Fails with ErrPositionOccupied or
// ErrOutOfBounds without touching the store.
func (s *Store) AddVoxel(p grid.Pos) (*Voxel, error) {
	if _, taken := s.byPos[p]; taken {
		return nil, fmt.Errorf("add voxel at %v: %w", p, ErrPositionOccupied)
	}
	if s.bounds != nil && !s.bounds.Contains(p) {
		return nil, fmt.Errorf("add voxel at %v: %w", p, ErrOutOfBounds)
	}
	id := VoxelID(fmt.Sprintf("v%d", s.nextVox))
	s.nextVox++
	v := s.buildVoxel(id, p)
	s.insert(v)
	return v, nil
}

// AddVoxelWithID creates a fresh voxel at p under a caller-chosen id.
// Used when re-applying a recorded add whose original snapshot is gone;
// vertex ids are newly allocated and faces start at the default color.
func (s *Store) AddVoxelWithID(id VoxelID, p grid.Pos) (*Voxel, error) {
	if _, ok := s.voxels[id]; ok {
		return nil, fmt.Errorf("add voxel %s: %w", id, ErrIDInUse)
	}
	if _, taken := s.byPos[p]; taken {
		return nil, fmt.Errorf("add voxel at %v: %w", p, ErrPositionOccupied)
	}
	if s.bounds != nil && !s.bounds.Contains(p) {
		return nil, fmt.Errorf("add voxel at %v: %w", p, ErrOutOfBounds)
	}
	v := s.buildVoxel(id, p)
	s.insert(v)
	return v, nil
}

func (s *Store) buildVoxel(id VoxelID, p grid.Pos) *Voxel {
	v := &Voxel{ID: id, Position: p}
	corners := grid.Corners(p)
	for i, c := range corners {
		v.Vertices[i] = Vertex{ID: VertexID(s.nextVert + 1 + i), Position: c}
	}
	s.nextVert += 8
	for i, def := range grid.Faces() {
		f := Face{ID: def.Name, Normal: def.Normal, Color: DefaultFaceColor}
		for j, ci := range def.Corners {
			f.VertexIDs[j] = v.Vertices[ci].ID
		}
		v.Faces[i] = f
	}
	return v
}

func (s *Store) insert(v *Voxel) {
	s.voxels[v.ID] = v
	s.byPos[v.Position] = v.ID
	for i := range v.Faces {
		s.colors[ColorKey(v.ID, v.Faces[i].ID)] = v.Faces[i].Color
	}
}

// AddVoxelAtFace extrudes: the new voxel sits at the source voxel's
// position offset by the face normal's delta.
func (s *Store) AddVoxelAtFace(id VoxelID, face grid.FaceName) (*Voxel, error) {
	v, ok := s.voxels[id]
	if !ok {
		return nil, fmt.Errorf("extrude from voxel %s: %w", id, ErrNotFound)
	}
	f, ok := v.Face(face)
	if !ok {
		return nil, fmt.Errorf("extrude from face %s/%s: %w", id, face, ErrNotFound)
	}
	return s.AddVoxel(v.Position.Add(grid.Delta(f.Normal)))
}

// DeleteVoxel removes the voxel and its color-map entries, returning a
// snapshot sufficient to restore it exactly. The freed id is never
// handed out again by AddVoxel.
func (s *Store) DeleteVoxel(id VoxelID) (Snapshot, error) {
	v, ok := s.voxels[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("delete voxel %s: %w", id, ErrNotFound)
	}
	snap := captureSnapshot(v, s.colors)
	delete(s.voxels, id)
	delete(s.byPos, v.Position)
	for i := range v.Faces {
		delete(s.colors, ColorKey(id, v.Faces[i].ID))
	}
	return snap, nil
}

// RestoreVoxel reinstates a voxel under its original id from a snapshot,
// reusing the snapshot's vertex and face data verbatim.
func (s *Store) RestoreVoxel(id VoxelID, snap Snapshot) error {
	if _, ok := s.voxels[id]; ok {
		return fmt.Errorf("restore voxel %s: %w", id, ErrIDInUse)
	}
	if _, taken := s.byPos[snap.Position]; taken {
		return fmt.Errorf("restore voxel %s at %v: %w", id, snap.Position, ErrPositionOccupied)
	}
	v, err := snap.toVoxel(id)
	if err != nil {
		return fmt.Errorf("restore voxel %s: %w", id, err)
	}
	s.voxels[id] = v
	s.byPos[v.Position] = id
	for i := range v.Faces {
		f := &v.Faces[i]
		color := snap.Colors[f.ID]
		if color == "" {
			color = f.Color
		}
		if color == "" {
			color = DefaultFaceColor
		}
		f.Color = color
		s.colors[ColorKey(id, f.ID)] = color
	}
	return nil
}

// InstallVoxel inserts a persisted voxel verbatim, resolving each face
// color from the flat color dictionary, then the face's cached color,
// then the default. Used on project load.
func (s *Store) InstallVoxel(rec Voxel, colors map[string]string) error {
	if _, ok := s.voxels[rec.ID]; ok {
		return fmt.Errorf("install voxel %s: %w", rec.ID, ErrIDInUse)
	}
	if _, taken := s.byPos[rec.Position]; taken {
		return fmt.Errorf("install voxel %s at %v: %w", rec.ID, rec.Position, ErrPositionOccupied)
	}
	v := rec
	s.voxels[v.ID] = &v
	s.byPos[v.Position] = v.ID
	for i := range v.Faces {
		f := &v.Faces[i]
		color := colors[ColorKey(v.ID, f.ID)]
		if color == "" {
			color = f.Color
		}
		if color == "" {
			color = DefaultFaceColor
		}
		f.Color = color
		s.colors[ColorKey(v.ID, f.ID)] = color
	}
	return nil
}

// ColorFace paints one face, updating both the color map and the face's
// cached color. No history is recorded here.
func (s *Store) ColorFace(id VoxelID, face grid.FaceName, color string) error {
	if !ValidHexColor(color) {
		return fmt.Errorf("color %q: %w", color, ErrBadColor)
	}
	v, ok := s.voxels[id]
	if !ok {
		return fmt.Errorf("color voxel %s: %w", id, ErrNotFound)
	}
	f, ok := v.Face(face)
	if !ok {
		return fmt.Errorf("color face %s/%s: %w", id, face, ErrNotFound)
	}
	f.Color = color
	s.colors[ColorKey(id, face)] = color
	return nil
}

// FaceColor resolves the current color of a face: color map first, then
// the face's cached color, then the default.
func (s *Store) FaceColor(id VoxelID, face grid.FaceName) string {
	if c, ok := s.colors[ColorKey(id, face)]; ok && c != "" {
		return c
	}
	if v, ok := s.voxels[id]; ok {
		if f, ok := v.Face(face); ok && f.Color != "" {
			return f.Color
		}
	}
	return DefaultFaceColor
}

// Voxel returns the voxel by id.
func (s *Store) Voxel(id VoxelID) (*Voxel, bool) {
	v, ok := s.voxels[id]
	return v, ok
}

// VoxelAt returns the voxel occupying p, if any.
func (s *Store) VoxelAt(p grid.Pos) (*Voxel, bool) {
	id, ok := s.byPos[p]
	if !ok {
		return nil, false
	}
	return s.voxels[id], true
}

// Occupied reports whether a voxel exists at p.
func (s *Store) Occupied(p grid.Pos) bool {
	_, ok := s.byPos[p]
	return ok
}

// Voxels returns the live voxels as a freshly allocated slice sorted by
// id. Mutating the slice cannot corrupt the store; the pointed-to voxels
// are shared and must be treated as read-only by callers.
func (s *Store) Voxels() []*Voxel {
	out := make([]*Voxel, 0, len(s.voxels))
	for _, v := range s.voxels {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) VoxelCount() int {
	return len(s.voxels)
}

// VertexCount is always 8 per live voxel.
func (s *Store) VertexCount() int {
	return len(s.voxels) * 8
}

// Colors returns a copy of the color map.
func (s *Store) Colors() map[string]string {
	out := make(map[string]string, len(s.colors))
	for k, v := range s.colors {
		out[k] = v
	}
	return out
}

// Clear drops everything and resets the id counters.
func (s *Store) Clear() {
	s.voxels = make(map[VoxelID]*Voxel)
	s.byPos = make(map[grid.Pos]VoxelID)
	s.colors = make(map[string]string)
	s.nextVox = 1
	s.nextVert = 0
}

// NextIDs reports the counters to persist so a reloaded project keeps
// allocating monotonically.
func (s *Store) NextIDs() (nextVoxel, nextVertex int) {
	return s.nextVox, s.nextVert
}

// AdvanceIDs raises the counters to at least the given values. Used on
// project load after voxels are restored; counters never move backward.
func (s *Store) AdvanceIDs(nextVoxel, nextVertex int) {
	if nextVoxel > s.nextVox {
		s.nextVox = nextVoxel
	}
	if nextVertex > s.nextVert {
		s.nextVert = nextVertex
	}
}
