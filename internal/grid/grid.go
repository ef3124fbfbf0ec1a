// Package grid defines the geometry of a unit voxel cube: the fixed
// enumeration of its 8 corners, the 6 face definitions built from them,
// and the position delta for each face-normal direction.
//
// Every voxel instantiated anywhere in the engine uses these exact
// tables, which is what lets the mesh builder and exporters reason about
// winding and adjacency purely from direction tags.
package grid

// Pos is an integer grid position. A voxel at Pos occupies the unit cube
// from (X,Y,Z) to (X+1,Y+1,Z+1).
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (p Pos) Add(o Pos) Pos {
	return Pos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Direction is a face-normal direction tag.
type Direction string

const (
	XPlus  Direction = "x+"
	XMinus Direction = "x-"
	YPlus  Direction = "y+"
	YMinus Direction = "y-"
	ZPlus  Direction = "z+"
	ZMinus Direction = "z-"
)

// Directions lists all six directions in canonical order.
var Directions = [6]Direction{XPlus, XMinus, YPlus, YMinus, ZPlus, ZMinus}

// Positive reports whether the direction points along the positive axis.
func (d Direction) Positive() bool {
	return len(d) == 2 && d[1] == '+'
}

// Valid reports whether d is one of the six direction tags.
func (d Direction) Valid() bool {
	switch d {
	case XPlus, XMinus, YPlus, YMinus, ZPlus, ZMinus:
		return true
	}
	return false
}

// Delta returns the grid offset of the neighbor cell in direction d.
func Delta(d Direction) Pos {
	switch d {
	case XPlus:
		return Pos{X: 1}
	case XMinus:
		return Pos{X: -1}
	case YPlus:
		return Pos{Y: 1}
	case YMinus:
		return Pos{Y: -1}
	case ZPlus:
		return Pos{Z: 1}
	case ZMinus:
		return Pos{Z: -1}
	}
	return Pos{}
}

// FaceName is the stable per-voxel face identifier.
type FaceName string

const (
	FaceTop    FaceName = "top"
	FaceBottom FaceName = "bottom"
	FaceFront  FaceName = "front"
	FaceBack   FaceName = "back"
	FaceRight  FaceName = "right"
	FaceLeft   FaceName = "left"
)

// cornerOffsets enumerates the 8 cube corners v0..v7 relative to the
// voxel origin. The order is fixed forever; face definitions index into
// it.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, // v0
	{1, 0, 0}, // v1
	{1, 1, 0}, // v2
	{0, 1, 0}, // v3
	{0, 0, 1}, // v4
	{1, 0, 1}, // v5
	{1, 1, 1}, // v6
	{0, 1, 1}, // v7
}

// Corners returns the 8 corner coordinates of the voxel at p, in the
// fixed v0..v7 enumeration order.
func Corners(p Pos) [8]Pos {
	var out [8]Pos
	for i, off := range cornerOffsets {
		out[i] = Pos{X: p.X + off[0], Y: p.Y + off[1], Z: p.Z + off[2]}
	}
	return out
}

// FaceDef names one of the six faces of a cube: which 4 corners form its
// quad and which direction its outward normal points.
//
// Corner order convention: the quad is listed clockwise as seen from the
// positive end of the face's axis. Triangulating (0,1,2),(0,2,3) in the
// stored order therefore faces outward for "-" directions; "+" directions
// take the reversed order (0,2,1),(0,3,2). Exporters rely on this.
type FaceDef struct {
	Name    FaceName
	Corners [4]int
	Normal  Direction
}

// faceDefs is the canonical face table, in the order faces are built on
// every voxel.
var faceDefs = [6]FaceDef{
	{Name: FaceTop, Corners: [4]int{3, 2, 6, 7}, Normal: YPlus},
	{Name: FaceBottom, Corners: [4]int{0, 1, 5, 4}, Normal: YMinus},
	{Name: FaceFront, Corners: [4]int{4, 7, 6, 5}, Normal: ZPlus},
	{Name: FaceBack, Corners: [4]int{0, 3, 2, 1}, Normal: ZMinus},
	{Name: FaceRight, Corners: [4]int{1, 5, 6, 2}, Normal: XPlus},
	{Name: FaceLeft, Corners: [4]int{0, 4, 7, 3}, Normal: XMinus},
}

// Faces returns the six face definitions in canonical order.
func Faces() [6]FaceDef {
	return faceDefs
}

// FaceByName looks up a face definition by its canonical name.
func FaceByName(name FaceName) (FaceDef, bool) {
	for _, f := range faceDefs {
		if f.Name == name {
			return f, true
		}
	}
	return FaceDef{}, false
}
