// Package export writes the culled mesh to interchange formats: glTF
// (JSON with an embedded base64 buffer, or packed binary GLB) and
// binary STL. Both glTF variants encode the same logical content.
package export

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"voxelforge/internal/mesh"
)

const generator = "voxelforge"

var ErrBadHexColor = errors.New("malformed hex color")

// ParseHexColor converts "#RRGGBB" to linear RGBA factors in [0,1].
func ParseHexColor(s string) ([4]float32, error) {
	var rgba [4]float32
	if len(s) != 7 || s[0] != '#' {
		return rgba, fmt.Errorf("%q: %w", s, ErrBadHexColor)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return rgba, fmt.Errorf("%q: %w", s, ErrBadHexColor)
	}
	rgba[0] = float32(r) / 255
	rgba[1] = float32(g) / 255
	rgba[2] = float32(b) / 255
	rgba[3] = 1
	return rgba, nil
}

// BuildDocument assembles a glTF document from an export mesh: one mesh
// node, one primitive per color group with POSITION/NORMAL/COLOR_0
// accessors, and a single neutral material so the vertex colors carry
// the look. An empty mesh yields a valid document with no geometry
// nodes.
func BuildDocument(e mesh.Export) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator

	if e.Empty() {
		return doc, nil
	}

	var prims []*gltf.Primitive
	for _, g := range e.Groups {
		rgba, err := ParseHexColor(g.Color)
		if err != nil {
			return nil, err
		}
		colors := make([][4]float32, len(g.Positions))
		for i := range colors {
			colors[i] = rgba
		}
		positions := make([][3]float32, len(g.Positions))
		copy(positions, g.Positions)
		normals := make([][3]float32, len(g.Normals))
		copy(normals, g.Normals)
		indices := make([]uint32, len(g.Indices))
		copy(indices, g.Indices)

		posAccessor := modeler.WritePosition(doc, positions)
		normalAccessor := modeler.WriteNormal(doc, normals)
		colorAccessor := modeler.WriteColor(doc, colors)
		indicesAccessor := modeler.WriteIndices(doc, indices)

		prims = append(prims, &gltf.Primitive{
			Attributes: map[string]uint32{
				gltf.POSITION: uint32(posAccessor),
				gltf.NORMAL:   uint32(normalAccessor),
				gltf.COLOR_0:  uint32(colorAccessor),
			},
			Indices:  gltf.Index(uint32(indicesAccessor)),
			Material: gltf.Index(0),
		})
	}

	// Report bounds on every position accessor, per group.
	for gi, p := range prims {
		g := e.Groups[gi]
		min, max := g.Positions[0], g.Positions[0]
		for _, pos := range g.Positions {
			for k := 0; k < 3; k++ {
				if pos[k] < min[k] {
					min[k] = pos[k]
				}
				if pos[k] > max[k] {
					max[k] = pos[k]
				}
			}
		}
		acc := doc.Accessors[p.Attributes[gltf.POSITION]]
		acc.Min = []float32{min[0], min[1], min[2]}
		acc.Max = []float32{max[0], max[1], max[2]}
	}

	doc.Materials = []*gltf.Material{{
		Name: "voxel",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}}

	doc.Meshes = []*gltf.Mesh{{Name: "VoxelMesh", Primitives: prims}}
	doc.Nodes = []*gltf.Node{{Name: "voxels", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// SaveGLTF writes the JSON-embedded form: the binary buffer is inlined
// as a base64 data URI so the file is self-contained.
func SaveGLTF(e mesh.Export, path string) error {
	doc, err := BuildDocument(e)
	if err != nil {
		return err
	}
	for _, buf := range doc.Buffers {
		buf.EmbeddedResource()
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("write gltf: %w", err)
	}
	return nil
}

// SaveGLB writes the packed-binary form.
func SaveGLB(e mesh.Export, path string) error {
	doc, err := BuildDocument(e)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("write glb: %w", err)
	}
	return nil
}
