package export

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"voxelforge/internal/grid"
	"voxelforge/internal/mesh"
	"voxelforge/internal/store"
)

func paintedScene(t *testing.T) mesh.Export {
	t.Helper()
	s := store.New()
	v, err := s.AddVoxel(grid.Pos{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.ColorFace(v.ID, grid.FaceTop, "#ff8800"); err != nil {
		t.Fatalf("color: %v", err)
	}
	return mesh.BuildExport(s)
}

func TestParseHexColor(t *testing.T) {
	rgba, err := ParseHexColor("#ff0080")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rgba[0] != 1 || rgba[1] != 0 || rgba[3] != 1 {
		t.Fatalf("rgba %v", rgba)
	}
	for _, bad := range []string{"", "ff0080", "#ff008", "#zzzzzz"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Fatalf("accepted %q", bad)
		}
	}
}

func TestBuildDocument_Structure(t *testing.T) {
	doc, err := BuildDocument(paintedScene(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 || len(doc.Materials) != 1 {
		t.Fatalf("meshes=%d nodes=%d materials=%d", len(doc.Meshes), len(doc.Nodes), len(doc.Materials))
	}
	// Two color groups: the painted top and the five default faces.
	prims := doc.Meshes[0].Primitives
	if len(prims) != 2 {
		t.Fatalf("primitives %d want 2", len(prims))
	}
	for _, p := range prims {
		for _, attr := range []string{gltf.POSITION, gltf.NORMAL, gltf.COLOR_0} {
			if _, ok := p.Attributes[attr]; !ok {
				t.Fatalf("primitive missing %s", attr)
			}
		}
		if p.Indices == nil || p.Material == nil {
			t.Fatalf("primitive missing indices/material")
		}
		acc := doc.Accessors[p.Attributes[gltf.POSITION]]
		if len(acc.Min) != 3 || len(acc.Max) != 3 {
			t.Fatalf("position accessor without bounds")
		}
	}
	m := doc.Materials[0].PBRMetallicRoughness
	if *m.BaseColorFactor != [4]float32{1, 1, 1, 1} {
		t.Fatalf("base color %v", *m.BaseColorFactor)
	}
}

func TestBuildDocument_Empty(t *testing.T) {
	doc, err := BuildDocument(mesh.BuildExport(store.New()))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(doc.Meshes) != 0 || len(doc.Nodes) != 0 {
		t.Fatalf("empty store produced geometry nodes")
	}
	if len(doc.Scenes) != 1 {
		t.Fatalf("empty document must keep a valid scene")
	}
}

func TestSaveGLTF_EmbedsBuffer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.gltf")
	if err := SaveGLTF(paintedScene(t), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "data:application/octet-stream;base64,") {
		t.Fatalf("buffer not embedded as data URI")
	}
}

func TestSaveGLB_SameLogicalContent(t *testing.T) {
	dir := t.TempDir()
	e := paintedScene(t)
	gltfPath := filepath.Join(dir, "model.gltf")
	glbPath := filepath.Join(dir, "model.glb")
	if err := SaveGLTF(e, gltfPath); err != nil {
		t.Fatalf("save gltf: %v", err)
	}
	if err := SaveGLB(e, glbPath); err != nil {
		t.Fatalf("save glb: %v", err)
	}

	a, err := gltf.Open(gltfPath)
	if err != nil {
		t.Fatalf("open gltf: %v", err)
	}
	b, err := gltf.Open(glbPath)
	if err != nil {
		t.Fatalf("open glb: %v", err)
	}
	if len(a.Accessors) != len(b.Accessors) {
		t.Fatalf("accessors differ: %d vs %d", len(a.Accessors), len(b.Accessors))
	}
	if len(a.Meshes[0].Primitives) != len(b.Meshes[0].Primitives) {
		t.Fatalf("primitive counts differ")
	}
	for i := range a.Accessors {
		if a.Accessors[i].Count != b.Accessors[i].Count {
			t.Fatalf("accessor %d count differs", i)
		}
	}
}

func TestWriteSTL_TriangleCount(t *testing.T) {
	e := paintedScene(t)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, e); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.Bytes()
	if len(raw) < 84 {
		t.Fatalf("short stl: %d bytes", len(raw))
	}
	count := binary.LittleEndian.Uint32(raw[80:84])
	// 6 boundary faces, 2 triangles each.
	if count != 12 {
		t.Fatalf("triangles %d want 12", count)
	}
	if want := 84 + int(count)*50; len(raw) != want {
		t.Fatalf("size %d want %d", len(raw), want)
	}
}
