package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"voxelforge/internal/mesh"
)

// stlTriangle is the 50-byte binary STL record.
type stlTriangle struct {
	Normal [3]float32
	Vertex [3][3]float32
	Attr   uint16
}

type stlHeader struct {
	_     [80]uint8
	Count uint32
}

// WriteSTL writes the export mesh as binary STL. STL carries no color;
// only the boundary geometry survives.
func WriteSTL(w io.Writer, e mesh.Export) error {
	count := 0
	for _, g := range e.Groups {
		count += len(g.Indices) / 3
	}
	header := stlHeader{Count: uint32(count)}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var tri stlTriangle
	for _, g := range e.Groups {
		for i := 0; i+2 < len(g.Indices); i += 3 {
			tri.Normal = g.Normals[g.Indices[i]]
			tri.Vertex[0] = g.Positions[g.Indices[i]]
			tri.Vertex[1] = g.Positions[g.Indices[i+1]]
			tri.Vertex[2] = g.Positions[g.Indices[i+2]]
			if err := binary.Write(w, binary.LittleEndian, &tri); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveSTL writes binary STL to path.
func SaveSTL(e mesh.Export, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := WriteSTL(bw, e); err != nil {
		return fmt.Errorf("write stl: %w", err)
	}
	return bw.Flush()
}
