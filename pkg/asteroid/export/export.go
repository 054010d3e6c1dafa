// Package export writes generated asteroids to mesh and data files.
package export

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// Format identifies an output file format.
type Format string

const (
	FormatOBJ  Format = "obj"
	FormatSTL  Format = "stl"
	FormatJSON Format = "json"
	FormatPNG  Format = "png" // rendered preview, not a mesh
)

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case FormatOBJ, FormatSTL, FormatJSON, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want obj, stl, json or png)", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Write encodes res in the given format.
func Write(w io.Writer, format Format, name string, res *asteroid.Result) error {
	switch format {
	case FormatOBJ:
		return WriteOBJ(w, name, &res.Mesh)
	case FormatSTL:
		return WriteSTL(w, name, &res.Mesh)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatPNG:
		return WritePreview(w, &res.Mesh, PreviewOptions{Caption: Caption(name, res)})
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteOBJ writes a Wavefront OBJ object with positions, normals and
// 1-based faces.
func WriteOBJ(w io.Writer, name string, m *asteroid.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# rockforge asteroid: %d vertices, %d triangles\n", len(m.Vertices), len(m.Triangles))
	fmt.Fprintf(bw, "o %s\n", name)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}
	for _, t := range m.Triangles {
		a, b, c := t[0]+1, t[1]+1, t[2]+1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}

	return bw.Flush()
}

// stlHeaderSize is the fixed binary STL header length.
const stlHeaderSize = 80

// WriteSTL writes a binary STL file. Facet normals are recomputed from the
// triangle winding; triangles with out-of-range indices are skipped.
func WriteSTL(w io.Writer, name string, m *asteroid.Mesh) error {
	bw := bufio.NewWriter(w)
	n := uint32(len(m.Vertices))

	var header [stlHeaderSize]byte
	copy(header[:], "rockforge "+name)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var count uint32
	for _, t := range m.Triangles {
		if t[0] < n && t[1] < n && t[2] < n {
			count++
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, count); err != nil {
		return err
	}

	var rec [50]byte
	for _, t := range m.Triangles {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			continue
		}
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		normal := faceNormal(v0, v1, v2)

		putVec(rec[0:], normal)
		putVec(rec[12:], v0)
		putVec(rec[24:], v1)
		putVec(rec[36:], v2)
		binary.LittleEndian.PutUint16(rec[48:], 0)

		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func putVec(b []byte, v mgl64.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v[0])))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v[1])))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v[2])))
}

func faceNormal(v0, v1, v2 mgl64.Vec3) mgl64.Vec3 {
	c := v1.Sub(v0).Cross(v2.Sub(v0))
	l := c.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return c.Mul(1 / l)
}

// WriteJSON writes the full result (mesh, stats, physics) as indented JSON.
func WriteJSON(w io.Writer, res *asteroid.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteStats writes the stats record as YAML.
func WriteStats(w io.Writer, stats asteroid.Stats) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stats); err != nil {
		return err
	}
	return enc.Close()
}
