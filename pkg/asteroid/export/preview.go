package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// DefaultPreviewSize is the edge length of a preview image in pixels.
const DefaultPreviewSize = 512

// previewSupersample is the render scale before the final downscale.
const previewSupersample = 2

var (
	previewBackground = color.RGBA{5, 5, 13, 255}
	previewRock       = mgl64.Vec3{0.55, 0.5, 0.45}
	previewCaption    = color.RGBA{200, 200, 200, 255}
	previewLight      = mgl64.Vec3{0.4, 0.7, 0.6}.Normalize()
)

// PreviewOptions controls WritePreview.
type PreviewOptions struct {
	Size    int    // edge length in pixels; DefaultPreviewSize when zero
	Caption string // drawn at the bottom left when not empty
}

// Caption summarizes res for a preview image.
func Caption(name string, res *asteroid.Result) string {
	s := res.Stats
	return fmt.Sprintf("%s  seed %d  r %.1f  %.3g kg", name, s.GlobalSeed, s.Radius, s.Mass)
}

// WritePreview renders the mesh seen from +Z with one directional light and
// writes it as a square PNG.
func WritePreview(w io.Writer, m *asteroid.Mesh, opts PreviewOptions) error {
	size := opts.Size
	if size <= 0 {
		size = DefaultPreviewSize
	}

	big := renderMesh(m, size*previewSupersample)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(img, img.Bounds(), big, big.Bounds(), xdraw.Src, nil)

	if opts.Caption != "" {
		if err := drawCaption(img, opts.Caption); err != nil {
			return err
		}
	}
	return png.Encode(w, img)
}

// renderMesh rasterizes front-facing triangles with a depth buffer.
func renderMesh(m *asteroid.Mesh, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, xdraw.Src)

	bounds := m.Bounds()
	center := bounds.Min.Add(bounds.Max).Mul(0.5)
	ext := bounds.Size()
	extent := max(ext[0], ext[1], ext[2]) / 2 * 1.1
	if extent <= 0 {
		return img
	}

	half := float64(size) / 2
	project := func(v mgl64.Vec3) mgl64.Vec3 {
		d := v.Sub(center)
		return mgl64.Vec3{half + d[0]/extent*half, half - d[1]/extent*half, d[2]}
	}

	depth := make([]float64, size*size)
	for i := range depth {
		depth[i] = math.Inf(-1)
	}

	n := uint32(len(m.Vertices))
	for _, t := range m.Triangles {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			continue
		}
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		if normal[2] <= 0 || normal.Len() == 0 {
			continue
		}
		normal = normal.Normalize()
		shade := 0.15 + 0.85*math.Max(normal.Dot(previewLight), 0)
		c := color.RGBA{
			R: uint8(255 * previewRock[0] * shade),
			G: uint8(255 * previewRock[1] * shade),
			B: uint8(255 * previewRock[2] * shade),
			A: 255,
		}
		fillTriangle(img, depth, project(v0), project(v1), project(v2), c)
	}
	return img
}

func fillTriangle(img *image.RGBA, depth []float64, p0, p1, p2 mgl64.Vec3, c color.RGBA) {
	area := edge(p0, p1, p2)
	if area == 0 {
		return
	}

	size := img.Bounds().Dx()
	minX := max(int(math.Floor(min(p0[0], p1[0], p2[0]))), 0)
	maxX := min(int(math.Ceil(max(p0[0], p1[0], p2[0]))), size-1)
	minY := max(int(math.Floor(min(p0[1], p1[1], p2[1]))), 0)
	maxY := min(int(math.Ceil(max(p0[1], p1[1], p2[1]))), size-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := mgl64.Vec3{float64(x) + 0.5, float64(y) + 0.5, 0}
			w0 := edge(p1, p2, p) / area
			w1 := edge(p2, p0, p) / area
			w2 := edge(p0, p1, p) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*p0[2] + w1*p1[2] + w2*p2[2]
			i := y*size + x
			if z <= depth[i] {
				continue
			}
			depth[i] = z
			img.SetRGBA(x, y, c)
		}
	}
}

// edge is twice the signed area of abc in the XY plane.
func edge(a, b, c mgl64.Vec3) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func drawCaption(img *image.RGBA, text string) error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	px := max(float64(img.Bounds().Dy())/32, 8)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(previewCaption),
		Face: face,
		Dot:  fixed.P(int(px/2), img.Bounds().Dy()-int(px/2)),
	}
	d.DrawString(text)
	return nil
}
