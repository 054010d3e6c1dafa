package viewer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// screenshots saves framebuffer captures as PNG files.
type screenshots struct {
	dir string
	now func() time.Time
}

func newScreenshots(dir string) *screenshots {
	return &screenshots{dir: dir, now: time.Now}
}

// filename names a capture after the asteroid seed and the current time.
func (s *screenshots) filename(seed int32) string {
	name := fmt.Sprintf("asteroid-%d_%s.png", seed, s.now().Format("2006-01-02_15-04-05"))
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}

// save writes RGBA pixels read back from OpenGL. Rows are flipped since
// OpenGL puts the origin at the bottom left.
func (s *screenshots) save(pixels []byte, width, height int, seed int32) (string, error) {
	img, err := flipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating screenshot dir: %w", err)
		}
	}

	path := s.filename(seed)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}

func flipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: %dx%d needs %d bytes, got %d",
			width, height, width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := range height {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}
