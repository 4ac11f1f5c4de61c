package annotation

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/dentalmark/dentalmark/internal/domain"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// circleK is the cubic Bézier control distance for a quarter circle.
const circleK = 0.5522847498307936

// Render draws the scaled background and the markers into a new RGBA image
// of the surface size.
func (s *Surface) Render() (*image.RGBA, error) {
	s.mu.Lock()
	if s.state != domain.SurfaceReady {
		s.mu.Unlock()
		return nil, domain.ErrSurfaceNotReady
	}
	img := s.img
	w, h := s.slot.SurfaceSize()
	markers := make([]domain.Marker, len(s.markers))
	copy(markers, s.markers)
	s.mu.Unlock()

	dw := int(math.Round(w))
	dh := int(math.Round(h))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	for _, m := range markers {
		fillCircle(dst, m.Position.X, m.Position.Y, MarkerRadius+MarkerStroke, color.White)
		fillCircle(dst, m.Position.X, m.Position.Y, MarkerRadius, ParseColor(m.Color))
	}
	return dst, nil
}

// Snapshot renders the surface and encodes it as PNG. The result is also
// stored on the slot.
func (s *Surface) Snapshot() ([]byte, error) {
	rgba, err := s.Render()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	s.mu.Lock()
	if s.slot != nil {
		s.slot.Snapshot = buf.Bytes()
	}
	s.mu.Unlock()
	return buf.Bytes(), nil
}

func fillCircle(dst *image.RGBA, cx, cy, r float64, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	x, y, rr := float32(cx), float32(cy), float32(r)
	o := float32(r * circleK)

	z.MoveTo(x+rr, y)
	z.CubeTo(x+rr, y+o, x+o, y+rr, x, y+rr)
	z.CubeTo(x-o, y+rr, x-rr, y+o, x-rr, y)
	z.CubeTo(x-rr, y-o, x-o, y-rr, x, y-rr)
	z.CubeTo(x+o, y-rr, x+rr, y-o, x+rr, y)
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// ParseColor converts a "#rgb" or "#rrggbb" token to a color. Anything else
// renders as neutral gray.
func ParseColor(token string) color.Color {
	fallback := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	hex := strings.TrimPrefix(strings.TrimSpace(token), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
