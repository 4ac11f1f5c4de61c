package domain

// Surface viewport in logical units. Images are scaled to fit inside it.
const (
	ViewportWidth  = 400
	ViewportHeight = 300
)

// SurfaceState is the lifecycle state of an annotation surface.
type SurfaceState string

const (
	SurfaceEmpty   SurfaceState = "empty"
	SurfaceLoading SurfaceState = "loading"
	SurfaceReady   SurfaceState = "ready"
)

type ImageSlot struct {
	Index       int
	Source      []byte
	Format      string
	Width       int
	Height      int
	RenderScale float64
	Snapshot    []byte
}

// FitScale returns the scale that fits a width x height image inside the
// viewport while preserving its aspect ratio. Degenerate sizes fall back to
// the viewport size.
func FitScale(width, height int) float64 {
	if width <= 0 {
		width = ViewportWidth
	}
	if height <= 0 {
		height = ViewportHeight
	}
	sx := float64(ViewportWidth) / float64(width)
	sy := float64(ViewportHeight) / float64(height)
	if sx < sy {
		return sx
	}
	return sy
}

// SurfaceSize is the drawing surface size for the slot after scaling.
func (s *ImageSlot) SurfaceSize() (float64, float64) {
	return float64(s.Width) * s.RenderScale, float64(s.Height) * s.RenderScale
}
