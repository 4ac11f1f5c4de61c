// Package annotation implements the image surface on which treatment markers
// are placed, selected and removed.
package annotation

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/events"
	"github.com/google/uuid"
)

// Marker geometry in surface units.
const (
	MarkerRadius = 8.0
	MarkerStroke = 2.0
	HitRadius    = MarkerRadius + MarkerStroke
)

// Option configures a Surface.
type Option func(*Surface)

// WithDecoder replaces the image decoder.
func WithDecoder(d Decoder) Option {
	return func(s *Surface) { s.decode = d }
}

// WithIDGenerator replaces the marker id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Surface) { s.newID = fn }
}

// Outcome reports what a pointer-down did. At most one of Placed and
// Selected is set; neither is set when the click was rejected with a notice.
type Outcome struct {
	Placed   *domain.Marker
	Selected *domain.Marker
	Notice   string
}

// Surface owns one image slot and the markers placed on it. Markers are kept
// in z-order: the last element is drawn on top.
type Surface struct {
	mu sync.Mutex

	index    int
	state    domain.SurfaceState
	slot     *domain.ImageSlot
	img      image.Image
	markers  []domain.Marker
	selected string
	armed    domain.ArmedTreatment
	detached bool

	pub    events.Publisher
	decode Decoder
	newID  func() string
}

// New creates an empty surface for the given image index. Events are sent
// to pub once the surface's own state has been updated.
func New(index int, pub events.Publisher, opts ...Option) *Surface {
	if pub == nil {
		pub = events.Discard
	}
	s := &Surface{
		index:  index,
		state:  domain.SurfaceEmpty,
		pub:    pub,
		decode: DecodeImage,
		newID:  func() string { return "treatment-" + uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Index() int { return s.index }

func (s *Surface) State() domain.SurfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Slot returns a copy of the loaded image slot, or nil before the first load.
func (s *Surface) Slot() *domain.ImageSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot == nil {
		return nil
	}
	cp := *s.slot
	return &cp
}

// Size returns the drawing surface dimensions, zero when nothing is loaded.
func (s *Surface) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot == nil {
		return 0, 0
	}
	return s.slot.SurfaceSize()
}

func (s *Surface) emit(evts []events.Event) {
	for _, e := range evts {
		s.pub.Publish(e)
	}
}

// LoadImage decodes data and makes it the surface background. On failure
// the surface keeps its previous image and markers (or stays empty on the
// first load) and a notice is emitted. Replacing an image clears the
// markers placed on the old one.
func (s *Surface) LoadImage(data []byte) error {
	return s.LoadImageIf(data, nil)
}

// LoadImageIf is LoadImage for asynchronous loads: after decoding, current
// is consulted and a false result discards the image with
// domain.ErrStaleLoad, leaving the surface untouched.
func (s *Surface) LoadImageIf(data []byte, current func() bool) error {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return domain.ErrStaleLoad
	}
	prev := s.state
	s.state = domain.SurfaceLoading
	decode := s.decode
	s.mu.Unlock()

	img, format, err := decode(data)

	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return domain.ErrStaleLoad
	}
	if err != nil {
		s.state = prev
		s.mu.Unlock()
		if !errors.Is(err, domain.ErrImageDecode) {
			err = fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
		}
		s.pub.Publish(events.Noticef(events.LevelError, "could not load image"))
		return err
	}
	if current != nil && !current() {
		s.state = prev
		s.mu.Unlock()
		return domain.ErrStaleLoad
	}

	var evts []events.Event
	if len(s.markers) > 0 {
		removed := s.markers
		s.markers = nil
		evts = append(evts, events.Cleared(s.index, removed))
	}
	if s.selected != "" {
		s.selected = ""
		evts = append(evts, events.Selected(s.index, nil))
	}

	b := img.Bounds()
	s.img = img
	s.slot = &domain.ImageSlot{
		Index:       s.index,
		Source:      data,
		Format:      format,
		Width:       b.Dx(),
		Height:      b.Dy(),
		RenderScale: domain.FitScale(b.Dx(), b.Dy()),
	}
	s.state = domain.SurfaceReady
	s.mu.Unlock()

	s.emit(evts)
	return nil
}

// Detach retires the surface once its image slot is gone. Markers, selection
// and image are dropped without events, the state returns to empty and every
// later load fails with domain.ErrStaleLoad, so marker operations keep
// failing with domain.ErrSurfaceNotReady.
func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	s.state = domain.SurfaceEmpty
	s.img = nil
	s.slot = nil
	s.markers = nil
	s.selected = ""
	s.armed = domain.ArmedTreatment{}
}

// Arm sets the treatment attached to subsequent placements.
func (s *Surface) Arm(color, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = domain.ArmedTreatment{Color: color, Name: name}
}

func (s *Surface) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = domain.ArmedTreatment{}
}

func (s *Surface) Armed() domain.ArmedTreatment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// PointerDown handles a click at surface-local coordinates. A click on an
// existing marker selects it; otherwise a marker for the armed treatment is
// placed.
func (s *Surface) PointerDown(x, y float64) (Outcome, error) {
	s.mu.Lock()
	if s.state != domain.SurfaceReady {
		s.mu.Unlock()
		return Outcome{}, domain.ErrSurfaceNotReady
	}
	if i := s.hitLocked(x, y); i >= 0 {
		m := s.markers[i]
		evts := s.selectLocked(m.ID)
		s.mu.Unlock()
		s.emit(evts)
		return Outcome{Selected: &m}, nil
	}
	armed := s.armed
	s.mu.Unlock()

	m, err := s.PlaceMarker(x, y, armed.Color, armed.Name)
	if err != nil {
		return Outcome{}, err
	}
	if m == nil {
		return Outcome{Notice: domain.NoticeSelectTreatment}, nil
	}
	return Outcome{Placed: m}, nil
}

// PlaceMarker appends a marker at (x, y). It fails with
// domain.ErrSurfaceNotReady unless an image is loaded; without a color and
// treatment name it emits the "select a treatment first" notice and returns
// (nil, nil).
// Hit-testing is the caller's concern; use PointerDown for click handling.
func (s *Surface) PlaceMarker(x, y float64, color, name string) (*domain.Marker, error) {
	s.mu.Lock()
	if s.state != domain.SurfaceReady {
		s.mu.Unlock()
		return nil, domain.ErrSurfaceNotReady
	}
	if color == "" || name == "" {
		s.mu.Unlock()
		s.pub.Publish(events.Noticef(events.LevelError, domain.NoticeSelectTreatment))
		return nil, nil
	}
	m := domain.Marker{
		ID:            s.newID(),
		Position:      domain.Point{X: x, Y: y},
		Color:         color,
		TreatmentName: name,
		ImageIndex:    s.index,
	}
	s.markers = append(s.markers, m)
	s.mu.Unlock()

	s.pub.Publish(events.Placed(m))
	s.pub.Publish(events.Noticef(events.LevelSuccess, name+" added"))
	return &m, nil
}

// HitTest returns the topmost marker whose disc contains (x, y).
func (s *Surface) HitTest(x, y float64) (domain.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.hitLocked(x, y); i >= 0 {
		return s.markers[i], true
	}
	return domain.Marker{}, false
}

func (s *Surface) hitLocked(x, y float64) int {
	for i := len(s.markers) - 1; i >= 0; i-- {
		dx := s.markers[i].Position.X - x
		dy := s.markers[i].Position.Y - y
		if dx*dx+dy*dy <= HitRadius*HitRadius {
			return i
		}
	}
	return -1
}

// SelectMarker makes id the single selected marker.
func (s *Surface) SelectMarker(id string) error {
	s.mu.Lock()
	if s.state != domain.SurfaceReady {
		s.mu.Unlock()
		return domain.ErrSurfaceNotReady
	}
	if s.findLocked(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("selecting %s: %w", id, domain.ErrMarkerNotFound)
	}
	evts := s.selectLocked(id)
	s.mu.Unlock()
	s.emit(evts)
	return nil
}

func (s *Surface) selectLocked(id string) []events.Event {
	if s.selected == id {
		return nil
	}
	s.selected = id
	m := s.markers[s.findLocked(id)]
	return []events.Event{events.Selected(s.index, &m)}
}

// ClearSelection deselects the current marker, if any.
func (s *Surface) ClearSelection() {
	s.mu.Lock()
	if s.selected == "" {
		s.mu.Unlock()
		return
	}
	s.selected = ""
	s.mu.Unlock()
	s.pub.Publish(events.Selected(s.index, nil))
}

// Selected returns the selected marker.
func (s *Surface) Selected() (domain.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findLocked(s.selected); i >= 0 {
		return s.markers[i], true
	}
	return domain.Marker{}, false
}

// DeleteSelected removes the selected marker and clears the selection.
// It returns nil when nothing is selected.
func (s *Surface) DeleteSelected() *domain.Marker {
	s.mu.Lock()
	i := s.findLocked(s.selected)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	m := s.markers[i]
	s.markers = append(s.markers[:i:i], s.markers[i+1:]...)
	s.selected = ""
	s.mu.Unlock()

	s.pub.Publish(events.Removed(m))
	s.pub.Publish(events.Selected(s.index, nil))
	s.pub.Publish(events.Noticef(events.LevelSuccess, "marker removed"))
	return &m
}

// ClearAll removes every marker on this surface.
func (s *Surface) ClearAll() ([]domain.Marker, error) {
	s.mu.Lock()
	if s.state != domain.SurfaceReady {
		s.mu.Unlock()
		return nil, domain.ErrSurfaceNotReady
	}
	removed := s.markers
	s.markers = nil
	hadSelection := s.selected != ""
	s.selected = ""
	s.mu.Unlock()

	if hadSelection {
		s.pub.Publish(events.Selected(s.index, nil))
	}
	s.pub.Publish(events.Cleared(s.index, removed))
	s.pub.Publish(events.Noticef(events.LevelInfo, "all treatments removed"))
	return removed, nil
}

// Markers returns the markers in z-order.
func (s *Surface) Markers() []domain.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

func (s *Surface) findLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.markers {
		if s.markers[i].ID == id {
			return i
		}
	}
	return -1
}
