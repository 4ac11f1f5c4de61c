// Package workspace ties the image surfaces of one patient visit to a shared
// event bus and budget engine.
package workspace

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dentalmark/dentalmark/internal/annotation"
	"github.com/dentalmark/dentalmark/internal/budget"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/events"
)

// LoadTicket identifies one in-flight image load. A ticket goes stale when
// its slot is removed or a newer load is started for the same slot.
type LoadTicket struct {
	Index      int
	generation uint64
}

type slot struct {
	surface    *annotation.Surface
	generation uint64
}

// Visit is the annotation session for one patient: an ordered set of image
// slots with stable indexes, the armed treatment and the running budget.
type Visit struct {
	mu      sync.Mutex
	patient domain.Patient
	slots   map[int]*slot
	nextIdx int
	current int
	armed   domain.ArmedTreatment

	bus      *events.Bus
	engine   *budget.Engine
	logger   *slog.Logger
	surfOpts []annotation.Option
	unsub    func()
}

// Option configures a Visit.
type Option func(*Visit)

// WithSurfaceOptions passes options to every surface the visit creates.
func WithSurfaceOptions(opts ...annotation.Option) Option {
	return func(v *Visit) { v.surfOpts = append(v.surfOpts, opts...) }
}

// NewVisit creates an empty visit. A nil bus gets a fresh one; a nil catalog
// prices everything at zero.
func NewVisit(patient domain.Patient, catalog budget.CostLookup, bus *events.Bus, logger *slog.Logger, opts ...Option) (*Visit, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if bus == nil {
		b, err := events.NewBus(events.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("creating event bus: %w", err)
		}
		bus = b
	}
	engine, err := budget.New(catalog, bus, budget.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating budget engine: %w", err)
	}

	v := &Visit{
		patient: patient,
		slots:   make(map[int]*slot),
		current: -1,
		bus:     bus,
		engine:  engine,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.unsub = engine.Subscribe(bus)
	return v, nil
}

// Close detaches the budget engine from the bus.
func (v *Visit) Close() {
	if v.unsub != nil {
		v.unsub()
	}
}

func (v *Visit) Patient() domain.Patient {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.patient
}

func (v *Visit) Bus() *events.Bus { return v.bus }

func (v *Visit) Engine() *budget.Engine { return v.engine }

// Summary is the current budget.
func (v *Visit) Summary() domain.Summary { return v.engine.Summary() }

// AddSlot reserves a new, empty image slot and returns its index. The first
// slot becomes current.
func (v *Visit) AddSlot() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	idx := v.nextIdx
	v.nextIdx++

	s := annotation.New(idx, v.bus, v.surfOpts...)
	if v.armed.Ready() {
		s.Arm(v.armed.Color, v.armed.Name)
	}
	v.slots[idx] = &slot{surface: s}
	if v.current < 0 {
		v.current = idx
	}
	return idx
}

// AddImage reserves a slot and loads data into it. A failed load releases
// the slot again.
func (v *Visit) AddImage(data []byte) (int, error) {
	idx := v.AddSlot()
	ticket, err := v.BeginLoad(idx)
	if err != nil {
		return 0, err
	}
	if err := v.CompleteLoad(ticket, data); err != nil {
		v.release(idx)
		return 0, err
	}
	v.logger.Debug("image added", "index", idx)
	return idx, nil
}

// BeginLoad starts a load into slot index and invalidates any earlier
// ticket for it.
func (v *Visit) BeginLoad(index int) (LoadTicket, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.slots[index]
	if !ok {
		return LoadTicket{}, fmt.Errorf("slot %d: %w", index, domain.ErrSlotNotFound)
	}
	s.generation++
	return LoadTicket{Index: index, generation: s.generation}, nil
}

// CompleteLoad decodes data into the ticket's slot. Completions for removed
// slots or superseded loads return domain.ErrStaleLoad and change nothing.
func (v *Visit) CompleteLoad(t LoadTicket, data []byte) error {
	surface, ok := v.live(t)
	if !ok {
		return fmt.Errorf("slot %d: %w", t.Index, domain.ErrStaleLoad)
	}
	err := surface.LoadImageIf(data, func() bool {
		_, ok := v.live(t)
		return ok
	})
	if err != nil {
		return fmt.Errorf("loading slot %d: %w", t.Index, err)
	}
	return nil
}

func (v *Visit) live(t LoadTicket) (*annotation.Surface, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.slots[t.Index]
	if !ok || s.generation != t.generation {
		return nil, false
	}
	return s.surface, true
}

// RemoveImage deletes slot index and every marker placed on it. Indexes of
// the remaining slots do not change.
func (v *Visit) RemoveImage(index int) error {
	if !v.release(index) {
		return fmt.Errorf("slot %d: %w", index, domain.ErrSlotNotFound)
	}
	removed := v.engine.RemoveAllForImage(index)
	v.logger.Debug("image removed", "index", index, "markers", removed)
	return nil
}

// release drops slot index and detaches its surface so callers still
// holding it cannot place markers for an image that is gone. The surface is
// detached after v.mu is released: LoadImageIf holds the surface lock while
// asking the visit whether its ticket is live.
func (v *Visit) release(index int) bool {
	v.mu.Lock()
	s, ok := v.slots[index]
	if !ok {
		v.mu.Unlock()
		return false
	}
	delete(v.slots, index)
	if v.current == index {
		v.current = v.closestLocked(index)
	}
	v.mu.Unlock()

	s.surface.Detach()
	return true
}

// closestLocked picks the slot that takes over when index goes away: the
// previous one if any, else the next, else none.
func (v *Visit) closestLocked(index int) int {
	idx := v.indexesLocked()
	best := -1
	for _, i := range idx {
		if i < index {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	if len(idx) > 0 {
		return idx[0]
	}
	return -1
}

// Indexes returns the slot indexes in ascending order.
func (v *Visit) Indexes() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.indexesLocked()
}

func (v *Visit) indexesLocked() []int {
	out := make([]int, 0, len(v.slots))
	for i := range v.slots {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (v *Visit) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.slots)
}

// Surface returns the surface of slot index.
func (v *Visit) Surface(index int) (*annotation.Surface, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.slots[index]
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", index, domain.ErrSlotNotFound)
	}
	return s.surface, nil
}

// Arm sets the armed treatment on every slot, including slots added later.
func (v *Visit) Arm(color, name string) {
	v.mu.Lock()
	v.armed = domain.ArmedTreatment{Color: color, Name: name}
	surfaces := v.surfacesLocked()
	v.mu.Unlock()

	for _, s := range surfaces {
		s.Arm(color, name)
	}
}

func (v *Visit) Disarm() {
	v.mu.Lock()
	v.armed = domain.ArmedTreatment{}
	surfaces := v.surfacesLocked()
	v.mu.Unlock()

	for _, s := range surfaces {
		s.Disarm()
	}
}

func (v *Visit) Armed() domain.ArmedTreatment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.armed
}

func (v *Visit) surfacesLocked() []*annotation.Surface {
	out := make([]*annotation.Surface, 0, len(v.slots))
	for _, i := range v.indexesLocked() {
		out = append(out, v.slots[i].surface)
	}
	return out
}

// Current returns the index of the slot being shown.
func (v *Visit) Current() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.current >= 0
}

// Select makes slot index current.
func (v *Visit) Select(index int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.slots[index]; !ok {
		return fmt.Errorf("slot %d: %w", index, domain.ErrSlotNotFound)
	}
	v.current = index
	return nil
}

// Next moves to the following slot. It stays put on the last one.
func (v *Visit) Next() (int, bool) { return v.step(1) }

// Prev moves to the preceding slot. It stays put on the first one.
func (v *Visit) Prev() (int, bool) { return v.step(-1) }

func (v *Visit) step(dir int) (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	idx := v.indexesLocked()
	if v.current < 0 {
		return -1, false
	}
	pos := sort.SearchInts(idx, v.current)
	pos += dir
	if pos < 0 || pos >= len(idx) {
		return v.current, false
	}
	v.current = idx[pos]
	return v.current, true
}
