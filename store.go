package propstore

import (
	"reflect"

	"github.com/wippyai/propstore/errors"
	"github.com/wippyai/propstore/layout"
)

// Store holds the property values of one instance. Both arenas are twice the
// size required by the instance's layout: the live region comes first and the
// cached region follows at a fixed distance. A Store is never resized.
//
// Store is NOT safe for concurrent use.
type Store struct {
	instance  any
	object    *Object
	typ       reflect.Type
	layout    *layout.TypeLayout
	fixed     []byte
	slots     []any
	fixedHalf int
	slotHalf  int
}

func newStore(instance any, obj *Object, typ reflect.Type, l *layout.TypeLayout) *Store {
	return &Store{
		instance:  instance,
		object:    obj,
		typ:       typ,
		layout:    l,
		fixed:     make([]byte, 2*l.FixedBytes()),
		slots:     make([]any, 2*l.SlotCount()),
		fixedHalf: l.FixedBytes(),
		slotHalf:  l.SlotCount(),
	}
}

// Store returns s, so a *Store can be passed wherever a Holder is expected.
func (s *Store) Store() *Store { return s }

// Instance returns the value the store was attached to.
func (s *Store) Instance() any { return s.instance }

// Type returns the concrete type of the instance.
func (s *Store) Type() reflect.Type { return s.typ }

// Layout returns the packed layout of the instance's concrete type.
func (s *Store) Layout() *layout.TypeLayout { return s.layout }

// FixedLen is the length of the byte arena, live and cached halves together.
func (s *Store) FixedLen() int { return len(s.fixed) }

// SlotLen is the length of the slot arena, live and cached halves together.
func (s *Store) SlotLen() int { return len(s.slots) }

// ClearFixed zeroes the live bytes of a fixed-size property.
// Reference properties are cleared with SetReference and a nil value.
func (s *Store) ClearFixed(d *Descriptor) error {
	off, err := s.locate(d, true)
	if err != nil {
		return err
	}
	clear(s.fixed[off : off+d.Size()])
	s.notify(d)
	return nil
}

// Transfer copies the live value of one property into its cached
// counterpart. It is the only path from the live region to the cached region
// and is idempotent.
func (s *Store) Transfer(d *Descriptor) error {
	if d == nil {
		return s.locateErr(d)
	}
	off, err := s.locate(d, d.IsFixedSize())
	if err != nil {
		return err
	}
	if d.IsFixedSize() {
		end := off + d.Size()
		copy(s.fixed[s.fixedHalf+off:s.fixedHalf+end], s.fixed[off:end])
	} else {
		s.slots[s.slotHalf+off] = s.slots[off]
	}
	return nil
}

// locate validates d against the store and returns its live offset.
func (s *Store) locate(d *Descriptor, fixed bool) (int, error) {
	if s == nil || d == nil || !s.layout.Descends(d.Layout()) {
		return 0, s.locateErr(d)
	}
	if d.IsFixedSize() != fixed {
		return 0, errors.KindMismatch(d.Owner().String(), d.Name(), d.IsFixedSize())
	}

	off, ok := d.Offset()
	if !ok {
		panic(errors.Invariant(errors.PhaseAccess, s.typ.String(), "%s is not packed", d))
	}
	end, limit := off+1, s.slotHalf
	if fixed {
		end, limit = off+d.Size(), s.fixedHalf
	}
	if off < 0 || end > limit {
		panic(errors.Invariant(errors.PhaseAccess, s.typ.String(), "%s offset %d outside the live region", d, off))
	}
	return off, nil
}

func (s *Store) locateErr(d *Descriptor) error {
	switch {
	case s == nil:
		return errors.InvalidInstance("", "object has no store of its own; create it with New or Attach")
	case d == nil:
		return errors.New(errors.PhaseAccess, errors.KindTypeMismatch).
			Owner(s.typ.String()).
			Detail("nil descriptor").
			Build()
	default:
		return errors.TypeMismatch(d.Owner().String(), s.typ.String(), d.Name())
	}
}

func (s *Store) notify(d *Descriptor) {
	if h := updateHook.Load(); h != nil {
		h.hook.PropertyUpdated(s, d)
	}
}
