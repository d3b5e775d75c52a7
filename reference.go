package propstore

import (
	"reflect"

	"github.com/wippyai/propstore/errors"
)

// Reference is a typed handle to a reference property.
type Reference[V any] struct {
	d *Descriptor
}

// Descriptor returns the underlying descriptor.
func (p Reference[V]) Descriptor() *Descriptor { return p.d }

// Get reads the live value.
func (p Reference[V]) Get(h Holder) (V, error) { return GetReference[V](storeOf(h), p.d) }

// Set writes the live value.
func (p Reference[V]) Set(h Holder, v V) error { return SetReference(storeOf(h), p.d, v) }

// Cached reads the value last published by Transfer.
func (p Reference[V]) Cached(h Holder) (V, error) { return ReadCachedReference[V](storeOf(h), p.d) }

// Transfer publishes the live value to the cached region.
func (p Reference[V]) Transfer(h Holder) error { return storeOf(h).Transfer(p.d) }

// GetReference reads a reference property from the live region. V may be the
// property's value type, an interface it implements, or, for interface-typed
// properties, a concrete type that implements it. An empty slot yields the
// zero V.
func GetReference[V any](s *Store, d *Descriptor) (V, error) {
	off, err := s.locateReference(d, reflect.TypeFor[V](), false)
	if err != nil {
		var zero V
		return zero, err
	}
	return castSlot[V](s.slots[off], d)
}

// SetReference writes a reference property into the live region. V must be
// assignable to the property's value type.
func SetReference[V any](s *Store, d *Descriptor, v V) error {
	off, err := s.locateReference(d, reflect.TypeFor[V](), true)
	if err != nil {
		return err
	}
	s.slots[off] = v
	s.notify(d)
	return nil
}

// ReadCachedReference reads a reference property from the cached region.
func ReadCachedReference[V any](s *Store, d *Descriptor) (V, error) {
	off, err := s.locateReference(d, reflect.TypeFor[V](), false)
	if err != nil {
		var zero V
		return zero, err
	}
	return castSlot[V](s.slots[s.slotHalf+off], d)
}

func (s *Store) locateReference(d *Descriptor, vt reflect.Type, write bool) (int, error) {
	off, err := s.locate(d, false)
	if err != nil {
		return 0, err
	}

	pt := d.ValueType()
	ok := vt.AssignableTo(pt)
	if !write {
		ok = pt.AssignableTo(vt) || pt.Kind() == reflect.Interface && vt.Implements(pt)
	}
	if !ok {
		return 0, errors.ValueTypeMismatch(d.Owner().String(), d.Name(), vt.String(), pt.String())
	}
	return off, nil
}

func castSlot[V any](slot any, d *Descriptor) (V, error) {
	if slot == nil {
		var zero V
		return zero, nil
	}
	v, ok := slot.(V)
	if !ok {
		return v, errors.ValueTypeMismatch(d.Owner().String(), d.Name(),
			reflect.TypeFor[V]().String(), reflect.TypeOf(slot).String())
	}
	return v, nil
}
