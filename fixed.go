package propstore

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/propstore/errors"
)

// Fixed is a typed handle to a fixed-size property.
type Fixed[V any] struct {
	d *Descriptor
}

// Descriptor returns the underlying descriptor.
func (p Fixed[V]) Descriptor() *Descriptor { return p.d }

// Get reads the live value.
func (p Fixed[V]) Get(h Holder) (V, error) { return GetFixed[V](storeOf(h), p.d) }

// Set writes the live value.
func (p Fixed[V]) Set(h Holder, v V) error { return SetFixed(storeOf(h), p.d, v) }

// Clear zeroes the live value.
func (p Fixed[V]) Clear(h Holder) error { return storeOf(h).ClearFixed(p.d) }

// Cached reads the value last published by Transfer.
func (p Fixed[V]) Cached(h Holder) (V, error) { return ReadCachedFixed[V](storeOf(h), p.d) }

// Transfer publishes the live value to the cached region.
func (p Fixed[V]) Transfer(h Holder) error { return storeOf(h).Transfer(p.d) }

// GetFixed reads a fixed-size property from the live region.
func GetFixed[V any](s *Store, d *Descriptor) (V, error) {
	var v V
	off, err := s.locateFixed(d, reflect.TypeFor[V]())
	if err != nil {
		return v, err
	}
	copy(bytesOf(&v), s.fixed[off:off+d.Size()])
	return v, nil
}

// SetFixed writes a fixed-size property into the live region.
func SetFixed[V any](s *Store, d *Descriptor, v V) error {
	off, err := s.locateFixed(d, reflect.TypeFor[V]())
	if err != nil {
		return err
	}
	copy(s.fixed[off:off+d.Size()], bytesOf(&v))
	s.notify(d)
	return nil
}

// ReadCachedFixed reads a fixed-size property from the cached region.
func ReadCachedFixed[V any](s *Store, d *Descriptor) (V, error) {
	var v V
	off, err := s.locateFixed(d, reflect.TypeFor[V]())
	if err != nil {
		return v, err
	}
	off += s.fixedHalf
	copy(bytesOf(&v), s.fixed[off:off+d.Size()])
	return v, nil
}

func (s *Store) locateFixed(d *Descriptor, vt reflect.Type) (int, error) {
	off, err := s.locate(d, true)
	if err != nil {
		return 0, err
	}
	if vt != d.ValueType() {
		return 0, errors.ValueTypeMismatch(d.Owner().String(), d.Name(), vt.String(), d.ValueType().String())
	}
	return off, nil
}

// bytesOf views v as raw bytes. Copying through byte views keeps unaligned
// offsets safe on every architecture.
func bytesOf[V any](v *V) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
