package propstore

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/propstore/errors"
)

// Object is the root of every property-bearing hierarchy. It cannot own
// properties itself; embed it, or a type embedding it, by value.
//
// An Object must not be copied after its store is attached. A copy reports
// no store.
type Object struct {
	_     noCopy
	store *Store
}

// Store returns the store attached to the object, or nil when the object was
// not created through New or Attach, or is a copy of one that was.
func (o *Object) Store() *Store {
	if o == nil || o.store == nil || o.store.object != o {
		return nil
	}
	return o.store
}

// noCopy lets go vet's copylocks check flag copies of Object.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Holder is implemented by every pointer to a type embedding Object, and by
// *Store itself.
type Holder interface {
	Store() *Store
}

// storeOf returns the store of h, or nil for a nil Holder or a nil pointer.
func storeOf(h Holder) *Store {
	if h == nil {
		return nil
	}
	if v := reflect.ValueOf(h); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return h.Store()
}

// New allocates a zero T and attaches its store.
func New[T any]() (*T, error) {
	v := new(T)
	if _, err := Attach(v); err != nil {
		return nil, err
	}
	return v, nil
}

// MustNew is like New but panics on error.
func MustNew[T any]() *T {
	v, err := New[T]()
	if err != nil {
		panic(err)
	}
	return v
}

// Attach creates the store for instance, which must be a non-nil pointer to a
// struct embedding Object. The store is sized from the layout of the
// instance's concrete type, packing it if needed. An instance gets exactly one
// store; a copy of an attached instance may be attached to a store of its own.
func Attach(instance any) (*Store, error) {
	rv := reflect.ValueOf(instance)
	if !rv.IsValid() {
		return nil, errors.InvalidInstance("<nil>", "nil instance")
	}
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, errors.InvalidInstance(rv.Type().String(), "instance must be a non-nil pointer to a struct")
	}

	typ := rv.Type().Elem()
	l, err := registry.GetOrCreate(typ, true)
	if err != nil {
		return nil, err
	}

	obj := (*Object)(unsafe.Add(rv.UnsafePointer(), l.RootOffset()))
	if obj.Store() != nil {
		return nil, errors.AlreadyAttached(rv.Type().String())
	}

	obj.store = newStore(instance, obj, typ, l)
	return obj.store, nil
}
