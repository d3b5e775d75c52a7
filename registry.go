package propstore

import (
	"reflect"

	"github.com/wippyai/propstore/internal/callsite"
	"github.com/wippyai/propstore/layout"
)

// Descriptor describes one registered property.
type Descriptor = layout.Descriptor

var registry = layout.NewRegistry(reflect.TypeFor[Object](), layout.DefaultOptions())

// Registry returns the process-wide layout registry for types embedding Object.
func Registry() *layout.Registry {
	return registry
}

// LayoutOf returns the packed layout of T, packing it on first use.
func LayoutOf[T any]() (*layout.TypeLayout, error) {
	return registry.GetOrCreate(ownerType[T](), true)
}

// RegisterFixed declares a fixed-size property of type V on owner O.
// V must be free of pointers. It must be called from O's own package, either
// while the package initializes or from a method of O, before any instance
// of O (or of a type embedding O) is created and before any descendant of O
// registers.
func RegisterFixed[O, V any](name string) (Fixed[V], error) {
	d, err := registry.Register(ownerType[O](), name, reflect.TypeFor[V](), true, callsite.Function(1))
	if err != nil {
		return Fixed[V]{}, err
	}
	return Fixed[V]{d: d}, nil
}

// MustRegisterFixed is like RegisterFixed but panics on error.
// It is intended for package-level variable initialization.
func MustRegisterFixed[O, V any](name string) Fixed[V] {
	d, err := registry.Register(ownerType[O](), name, reflect.TypeFor[V](), true, callsite.Function(1))
	if err != nil {
		panic(err)
	}
	return Fixed[V]{d: d}
}

// RegisterReference declares a reference property of type V on owner O.
// The same call-site and ordering rules as RegisterFixed apply.
func RegisterReference[O, V any](name string) (Reference[V], error) {
	d, err := registry.Register(ownerType[O](), name, reflect.TypeFor[V](), false, callsite.Function(1))
	if err != nil {
		return Reference[V]{}, err
	}
	return Reference[V]{d: d}, nil
}

// MustRegisterReference is like RegisterReference but panics on error.
func MustRegisterReference[O, V any](name string) Reference[V] {
	d, err := registry.Register(ownerType[O](), name, reflect.TypeFor[V](), false, callsite.Function(1))
	if err != nil {
		panic(err)
	}
	return Reference[V]{d: d}
}

// ownerType accepts both T and *T.
func ownerType[O any]() reflect.Type {
	t := reflect.TypeFor[O]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
