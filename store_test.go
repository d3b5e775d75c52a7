package propstore_test

import (
	"io"
	"strings"
	"testing"

	"github.com/wippyai/propstore"
	"github.com/wippyai/propstore/errors"
	"github.com/wippyai/propstore/internal/scene"
)

type shape struct {
	propstore.Object
}

type polygon struct {
	shape
}

type frozenShape struct {
	shape
}

type unrelatedShape struct {
	propstore.Object
}

type point struct {
	X, Y float32
}

var (
	shapeX   = propstore.MustRegisterFixed[shape, int32]("x")
	shapeRef = propstore.MustRegisterReference[shape, any]("ref")
	polygonY = propstore.MustRegisterFixed[polygon, int64]("y")

	frozenTag = propstore.MustRegisterFixed[frozenShape, uint8]("tag")

	unrelatedX      = propstore.MustRegisterFixed[unrelatedShape, int32]("x")
	unrelatedCorner = propstore.MustRegisterFixed[*unrelatedShape, point]("corner")
	unrelatedReader = propstore.MustRegisterReference[unrelatedShape, io.Reader]("reader")
)

func TestEndToEndScenario(t *testing.T) {
	p := propstore.MustNew[polygon]()
	s := p.Store()

	la, err := propstore.LayoutOf[shape]()
	if err != nil {
		t.Fatal(err)
	}
	lb := s.Layout()

	if off, _ := shapeX.Descriptor().Offset(); off != 0 {
		t.Errorf("x offset = %d, want 0", off)
	}
	if la.FixedBytes() != 4 || la.SlotCount() != 1 {
		t.Errorf("shape sizes = %d/%d, want 4/1", la.FixedBytes(), la.SlotCount())
	}
	if off, _ := shapeRef.Descriptor().Offset(); off != 0 {
		t.Errorf("ref slot = %d, want 0", off)
	}
	if off, _ := polygonY.Descriptor().Offset(); off != 4 {
		t.Errorf("y offset = %d, want 4", off)
	}
	if lb.FixedBytes() != 12 || lb.SlotCount() != 1 {
		t.Errorf("polygon sizes = %d/%d, want 12/1", lb.FixedBytes(), lb.SlotCount())
	}
	if s.FixedLen() != 24 || s.SlotLen() != 2 {
		t.Errorf("arena lengths = %d/%d, want 24/2", s.FixedLen(), s.SlotLen())
	}
	if s.Instance() != p {
		t.Error("Instance() is not the polygon")
	}
	if s.Type().Name() != "polygon" {
		t.Errorf("Type() = %v", s.Type())
	}
}

func TestRoundTrip(t *testing.T) {
	p := propstore.MustNew[polygon]()

	if err := shapeX.Set(p, -7); err != nil {
		t.Fatal(err)
	}
	if err := polygonY.Set(p, 1<<40+3); err != nil {
		t.Fatal(err)
	}
	ref := &strings.Builder{}
	if err := shapeRef.Set(p, ref); err != nil {
		t.Fatal(err)
	}

	if x, err := shapeX.Get(p); err != nil || x != -7 {
		t.Errorf("x = %d, %v", x, err)
	}
	if y, err := polygonY.Get(p); err != nil || y != 1<<40+3 {
		t.Errorf("y = %d, %v", y, err)
	}
	if got, err := shapeRef.Get(p); err != nil || got != ref {
		t.Errorf("ref = %v, %v", got, err)
	}

	// Neighbouring properties are untouched.
	if err := shapeX.Set(p, 0); err != nil {
		t.Fatal(err)
	}
	if y, _ := polygonY.Get(p); y != 1<<40+3 {
		t.Errorf("y changed to %d", y)
	}
}

func TestRoundTrip_Struct(t *testing.T) {
	u := propstore.MustNew[unrelatedShape]()
	want := point{X: 1.5, Y: -2.25}

	if err := unrelatedCorner.Set(u, want); err != nil {
		t.Fatal(err)
	}
	got, err := unrelatedCorner.Get(u)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("corner = %+v, want %+v", got, want)
	}
	// corner follows x with no padding.
	if off, _ := unrelatedCorner.Descriptor().Offset(); off != 4 {
		t.Errorf("corner offset = %d, want 4", off)
	}
}

func TestFreshStoreIsZero(t *testing.T) {
	p := propstore.MustNew[polygon]()
	if y, err := polygonY.Get(p); err != nil || y != 0 {
		t.Errorf("y = %d, %v", y, err)
	}
	if ref, err := shapeRef.Get(p); err != nil || ref != nil {
		t.Errorf("ref = %v, %v", ref, err)
	}
	if y, err := polygonY.Cached(p); err != nil || y != 0 {
		t.Errorf("cached y = %d, %v", y, err)
	}
}

func TestTransfer(t *testing.T) {
	p := propstore.MustNew[polygon]()

	if err := polygonY.Set(p, 11); err != nil {
		t.Fatal(err)
	}
	if err := polygonY.Transfer(p); err != nil {
		t.Fatal(err)
	}
	if got, _ := polygonY.Cached(p); got != 11 {
		t.Fatalf("cached = %d, want 11", got)
	}

	if err := polygonY.Set(p, 22); err != nil {
		t.Fatal(err)
	}
	if got, _ := polygonY.Cached(p); got != 11 {
		t.Errorf("cached = %d after set without transfer, want 11", got)
	}
	if got, _ := polygonY.Get(p); got != 22 {
		t.Errorf("live = %d, want 22", got)
	}

	for i := 0; i < 2; i++ {
		if err := polygonY.Transfer(p); err != nil {
			t.Fatal(err)
		}
		if got, _ := polygonY.Cached(p); got != 22 {
			t.Errorf("cached = %d after transfer %d, want 22", got, i+1)
		}
	}

	// Transfer is per property.
	if err := shapeX.Set(p, 5); err != nil {
		t.Fatal(err)
	}
	if got, _ := shapeX.Cached(p); got != 0 {
		t.Errorf("x cached = %d without its own transfer", got)
	}
}

func TestTransfer_Reference(t *testing.T) {
	p := propstore.MustNew[polygon]()
	first, second := "first", "second"

	if err := shapeRef.Set(p, first); err != nil {
		t.Fatal(err)
	}
	if err := shapeRef.Transfer(p); err != nil {
		t.Fatal(err)
	}
	if err := shapeRef.Set(p, second); err != nil {
		t.Fatal(err)
	}
	if got, _ := shapeRef.Cached(p); got != first {
		t.Errorf("cached = %v, want %v", got, first)
	}
	if err := propstore.SetReference[any](p.Store(), shapeRef.Descriptor(), nil); err != nil {
		t.Fatal(err)
	}
	if err := shapeRef.Transfer(p); err != nil {
		t.Fatal(err)
	}
	if got, _ := shapeRef.Cached(p); got != nil {
		t.Errorf("cached = %v after transferring nil", got)
	}
}

func TestClearFixed(t *testing.T) {
	p := propstore.MustNew[polygon]()
	if err := polygonY.Set(p, -1); err != nil {
		t.Fatal(err)
	}
	if err := shapeX.Set(p, -1); err != nil {
		t.Fatal(err)
	}
	if err := polygonY.Transfer(p); err != nil {
		t.Fatal(err)
	}

	if err := polygonY.Clear(p); err != nil {
		t.Fatal(err)
	}
	if got, _ := polygonY.Get(p); got != 0 {
		t.Errorf("y = %d after clear", got)
	}
	if got, _ := polygonY.Cached(p); got != -1 {
		t.Errorf("cached y = %d, clear must not touch the cached region", got)
	}
	if got, _ := shapeX.Get(p); got != -1 {
		t.Errorf("x = %d, clear must only touch its own bytes", got)
	}

	err := p.Store().ClearFixed(shapeRef.Descriptor())
	if !errors.Is(err, errors.ErrKindMismatch) {
		t.Errorf("ClearFixed(reference) err = %v, want kind_mismatch", err)
	}
}

func TestAccess_TypeMismatch(t *testing.T) {
	u := propstore.MustNew[unrelatedShape]()
	s := propstore.MustNew[shape]()

	if _, err := shapeX.Get(u); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("Get err = %v", err)
	}
	if err := shapeX.Set(u, 1); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("Set err = %v", err)
	}
	if err := shapeRef.Transfer(u); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("Transfer err = %v", err)
	}
	// A descriptor of a derived type cannot address its ancestor's instance.
	if _, err := polygonY.Get(s); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("derived descriptor on base instance err = %v", err)
	}
	// x is declared on unrelatedShape too, but it is a different descriptor.
	if _, err := unrelatedX.Get(s); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("same-named descriptor err = %v", err)
	}
	if _, err := propstore.GetFixed[int32](s.Store(), nil); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("nil descriptor err = %v", err)
	}
	if err := s.Store().Transfer(nil); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("Transfer(nil) err = %v", err)
	}
}

func TestAccess_KindMismatch(t *testing.T) {
	p := propstore.MustNew[polygon]()
	s := p.Store()

	if _, err := propstore.GetFixed[any](s, shapeRef.Descriptor()); !errors.Is(err, errors.ErrKindMismatch) {
		t.Errorf("GetFixed(reference) err = %v", err)
	}
	if _, err := propstore.ReadCachedFixed[any](s, shapeRef.Descriptor()); !errors.Is(err, errors.ErrKindMismatch) {
		t.Errorf("ReadCachedFixed(reference) err = %v", err)
	}
	if err := propstore.SetReference(s, polygonY.Descriptor(), int64(1)); !errors.Is(err, errors.ErrKindMismatch) {
		t.Errorf("SetReference(fixed) err = %v", err)
	}
	if _, err := propstore.ReadCachedReference[int64](s, polygonY.Descriptor()); !errors.Is(err, errors.ErrKindMismatch) {
		t.Errorf("ReadCachedReference(fixed) err = %v", err)
	}
}

func TestAccess_ValueTypeMismatch(t *testing.T) {
	p := propstore.MustNew[polygon]()
	s := p.Store()

	if err := propstore.SetFixed(s, polygonY.Descriptor(), int32(1)); !errors.Is(err, errors.ErrValueTypeMismatch) {
		t.Errorf("SetFixed(int32 into int64) err = %v", err)
	}
	if _, err := propstore.GetFixed[uint64](s, polygonY.Descriptor()); !errors.Is(err, errors.ErrValueTypeMismatch) {
		t.Errorf("GetFixed[uint64] err = %v", err)
	}

	u := propstore.MustNew[unrelatedShape]()
	us := u.Store()
	if err := propstore.SetReference(us, unrelatedReader.Descriptor(), 42); !errors.Is(err, errors.ErrValueTypeMismatch) {
		t.Errorf("SetReference(int into io.Reader) err = %v", err)
	}
	if err := propstore.SetReference(us, unrelatedReader.Descriptor(), strings.NewReader("abc")); err != nil {
		t.Fatalf("SetReference(*strings.Reader) err = %v", err)
	}
	if r, err := propstore.GetReference[*strings.Reader](us, unrelatedReader.Descriptor()); err != nil || r == nil {
		t.Errorf("GetReference[*strings.Reader] = %v, %v", r, err)
	}
	if _, err := propstore.GetReference[*strings.Builder](us, unrelatedReader.Descriptor()); !errors.Is(err, errors.ErrValueTypeMismatch) {
		t.Errorf("GetReference[*strings.Builder] err = %v", err)
	}
	if _, err := propstore.GetReference[int](us, unrelatedReader.Descriptor()); !errors.Is(err, errors.ErrValueTypeMismatch) {
		t.Errorf("GetReference[int] err = %v", err)
	}
	if r, err := propstore.GetReference[any](us, unrelatedReader.Descriptor()); err != nil || r == nil {
		t.Errorf("GetReference[any] = %v, %v", r, err)
	}
}

func TestAttach(t *testing.T) {
	var p polygon
	if p.Store() != nil {
		t.Fatal("zero value has a store")
	}
	if _, err := shapeX.Get(&p); !errors.Is(err, errors.ErrInvalidInstance) {
		t.Errorf("access before Attach err = %v", err)
	}

	s, err := propstore.Attach(&p)
	if err != nil {
		t.Fatal(err)
	}
	if p.Store() != s || p.shape.Store() != s {
		t.Error("store not reachable through the embedded Object")
	}
	if _, err := propstore.Attach(&p); !errors.Is(err, errors.ErrAlreadyAttached) {
		t.Errorf("second Attach err = %v", err)
	}
}

func TestAttach_Invalid(t *testing.T) {
	var nilPolygon *polygon
	tests := []struct {
		name     string
		instance any
		want     error
	}{
		{"nil", nil, errors.ErrInvalidInstance},
		{"nil pointer", nilPolygon, errors.ErrInvalidInstance},
		{"non-pointer", polygon{}, errors.ErrInvalidInstance},
		{"root", &propstore.Object{}, errors.ErrInvalidOwnerType},
		{"outside hierarchy", &point{}, errors.ErrInvalidOwnerType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := propstore.Attach(tt.instance); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := propstore.New[point](); !errors.Is(err, errors.ErrInvalidOwnerType) {
		t.Errorf("New[point] err = %v", err)
	}
}

// copyOf duplicates *v the way a plain struct assignment would.
func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func TestAttach_CopiedInstance(t *testing.T) {
	p := propstore.MustNew[polygon]()
	if err := shapeX.Set(p, 7); err != nil {
		t.Fatal(err)
	}

	q := copyOf(p)
	if q.Store() != nil {
		t.Fatal("copy reaches the original store")
	}
	if err := shapeX.Set(q, 99); !errors.Is(err, errors.ErrInvalidInstance) {
		t.Errorf("Set through copy err = %v, want invalid_instance", err)
	}
	if got, _ := shapeX.Get(p); got != 7 {
		t.Errorf("original x = %d after write through copy, want 7", got)
	}

	s, err := propstore.Attach(q)
	if err != nil {
		t.Fatalf("Attach copy: %v", err)
	}
	if s == p.Store() || q.Store() != s {
		t.Fatal("copy did not get a store of its own")
	}
	if err := shapeX.Set(q, 99); err != nil {
		t.Fatal(err)
	}
	if got, _ := shapeX.Get(p); got != 7 {
		t.Errorf("original x = %d, want 7", got)
	}
	if got, _ := shapeX.Get(q); got != 99 {
		t.Errorf("copy x = %d, want 99", got)
	}
}

func TestHandles_NilHolder(t *testing.T) {
	var nilPolygon *polygon
	holders := map[string]propstore.Holder{
		"nil interface": nil,
		"nil instance":  nilPolygon,
		"nil store":     (*propstore.Store)(nil),
	}

	for name, h := range holders {
		t.Run(name, func(t *testing.T) {
			_, getErr := shapeX.Get(h)
			_, cachedErr := shapeX.Cached(h)
			_, refErr := shapeRef.Get(h)
			_, refCachedErr := shapeRef.Cached(h)
			errs := map[string]error{
				"Fixed.Get":          getErr,
				"Fixed.Set":          shapeX.Set(h, 1),
				"Fixed.Clear":        shapeX.Clear(h),
				"Fixed.Cached":       cachedErr,
				"Fixed.Transfer":     shapeX.Transfer(h),
				"Reference.Get":      refErr,
				"Reference.Set":      shapeRef.Set(h, "v"),
				"Reference.Cached":   refCachedErr,
				"Reference.Transfer": shapeRef.Transfer(h),
			}
			for op, err := range errs {
				if !errors.Is(err, errors.ErrInvalidInstance) {
					t.Errorf("%s err = %v, want invalid_instance", op, err)
				}
			}
		})
	}
}

func TestCrossPackageDescriptors(t *testing.T) {
	m, err := scene.NewMesh("crate", 8, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := m.Store()

	d, ok := s.Layout().Lookup("position")
	if !ok {
		t.Fatal("inherited descriptor not found")
	}
	if err := propstore.SetFixed(s, d, scene.Vec3{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if got, _ := scene.NodePosition.Get(m); got != (scene.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", got)
	}
}
