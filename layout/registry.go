package layout

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"github.com/wippyai/propstore/errors"
	"github.com/wippyai/propstore/internal/callsite"
)

// globalIndex numbers descriptors across every Registry in the process.
var globalIndex atomic.Uint64

// Options configures registry behavior.
type Options struct {
	// Logger overrides the package logger for this registry.
	Logger *zap.Logger
	// VerifyOnPack runs TypeLayout.Verify after every pack and panics on failure.
	VerifyOnPack bool
}

// DefaultOptions returns default registry configuration.
func DefaultOptions() Options {
	return Options{
		VerifyOnPack: true,
	}
}

// Registry maps types to their layouts. Layouts are created lazily, linked to
// their ancestors, and never removed. Thread-safe.
type Registry struct {
	root    reflect.Type
	layouts map[reflect.Type]*TypeLayout
	options Options
	mu      sync.Mutex
}

// NewRegistry creates a registry for the hierarchy rooted at root.
// The root type itself can never own properties.
func NewRegistry(root reflect.Type, opts Options) *Registry {
	return &Registry{
		root:    root,
		layouts: make(map[reflect.Type]*TypeLayout),
		options: opts,
	}
}

// Root returns the root type of the hierarchy.
func (r *Registry) Root() reflect.Type {
	return r.root
}

func (r *Registry) log() *zap.Logger {
	if r.options.Logger != nil {
		return r.options.Logger
	}
	return Logger()
}

// GetOrCreate returns the layout for t, creating it and any missing ancestor
// layouts on first use. When autoPack is set the layout is packed before it
// is returned.
func (r *Registry) GetOrCreate(t reflect.Type, autoPack bool) (*TypeLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, err := r.getOrCreate(t, errors.PhaseConstruct)
	if err != nil {
		return nil, err
	}
	if autoPack && !l.packed {
		r.pack(l)
	}
	return l, nil
}

// Lookup returns the layout for t if one was created.
func (r *Registry) Lookup(t reflect.Type) (*TypeLayout, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.layouts[t]
	return l, ok
}

// Layouts returns a snapshot of every layout, sorted by type name.
func (r *Registry) Layouts() []*TypeLayout {
	r.mu.Lock()
	out := make([]*TypeLayout, 0, len(r.layouts))
	for _, l := range r.layouts {
		out = append(out, l)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Pack assigns offsets to every descriptor of l and its ancestors.
// Packing a packed layout is a no-op.
func (r *Registry) Pack(l *TypeLayout) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pack(l)
}

func (r *Registry) getOrCreate(t reflect.Type, phase errors.Phase) (*TypeLayout, error) {
	if l, ok := r.layouts[t]; ok {
		return l, nil
	}

	parentType, rootOffset, ok := lineageOf(t, r.root)
	if !ok {
		return nil, errors.InvalidOwnerType(phase, typeName(t), typeName(r.root))
	}

	var parent *TypeLayout
	if parentType != nil {
		var err error
		if parent, err = r.getOrCreate(parentType, phase); err != nil {
			return nil, err
		}
	}

	l := newTypeLayout(t, parent, rootOffset)
	r.layouts[t] = l

	var parentName fmt.Stringer = r.root
	if parent != nil {
		parentName = parent
	}
	r.log().Debug("layout created",
		zap.Stringer("type", l),
		zap.Stringer("parent", parentName),
		zap.Int("depth", l.depth))
	return l, nil
}

// pack must be called with r.mu held.
func (r *Registry) pack(l *TypeLayout) {
	owner := typeName(l.owner)
	if r.mu.TryLock() {
		r.mu.Unlock()
		panic(errors.Invariant(errors.PhasePack, owner, "pack called without the registry lock"))
	}
	if l.packed {
		return
	}
	if l.packing {
		panic(errors.Invariant(errors.PhasePack, owner, "layout is already being packed"))
	}
	l.packing = true

	if l.parent != nil && !l.parent.packed {
		r.pack(l.parent)
	}

	fixed, slots := 0, 0
	if l.parent != nil {
		fixed, slots = l.parent.fixedBytes, l.parent.slotCount
	}

	for i, d := range l.descriptors {
		if d.local != i {
			panic(errors.Invariant(errors.PhasePack, owner, "%s has local index %d at position %d", d, d.local, i))
		}
		if d.offset >= 0 {
			panic(errors.Invariant(errors.PhasePack, owner, "%s already has offset %d", d, d.offset))
		}
		if d.fixed {
			d.offset = fixed
			fixed += d.size
			l.localFixedBytes += d.size
		} else {
			d.offset = slots
			slots++
			l.localSlotCount++
		}
	}

	l.fixedBytes, l.slotCount = fixed, slots
	l.packed = true
	l.packing = false

	if r.options.VerifyOnPack {
		if err := l.Verify(); err != nil {
			panic(err)
		}
	}

	r.log().Debug("layout packed",
		zap.Stringer("type", l),
		zap.Int("fixed_bytes", l.fixedBytes),
		zap.Int("slot_count", l.slotCount),
		zap.Int("local_fixed_bytes", l.localFixedBytes),
		zap.Int("local_slot_count", l.localSlotCount))
}

// Register declares a property on owner. site is the fully qualified name of
// the registering function, as reported by the runtime. It must belong to the
// owner's package and be either package initialization or a method of owner.
// A type registers only before its descendants do. Fixed-size properties need
// a pointer-free valueType; reference properties accept any type.
func (r *Registry) Register(owner reflect.Type, name string, valueType reflect.Type, fixed bool, site string) (*Descriptor, error) {
	ownerName := typeName(owner)
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidName(ownerName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l, err := r.getOrCreate(owner, errors.PhaseRegister)
	if err != nil {
		return nil, err
	}
	if !ownsSite(owner, site) {
		return nil, errors.UnsafeRegistrationSite(ownerName, name, site)
	}
	if l.packed {
		return nil, errors.RegisteredAfterPacking(ownerName, name)
	}
	if desc := r.registeredDescendant(l); desc != nil {
		return nil, errors.RegisteredOutOfOrder(ownerName, name, desc.String())
	}
	if prev, dup := l.byName[name]; dup {
		return nil, errors.DuplicatePropertyName(ownerName, name, prev.local)
	}
	if valueType == nil || (fixed && !IsFixedSize(valueType)) {
		return nil, errors.UnsupportedValueType(ownerName, name, typeName(valueType))
	}

	size := 0
	if fixed {
		if size, err = safecast.Conv[int](valueType.Size()); err != nil {
			return nil, errors.UnsupportedValueType(ownerName, name, typeName(valueType))
		}
	}

	inherited := 0
	for p := l.parent; p != nil; p = p.parent {
		inherited += len(p.descriptors)
	}

	d := &Descriptor{
		owner:     owner,
		valueType: valueType,
		layout:    l,
		name:      name,
		global:    globalIndex.Add(1),
		hier:      inherited + len(l.descriptors),
		local:     len(l.descriptors),
		offset:    -1,
		size:      size,
		fixed:     fixed,
	}

	l.descriptors = append(l.descriptors, d)
	l.byName[name] = d

	r.log().Debug("property registered",
		zap.Stringer("property", d),
		zap.Stringer("value_type", valueType),
		zap.Bool("fixed", fixed),
		zap.Uint64("global_index", d.global),
		zap.Int("hierarchical_index", d.hier))
	return d, nil
}

// ownsSite reports whether the function named site may register on owner.
func ownsSite(owner reflect.Type, site string) bool {
	pkg, local := callsite.Split(site)
	if site == "" || pkg != owner.PkgPath() {
		return false
	}
	if callsite.IsInit(local) {
		return true
	}
	name, _, _ := strings.Cut(owner.Name(), "[")
	return callsite.Receiver(local) == name
}

// registeredDescendant returns a layout below l that already holds
// descriptors. Their hierarchical indices were counted without l's
// future descriptors. Must be called with r.mu held.
func (r *Registry) registeredDescendant(l *TypeLayout) *TypeLayout {
	var found *TypeLayout
	for _, other := range r.layouts {
		if other == l || len(other.descriptors) == 0 || !other.Descends(l) {
			continue
		}
		if found == nil || typeName(other.owner) < typeName(found.owner) {
			found = other
		}
	}
	return found
}
