package layout

import (
	"reflect"
	"sort"

	"github.com/wippyai/propstore/errors"
)

// TypeLayout holds the descriptors declared directly on one type and, once
// packed, the storage sizes of that type together with its ancestors.
type TypeLayout struct {
	owner       reflect.Type
	parent      *TypeLayout
	descriptors []*Descriptor
	byName      map[string]*Descriptor
	rootOffset  uintptr
	depth       int

	localFixedBytes int
	localSlotCount  int
	fixedBytes      int
	slotCount       int

	packed  bool
	packing bool
}

func newTypeLayout(owner reflect.Type, parent *TypeLayout, rootOffset uintptr) *TypeLayout {
	l := &TypeLayout{
		owner:      owner,
		parent:     parent,
		byName:     make(map[string]*Descriptor),
		rootOffset: rootOffset,
	}
	if parent != nil {
		l.depth = parent.depth + 1
	}
	return l
}

func (l *TypeLayout) Owner() reflect.Type { return l.owner }

// Parent returns the layout of the nearest ancestor, or nil when the owner
// embeds the root directly.
func (l *TypeLayout) Parent() *TypeLayout { return l.parent }

// Depth is the number of ancestor layouts above this one.
func (l *TypeLayout) Depth() int { return l.depth }

// RootOffset is the byte offset of the embedded root value inside an owner value.
func (l *TypeLayout) RootOffset() uintptr { return l.rootOffset }

func (l *TypeLayout) Packed() bool { return l.packed }

// Descriptors returns the directly declared descriptors in registration order.
func (l *TypeLayout) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(l.descriptors))
	copy(out, l.descriptors)
	return out
}

// AllDescriptors returns the descriptors of the whole chain, ancestors first.
func (l *TypeLayout) AllDescriptors() []*Descriptor {
	var out []*Descriptor
	if l.parent != nil {
		out = l.parent.AllDescriptors()
	}
	return append(out, l.descriptors...)
}

// Descriptor returns the directly declared descriptor with the given name.
func (l *TypeLayout) Descriptor(name string) (*Descriptor, bool) {
	d, ok := l.byName[name]
	return d, ok
}

// Lookup returns the nearest descriptor with the given name along the chain.
func (l *TypeLayout) Lookup(name string) (*Descriptor, bool) {
	for p := l; p != nil; p = p.parent {
		if d, ok := p.byName[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// Descends reports whether other is this layout or one of its ancestors.
func (l *TypeLayout) Descends(other *TypeLayout) bool {
	for p := l; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

// LocalFixedBytes is the byte size contributed by this type alone.
func (l *TypeLayout) LocalFixedBytes() int { return l.localFixedBytes }

// LocalSlotCount is the number of slots contributed by this type alone.
func (l *TypeLayout) LocalSlotCount() int { return l.localSlotCount }

// FixedBytes is the byte size of the whole chain. Valid once packed.
func (l *TypeLayout) FixedBytes() int { return l.fixedBytes }

// SlotCount is the slot count of the whole chain. Valid once packed.
func (l *TypeLayout) SlotCount() int { return l.slotCount }

func (l *TypeLayout) String() string { return typeName(l.owner) }

// Verify checks that the fixed-size descriptors of the chain tile
// [0, FixedBytes) without gaps or overlaps, and that the reference
// descriptors use every slot in [0, SlotCount) exactly once.
func (l *TypeLayout) Verify() error {
	owner := typeName(l.owner)
	if !l.packed {
		return errors.Invariant(errors.PhasePack, owner, "layout is not packed")
	}

	var fixed []*Descriptor
	slots := make([]*Descriptor, l.slotCount)
	for _, d := range l.AllDescriptors() {
		off, ok := d.Offset()
		if !ok {
			return errors.Invariant(errors.PhasePack, owner, "%s has no offset", d)
		}
		if d.fixed {
			fixed = append(fixed, d)
			continue
		}
		if off >= len(slots) {
			return errors.Invariant(errors.PhasePack, owner, "%s slot %d outside [0,%d)", d, off, len(slots))
		}
		if slots[off] != nil {
			return errors.Invariant(errors.PhasePack, owner, "%s and %s share slot %d", slots[off], d, off)
		}
		slots[off] = d
	}
	for i, d := range slots {
		if d == nil {
			return errors.Invariant(errors.PhasePack, owner, "slot %d is unused", i)
		}
	}

	sort.SliceStable(fixed, func(i, j int) bool { return fixed[i].offset < fixed[j].offset })
	cursor := 0
	for _, d := range fixed {
		if d.offset != cursor {
			return errors.Invariant(errors.PhasePack, owner, "%s starts at %d, expected %d", d, d.offset, cursor)
		}
		cursor += d.size
	}
	if cursor != l.fixedBytes {
		return errors.Invariant(errors.PhasePack, owner, "fixed properties cover %d of %d bytes", cursor, l.fixedBytes)
	}
	return nil
}
