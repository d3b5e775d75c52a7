package layout

import "reflect"

// Descriptor describes one named value slot declared on an owner type.
// Everything except the offset is fixed at registration; the offset is
// written once, when the owner's layout is packed.
type Descriptor struct {
	owner     reflect.Type
	valueType reflect.Type
	layout    *TypeLayout
	name      string
	global    uint64
	hier      int
	local     int
	offset    int
	size      int
	fixed     bool
}

// GlobalIndex is unique across the process and reflects registration order.
// It is never used for addressing.
func (d *Descriptor) GlobalIndex() uint64 { return d.global }

// HierarchicalIndex is the descriptor's position among all descriptors of the
// owner's ancestor chain at the time it was registered.
func (d *Descriptor) HierarchicalIndex() int { return d.hier }

// LocalIndex is the descriptor's position among those declared directly on the owner.
func (d *Descriptor) LocalIndex() int { return d.local }

func (d *Descriptor) Owner() reflect.Type     { return d.owner }
func (d *Descriptor) ValueType() reflect.Type { return d.valueType }
func (d *Descriptor) Name() string            { return d.name }
func (d *Descriptor) IsFixedSize() bool       { return d.fixed }

// Layout returns the owner's layout.
func (d *Descriptor) Layout() *TypeLayout { return d.layout }

// Size is the byte size of the value for fixed-size descriptors and 0 for
// reference descriptors.
func (d *Descriptor) Size() int { return d.size }

// Offset returns the byte offset (fixed-size) or slot index (reference) of the
// value in the live region. ok is false until the owner layout is packed.
func (d *Descriptor) Offset() (offset int, ok bool) {
	return d.offset, d.offset >= 0
}

func (d *Descriptor) String() string {
	return typeName(d.owner) + "." + d.name
}
