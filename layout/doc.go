// Package layout computes packed storage layouts for hierarchies of
// property-bearing types.
//
// A participating type is a Go struct that embeds its parent type; the chain
// of embedded structs ends at a root type fixed when the Registry is created.
// Each type in the chain gets one TypeLayout holding the Descriptors declared
// directly on it. Packing assigns every fixed-size descriptor a byte offset and
// every reference descriptor a slot index, continuing from where the parent
// layout ended, so a derived type's storage is its ancestors' storage followed
// by its own:
//
//	type A struct{ Object }    // x: int32 -> bytes [0,4)   ref -> slot 0
//	type B struct{ A }         // y: int64 -> bytes [4,12)
//
// # Thread Safety
//
// Registry serializes creation, registration and packing on a single mutex.
// A TypeLayout and its Descriptors are immutable once packed and may then be
// read from any goroutine that obtained them through the Registry.
package layout
