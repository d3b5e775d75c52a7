// Package propstore provides packed, double-buffered property storage for
// hierarchies of scene-object-like types.
//
// Instead of one Go field per property, every participating type keeps its
// values in two arrays owned by its Store: a byte arena for fixed-size values
// and a slot arena for reference values. Each arena is allocated twice the
// size the type needs: the first half is the live region written by Set and
// Clear, the second half is the cached region that only Transfer updates.
//
// # Architecture Overview
//
//	propstore/          Object, Store, typed registration and accessors
//	├── layout/         Descriptors, TypeLayouts, the Registry and packing
//	├── notify/         Pending-update collector driving Transfer
//	├── errors/         Structured error types
//	├── internal/scene  Sample Node/Mesh/Light hierarchy
//	└── cmd/propinspect Layout inspector for the sample scene hierarchy
//
// # Declaring Types
//
// A type joins the hierarchy by embedding Object, or a type that embeds it.
// Properties are registered once, from the type's own package, while the
// package initializes:
//
//	type Node struct{ propstore.Object }
//	type Mesh struct{ Node }
//
//	var (
//		nodeName     = propstore.MustRegisterReference[Node, string]("name")
//		nodePosition = propstore.MustRegisterFixed[Node, [3]float32]("position")
//		meshVertices = propstore.MustRegisterFixed[Mesh, uint32]("vertices")
//	)
//
// Registration from another package, or from a function of the same package
// that is neither initialization nor a method of the owner, fails with an
// unsafe_registration_site error. Registration after the first instance of a
// type was created fails with registered_after_packing, and registration on a
// type whose descendant already registered fails with registered_out_of_order.
//
// # Reading and Writing
//
//	m := propstore.MustNew[Mesh]()
//	_ = nodePosition.Set(m, [3]float32{1, 2, 3})
//	_ = nodePosition.Transfer(m)
//	pos, _ := nodePosition.Cached(m)
//
// # Thread Safety
//
// Registration and layout packing are serialized on one process-wide lock.
// Store operations take no lock: a Store expects a single writer, and
// Transfer is the explicit publication point between its live and cached
// regions. Readers on other goroutines need their own happens-before edge
// with the Transfer they depend on.
package propstore
