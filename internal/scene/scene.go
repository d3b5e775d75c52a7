// Package scene is a small scene-object hierarchy built on propstore. It backs
// the inspector and the cross-package tests.
package scene

import (
	"reflect"

	"github.com/wippyai/propstore"
)

// Node is the base of every scene object.
type Node struct {
	propstore.Object
}

// Mesh is a node with geometry.
type Mesh struct {
	Node
}

// SkinnedMesh is a mesh deformed by a skeleton.
type SkinnedMesh struct {
	Mesh
}

// Light is a node that emits light.
type Light struct {
	Node
}

// Vec3 is a position or direction.
type Vec3 [3]float32

// Color is linear RGBA.
type Color [4]float32

// Material is referenced by meshes; it is shared, so it lives in a slot.
type Material struct {
	Name   string
	Albedo Color
}

var (
	NodeName     = propstore.MustRegisterReference[Node, string]("name")
	NodeVisible  = propstore.MustRegisterFixed[Node, bool]("visible")
	NodePosition = propstore.MustRegisterFixed[Node, Vec3]("position")
	NodeParent   = propstore.MustRegisterReference[Node, *Node]("parent")

	MeshVertexCount = propstore.MustRegisterFixed[Mesh, uint32]("vertex_count")
	MeshMaterial    = propstore.MustRegisterReference[Mesh, *Material]("material")

	SkinnedMeshBones = propstore.MustRegisterFixed[SkinnedMesh, uint16]("bone_count")

	LightColor     = propstore.MustRegisterFixed[Light, Color]("color")
	LightIntensity = propstore.MustRegisterFixed[Light, float64]("intensity")
)

// NewMesh creates a visible mesh.
func NewMesh(name string, vertices uint32, mat *Material) (*Mesh, error) {
	m, err := propstore.New[Mesh]()
	if err != nil {
		return nil, err
	}
	if err := NodeName.Set(m, name); err != nil {
		return nil, err
	}
	if err := NodeVisible.Set(m, true); err != nil {
		return nil, err
	}
	if err := MeshVertexCount.Set(m, vertices); err != nil {
		return nil, err
	}
	if err := MeshMaterial.Set(m, mat); err != nil {
		return nil, err
	}
	return m, nil
}

// NewLight creates a visible white light.
func NewLight(name string, intensity float64) (*Light, error) {
	l, err := propstore.New[Light]()
	if err != nil {
		return nil, err
	}
	if err := NodeName.Set(l, name); err != nil {
		return nil, err
	}
	if err := NodeVisible.Set(l, true); err != nil {
		return nil, err
	}
	if err := LightColor.Set(l, Color{1, 1, 1, 1}); err != nil {
		return nil, err
	}
	if err := LightIntensity.Set(l, intensity); err != nil {
		return nil, err
	}
	return l, nil
}

// Types lists every type of the hierarchy, ancestors first.
func Types() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[Node](),
		reflect.TypeFor[Mesh](),
		reflect.TypeFor[SkinnedMesh](),
		reflect.TypeFor[Light](),
	}
}
