package layout

import "reflect"

// lineageOf finds the embedded field through which t descends from root.
// It returns the parent type (nil when t embeds root directly) and the byte
// offset of the embedded root value inside t. ok is false when t is not a
// struct, is root itself, does not reach root, or reaches it through more
// than one embedded field.
func lineageOf(t, root reflect.Type) (parent reflect.Type, rootOffset uintptr, ok bool) {
	if t == nil || t == root || t.Kind() != reflect.Struct {
		return nil, 0, false
	}

	found := false
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct {
			continue
		}

		var p reflect.Type
		var off uintptr
		if f.Type == root {
			off = f.Offset
		} else if _, sub, ok := lineageOf(f.Type, root); ok {
			p = f.Type
			off = f.Offset + sub
		} else {
			continue
		}

		if found {
			// Two embedded paths to root: the chain is ambiguous.
			return nil, 0, false
		}
		found = true
		parent, rootOffset = p, off
	}
	return parent, rootOffset, found
}

// IsFixedSize reports whether values of t can be stored as raw bytes: t and
// everything it contains must be free of pointers.
func IsFixedSize(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return IsFixedSize(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !IsFixedSize(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
