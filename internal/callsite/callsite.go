// Package callsite identifies the Go function and package of a caller.
package callsite

import (
	"runtime"
	"strings"
)

// Function returns the fully qualified name of the function skip frames above
// the caller of Function, as reported by the runtime. Function(0) names the
// caller itself. It returns "" when the stack is not that deep.
func Function(skip int) string {
	var pcs [1]uintptr
	// +2 skips runtime.Callers and Function.
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	return frame.Function
}

// Split separates a fully qualified function name into the package import
// path and the package-local remainder, e.g.
// "github.com/acme/scene.(*Node).Setup" -> "github.com/acme/scene", "(*Node).Setup".
// Dots in the last path element are escaped by the runtime as %2e.
func Split(funcName string) (pkg, local string) {
	slash := strings.LastIndexByte(funcName, '/')
	pkg = funcName
	if dot := strings.IndexByte(funcName[slash+1:], '.'); dot >= 0 {
		pkg, local = funcName[:slash+1+dot], funcName[slash+2+dot:]
	}
	return strings.ReplaceAll(pkg, "%2e", "."), local
}

// IsInit reports whether local names package initialization: an init
// function, the variable initializers, or a closure inside either.
func IsInit(local string) bool {
	return local == "init" ||
		strings.HasPrefix(local, "init.") ||
		strings.HasPrefix(local, "glob..func")
}

// Receiver returns the receiver type name of a method, without pointer or
// type arguments: "(*Node).Setup" and "Node[...].Setup" both give "Node".
// Closures of plain functions yield the function name, which can never be a
// type name of the same package. It returns "" for plain functions.
func Receiver(local string) string {
	local = strings.TrimPrefix(local, "(*")
	end := strings.IndexAny(local, ".)[")
	if end <= 0 {
		return ""
	}
	if rest := strings.TrimPrefix(local[end:], "[...]"); rest == "" {
		return ""
	}
	return local[:end]
}
