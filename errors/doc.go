// Package errors provides structured error types for the propstore library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the owner type and property name involved, the Go type
// that was rejected, and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegister, errors.KindDuplicatePropertyName).
//		Owner("scene.Node").
//		Property("position").
//		Detail("already declared at local index %d", 2).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.KindMismatch("scene.Node", "position", true)
//	err := errors.TypeMismatch("scene.Mesh", "scene.Light", "color")
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match any error of their kind:
//
//	if errors.Is(err, perrors.ErrRegisteredAfterPacking) { ... }
package errors
