package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister  Phase = "register"  // descriptor registration
	PhasePack      Phase = "pack"      // layout packing
	PhaseConstruct Phase = "construct" // store construction
	PhaseAccess    Phase = "access"    // get/set/read/transfer
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidName            Kind = "invalid_name"
	KindInvalidOwnerType       Kind = "invalid_owner_type"
	KindUnsafeRegistrationSite Kind = "unsafe_registration_site"
	KindRegisteredAfterPacking Kind = "registered_after_packing"
	KindRegisteredOutOfOrder   Kind = "registered_out_of_order"
	KindDuplicatePropertyName  Kind = "duplicate_property_name"
	KindUnsupportedValueType   Kind = "unsupported_value_type"
	KindTypeMismatch           Kind = "type_mismatch"
	KindKindMismatch           Kind = "kind_mismatch"
	KindValueTypeMismatch      Kind = "value_type_mismatch"
	KindInvalidInstance        Kind = "invalid_instance"
	KindAlreadyAttached        Kind = "already_attached"
	KindInvariant              Kind = "invariant"
)

// Sentinels for errors.Is. They match any phase.
var (
	ErrInvalidName            = &Error{Kind: KindInvalidName}
	ErrInvalidOwnerType       = &Error{Kind: KindInvalidOwnerType}
	ErrUnsafeRegistrationSite = &Error{Kind: KindUnsafeRegistrationSite}
	ErrRegisteredAfterPacking = &Error{Kind: KindRegisteredAfterPacking}
	ErrRegisteredOutOfOrder   = &Error{Kind: KindRegisteredOutOfOrder}
	ErrDuplicatePropertyName  = &Error{Kind: KindDuplicatePropertyName}
	ErrUnsupportedValueType   = &Error{Kind: KindUnsupportedValueType}
	ErrTypeMismatch           = &Error{Kind: KindTypeMismatch}
	ErrKindMismatch           = &Error{Kind: KindKindMismatch}
	ErrValueTypeMismatch      = &Error{Kind: KindValueTypeMismatch}
	ErrInvalidInstance        = &Error{Kind: KindInvalidInstance}
	ErrAlreadyAttached        = &Error{Kind: KindAlreadyAttached}
	ErrInvariant              = &Error{Kind: KindInvariant}
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Owner    string
	Property string
	GoType   string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Owner != "" || e.Property != "" {
		b.WriteString(" at ")
		b.WriteString(e.Owner)
		if e.Property != "" {
			if e.Owner != "" {
				b.WriteByte('.')
			}
			b.WriteString(e.Property)
		}
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches every phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Is reports whether any error in err's chain matches target.
// It is errors.Is from the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// It is errors.As from the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Owner sets the owner type name
func (b *Builder) Owner(name string) *Builder {
	b.err.Owner = name
	return b
}

// Property sets the property name
func (b *Builder) Property(name string) *Builder {
	b.err.Property = name
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidName creates an invalid property name error
func InvalidName(owner, name string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindInvalidName,
		Owner:    owner,
		Property: name,
		Detail:   "property name must not be empty or whitespace",
	}
}

// InvalidOwnerType creates an error for a type outside the root hierarchy
func InvalidOwnerType(phase Phase, owner, root string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidOwnerType,
		Owner:  owner,
		Detail: fmt.Sprintf("type is not a proper descendant of %s", root),
	}
}

// UnsafeRegistrationSite creates an error for registration from a foreign package
func UnsafeRegistrationSite(owner, name, site string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindUnsafeRegistrationSite,
		Owner:    owner,
		Property: name,
		Detail:   fmt.Sprintf("registered from package %q", site),
	}
}

// RegisteredAfterPacking creates an error for registration on a frozen layout
func RegisteredAfterPacking(owner, name string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindRegisteredAfterPacking,
		Owner:    owner,
		Property: name,
		Detail:   "layout is already packed",
	}
}

// RegisteredOutOfOrder creates an error for a registration on a type whose
// descendant already holds properties
func RegisteredOutOfOrder(owner, name, descendant string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindRegisteredOutOfOrder,
		Owner:    owner,
		Property: name,
		Detail:   fmt.Sprintf("descendant %s already registered properties; register ancestors first", descendant),
	}
}

// DuplicatePropertyName creates a duplicate name error
func DuplicatePropertyName(owner, name string, localIndex int) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindDuplicatePropertyName,
		Owner:    owner,
		Property: name,
		Detail:   fmt.Sprintf("already declared at local index %d", localIndex),
	}
}

// UnsupportedValueType creates an error for a value type that cannot be stored by value
func UnsupportedValueType(owner, name, goType string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindUnsupportedValueType,
		Owner:    owner,
		Property: name,
		GoType:   goType,
		Detail:   "fixed-size properties require a pointer-free value type",
	}
}

// TypeMismatch creates an error for a descriptor used against an unrelated instance
func TypeMismatch(owner, instance, name string) *Error {
	return &Error{
		Phase:    PhaseAccess,
		Kind:     KindTypeMismatch,
		Owner:    owner,
		Property: name,
		Detail:   fmt.Sprintf("instance of %s does not descend from the owner", instance),
	}
}

// KindMismatch creates an error for a descriptor used in the wrong storage mode
func KindMismatch(owner, name string, fixed bool) *Error {
	have, want := "reference", "fixed-size"
	if fixed {
		have, want = want, have
	}
	return &Error{
		Phase:    PhaseAccess,
		Kind:     KindKindMismatch,
		Owner:    owner,
		Property: name,
		Detail:   fmt.Sprintf("%s property used as %s", have, want),
	}
}

// ValueTypeMismatch creates an error for a Go type argument that does not match the descriptor
func ValueTypeMismatch(owner, name, goType, valueType string) *Error {
	return &Error{
		Phase:    PhaseAccess,
		Kind:     KindValueTypeMismatch,
		Owner:    owner,
		Property: name,
		GoType:   goType,
		Detail:   fmt.Sprintf("property holds %s", valueType),
	}
}

// InvalidInstance creates an error for a value that cannot own a store
func InvalidInstance(goType, detail string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindInvalidInstance,
		GoType: goType,
		Detail: detail,
	}
}

// AlreadyAttached creates an error for a second store on the same instance
func AlreadyAttached(goType string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindAlreadyAttached,
		GoType: goType,
		Detail: "instance already owns a store",
	}
}

// Invariant creates an invariant violation. These are raised with panic,
// never returned.
func Invariant(phase Phase, owner, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvariant,
		Owner:  owner,
		Detail: fmt.Sprintf(format, args...),
	}
}
