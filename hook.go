package propstore

import "sync/atomic"

// UpdateHook is told about every Set and Clear, after the live region changed.
type UpdateHook interface {
	PropertyUpdated(s *Store, d *Descriptor)
}

// UpdateHookFunc adapts a function to UpdateHook.
type UpdateHookFunc func(s *Store, d *Descriptor)

func (f UpdateHookFunc) PropertyUpdated(s *Store, d *Descriptor) { f(s, d) }

type hookBox struct {
	hook UpdateHook
}

var updateHook atomic.Pointer[hookBox]

// SetUpdateHook installs h as the process-wide update hook and returns the
// previous one. A nil h restores the default, which does nothing.
func SetUpdateHook(h UpdateHook) UpdateHook {
	var next *hookBox
	if h != nil {
		next = &hookBox{hook: h}
	}
	prev := updateHook.Swap(next)
	if prev == nil {
		return nil
	}
	return prev.hook
}
