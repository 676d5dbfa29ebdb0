package dict

import (
	"fmt"
	"sync/atomic"
)

// Handle is a shared reference to the current dictionary version. Readers
// get a consistent immutable snapshot; updates swap the whole table at once
// so no generation ever observes a half-updated rule set.
type Handle struct {
	current atomic.Pointer[Dictionary]
}

// NewHandle validates d and wraps it in a handle.
func NewHandle(d *Dictionary) (*Handle, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	h := &Handle{}
	h.current.Store(d)
	return h, nil
}

// Current returns the dictionary snapshot in effect right now. The returned
// value must be treated as read-only.
func (h *Handle) Current() *Dictionary {
	return h.current.Load()
}

// Swap validates the replacement dictionary and installs it atomically.
// In-flight generations keep the snapshot they started with.
func (h *Handle) Swap(d *Dictionary) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("dictionary swap rejected: %w", err)
	}
	h.current.Store(d)
	return nil
}
