package cart

import "errors"

// ErrEmpty reports that a slot holds no snapshot. Implementations must return
// it from Read when the slot is vacant, rather than an empty payload.
var ErrEmpty = errors.New("cart: empty slot")

// Slot is the durable key-value cell a Store persists its snapshot into.
// The key itself is fixed by the implementation (one slot per session).
type Slot interface {
	Read() ([]byte, error)
	Write([]byte) error
	Clear() error
}

// MemorySlot keeps the snapshot in process memory. It backs tests and the
// degraded mode when durable storage is unavailable.
type MemorySlot struct {
	data []byte
}

func (m *MemorySlot) Read() ([]byte, error) {
	if m.data == nil {
		return nil, ErrEmpty
	}
	return m.data, nil
}

func (m *MemorySlot) Write(b []byte) error {
	m.data = append([]byte(nil), b...)
	return nil
}

func (m *MemorySlot) Clear() error {
	m.data = nil
	return nil
}
