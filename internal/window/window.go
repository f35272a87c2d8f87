// Package window implements a fixed-capacity rolling window used to keep
// recent history for plotting.
package window

// Window is a FIFO of fixed capacity. It starts full of zero values, so
// every push evicts the oldest element.
type Window[T any] struct {
	buf  []T
	head int // index of the oldest element
}

// New returns a window of the given capacity pre-filled with zero values.
// Capacities below 1 are raised to 1.
func New[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{buf: make([]T, capacity)}
}

// Push drops the oldest element and appends v as the newest.
func (w *Window[T]) Push(v T) {
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// Len is always equal to Cap.
func (w *Window[T]) Len() int { return len(w.buf) }

func (w *Window[T]) Cap() int { return len(w.buf) }

// Last returns the newest element.
func (w *Window[T]) Last() T {
	i := w.head - 1
	if i < 0 {
		i = len(w.buf) - 1
	}
	return w.buf[i]
}

// Values returns a copy of the contents, oldest first.
func (w *Window[T]) Values() []T {
	out := make([]T, 0, len(w.buf))
	out = append(out, w.buf[w.head:]...)
	return append(out, w.buf[:w.head]...)
}
