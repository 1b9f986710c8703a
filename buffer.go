package irtx

import "iter"

// Buffer is a fixed-capacity store of pulse durations. It never allocates:
// the storage is handed over at construction, typically the slice of a
// statically sized array, and belongs to the buffer from then on.
//
// Only the first Len() entries are meaningful. Reset rewinds the write
// cursor without clearing storage.
type Buffer struct {
	buf []uint32
	n   int
}

// NewBuffer returns an empty Buffer using storage as its backing array.
// The capacity is len(storage).
func NewBuffer(storage []uint32) Buffer {
	return Buffer{buf: storage[:len(storage):len(storage)]}
}

// Reset discards the contents.
func (b *Buffer) Reset() {
	b.n = 0
}

// Load appends the pulse train for cmd, encoded at freq, and returns the
// number of durations written. A train that doesn't fit in the remaining
// capacity is truncated.
func (b *Buffer) Load(freq uint32, cmd Encoder) int {
	window := b.buf[b.n:]
	written := cmd.Encode(freq, window)
	// don't trust a misbehaving encoder with the cursor
	switch {
	case written < 0:
		written = 0
	case written > len(window):
		written = len(window)
	}
	b.n += written
	return written
}

// Get returns the duration at index i. ok is false when i is out of range.
func (b *Buffer) Get(i int) (d uint32, ok bool) {
	if i < 0 || i >= b.n {
		return 0, false
	}
	return b.buf[i], true
}

// Pulses returns the loaded durations. The slice aliases the buffer's
// storage and must not be modified.
func (b *Buffer) Pulses() []uint32 {
	return b.buf[:b.n:b.n]
}

// Len returns the number of loaded durations.
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the buffer's capacity.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Iter returns an iterator positioned at the first loaded duration.
func (b *Buffer) Iter() Iterator {
	return Iterator{pulses: b.Pulses()}
}

// All yields the index and value of every loaded duration, in order.
func (b *Buffer) All() iter.Seq2[int, uint32] {
	pulses := b.Pulses()
	return func(yield func(int, uint32) bool) {
		for i, d := range pulses {
			if !yield(i, d) {
				return
			}
		}
	}
}

// Iterator walks a snapshot of a Buffer's durations. Copies are independent.
type Iterator struct {
	pulses []uint32
	pos    int
}

// Next returns the next duration; ok is false once the iterator is exhausted.
func (it *Iterator) Next() (d uint32, ok bool) {
	if it.pos >= len(it.pulses) {
		return 0, false
	}
	d = it.pulses[it.pos]
	it.pos++
	return d, true
}

// Rewind moves the iterator back to the first duration.
func (it *Iterator) Rewind() {
	it.pos = 0
}
