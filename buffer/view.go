// Package buffer provides the owned byte buffer used for queue entries
// copied out of inbound frames.
package buffer

// View is a slice of a buffer, with convenience methods.
type View []byte

// NewView allocates a new buffer and returns an initialized view that
// covers the whole buffer.
func NewView(size int) View {
	return make(View, size)
}

// NewViewFromBytes copies src into a new, independently owned View. Used
// at protocol-input time so the queue owns its own copy of an inbound
// frame and the driver's read buffer can be reused.
func NewViewFromBytes(src []byte) View {
	v := make(View, len(src))
	copy(v, src)
	return v
}

// CapLength irreversibly reduces the length of the visible section of the
// buffer to the value specified.
func (v *View) CapLength(length int) {
	// Also cap the slice's capacity: otherwise the view could be expanded
	// back over the excluded region, which may hold stale data.
	*v = (*v)[:length:length]
}

// TrimFront removes the first "count" bytes from the visible section of
// the buffer.
func (v *View) TrimFront(count int) {
	*v = (*v)[count:]
}
