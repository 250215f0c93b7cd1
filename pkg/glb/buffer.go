package glb

// Alignment is the byte boundary every packed region and chunk starts on.
const Alignment = 4

// Align rounds n up to the next multiple of Alignment.
func Align(n int) int {
	return n + Padding(n)
}

// Padding returns the number of bytes needed to bring n to a multiple of Alignment.
func Padding(n int) int {
	return (Alignment - n%Alignment) % Alignment
}

// Buffer is an append-only binary blob. Every appended region starts on a
// 4-byte boundary; the gap before it is filled with zero bytes.
// Regions are never reordered, merged or deduplicated.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append pads the buffer to the next 4-byte boundary and appends p verbatim.
// It returns the aligned offset of the new region and len(p).
func (b *Buffer) Append(p []byte) (offset, length int) {
	b.pad()
	offset = len(b.data)
	b.data = append(b.data, p...)
	return offset, len(p)
}

// Len returns the current length of the blob, without trailing padding.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Finalize zero-pads the blob to a multiple of 4 and returns it.
// Calling it more than once is harmless; later appends stay aligned.
func (b *Buffer) Finalize() []byte {
	b.pad()
	return b.data
}

// Bytes returns the blob as currently written.
// The slice aliases the buffer and must not be modified.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) pad() {
	for n := Padding(len(b.data)); n > 0; n-- {
		b.data = append(b.data, 0)
	}
}
