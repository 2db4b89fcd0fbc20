package patch

import "bytes"

// Image is a line-indexed, mutable view of a byte buffer. Every Line's
// bytes, concatenated in order, reconstruct the image's current logical
// contents; lines are not required to end in '\n', but only the final line
// may lack one.
//
// An Image copies no line bytes: lines it was constructed with borrow the
// slice passed to NewImage, and lines inserted by Splice are the slices
// passed to Splice. Callers must not mutate those slices while the Image is
// in use.
type Image struct {
	lines [][]byte
}

// NewImage splits src on '\n' boundaries into an Image. Each produced line
// includes its trailing '\n' when one is present; the final line may not
// have one. A zero-length src yields an empty image. No line bytes are
// copied: lines borrow src for as long as the Image exists.
func NewImage(src []byte) *Image {
	if len(src) == 0 {
		return &Image{}
	}

	var lines [][]byte
	start := 0
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, src[start:i+1])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return &Image{lines: lines}
}

// Len returns the number of lines in the image.
func (img *Image) Len() int {
	return len(img.lines)
}

// Get returns the line at i. It returns InternalBug if i is out of range.
func (img *Image) Get(i int) ([]byte, error) {
	if i < 0 || i >= len(img.lines) {
		return nil, newInternalBug("line index %d out of range [0, %d)", i, len(img.lines))
	}
	return img.lines[i], nil
}

// Splice removes removeCount lines starting at at, then inserts insert at
// the same position. It is atomic: on error the image is left unchanged.
func (img *Image) Splice(at, removeCount int, insert [][]byte) error {
	if at < 0 || removeCount < 0 || at+removeCount > len(img.lines) {
		return newInternalBug("splice out of range: at=%d removeCount=%d len=%d", at, removeCount, len(img.lines))
	}

	newLen := len(img.lines) - removeCount + len(insert)
	lines := make([][]byte, 0, newLen)
	lines = append(lines, img.lines[:at]...)
	lines = append(lines, insert...)
	lines = append(lines, img.lines[at+removeCount:]...)

	img.lines = lines
	return nil
}

// ToBytes concatenates every line in order, reconstructing the image's
// current logical contents.
func (img *Image) ToBytes() []byte {
	var buf bytes.Buffer
	for _, line := range img.lines {
		buf.Write(line)
	}
	return buf.Bytes()
}
