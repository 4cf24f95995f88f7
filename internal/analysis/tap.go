package analysis

import (
	"encoding/binary"
	"sync"
)

// frameSize is one interleaved 16-bit stereo sample frame.
const frameSize = 4

// Tap keeps the most recent mono samples of a 16-bit stereo PCM stream.
// It is an io.Writer, so it can sit behind an io.TeeReader on the way
// to the output device.
type Tap struct {
	mu    sync.Mutex
	buf   []float64
	w     int // write position
	n     int // current fill level
	carry []byte
}

// NewTap creates a tap holding up to capacity mono samples.
func NewTap(capacity int) *Tap {
	return &Tap{
		buf:   make([]float64, max(capacity, 1)),
		carry: make([]byte, 0, frameSize),
	}
}

// Write mixes PCM frames down to mono and appends them, overwriting the
// oldest samples when full. A trailing partial frame is kept for the next call.
func (t *Tap) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data := p
	if len(t.carry) > 0 {
		need := frameSize - len(t.carry)
		if len(data) < need {
			t.carry = append(t.carry, data...)
			return len(p), nil
		}
		t.carry = append(t.carry, data[:need]...)
		t.push(t.carry)
		t.carry = t.carry[:0]
		data = data[need:]
	}

	for len(data) >= frameSize {
		t.push(data[:frameSize])
		data = data[frameSize:]
	}
	t.carry = append(t.carry, data...)
	return len(p), nil
}

func (t *Tap) push(frame []byte) {
	left := int16(binary.LittleEndian.Uint16(frame[0:]))
	right := int16(binary.LittleEndian.Uint16(frame[2:]))
	t.buf[t.w] = (float64(left) + float64(right)) / 2 / 32768
	t.w = (t.w + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
}

// Latest copies the most recent samples into the end of dst, oldest first,
// and zeroes whatever could not be filled. It returns the number of samples copied.
func (t *Tap) Latest(dst []float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := min(len(dst), t.n)
	pad := len(dst) - n
	clear(dst[:pad])

	start := (t.w - n + len(t.buf)) % len(t.buf)
	for i := range n {
		dst[pad+i] = t.buf[(start+i)%len(t.buf)]
	}
	return n
}

// Len returns the number of buffered samples.
func (t *Tap) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// Clear drops all buffered samples.
func (t *Tap) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = 0
	t.n = 0
	t.carry = t.carry[:0]
}
