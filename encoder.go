package zx7

import (
	e "github.com/pkg/errors"
)

// BitEncoder is an Encoder that writes the ZX7 stream format.
//
// The first byte is stored as is. Every following element starts with a
// flag bit: 0 for a literal, which is followed by the byte, or 1 for a
// match, followed by length-1 in Elias gamma code and the distance-1 in one
// byte (distances above 128 set the top bit of that byte and add four more
// bits). The stream ends with a match whose length code is too long to be
// valid. Flag and code bits are packed most significant bit first into bytes
// that are reserved in the output at the point where they are first needed,
// so that a decompressor can read the stream strictly front to back.
type BitEncoder struct{}

func (BitEncoder) Encode(dst []byte, src []byte, matches []Match) ([]byte, error) {
	if err := ValidatePlan(src, matches); err != nil {
		return dst, err
	}

	w := bitWriter{dst: dst}
	pos := 0
	literal := func() {
		if pos > 0 {
			w.writeBit(false)
		}
		w.writeByte(src[pos])
		pos++
	}

	for _, m := range matches {
		for i := 0; i < m.Unmatched; i++ {
			literal()
		}
		if m.Length == 0 {
			continue
		}

		w.writeBit(true)
		w.writeEliasGamma(m.Length - 1)
		offset := m.Distance - 1
		if offset < shortOffset {
			w.writeByte(byte(offset))
		} else {
			offset -= shortOffset
			w.writeByte(byte(offset&0x7f) | 0x80)
			for mask := 1024; mask > 127; mask >>= 1 {
				w.writeBit(offset&mask != 0)
			}
		}
		pos += m.Length
	}
	for pos < len(src) {
		literal()
	}

	// End marker: a match with a 17-bit length code.
	w.writeBit(true)
	for i := 0; i < 16; i++ {
		w.writeBit(false)
	}
	w.writeBit(true)

	return w.dst, nil
}

// ValidatePlan checks that matches describe src in a way the format can
// express: they cover it exactly, the first byte is a literal, and every
// back-reference has a valid length and points inside the data already
// produced.
func ValidatePlan(src []byte, matches []Match) error {
	if len(src) == 0 {
		return ErrEmptyInput
	}

	pos := 0
	for i, m := range matches {
		if m.Unmatched < 0 {
			return e.Wrapf(ErrBadPlan, "match %d: negative literal count %d", i, m.Unmatched)
		}
		pos += m.Unmatched
		if m.Length == 0 {
			if i != len(matches)-1 {
				return e.Wrapf(ErrBadPlan, "match %d: empty match before the end", i)
			}
			break
		}
		switch {
		case pos == 0:
			return e.Wrap(ErrBadPlan, "the first byte must be a literal")
		case m.Length < MinLength || m.Length > MaxLength:
			return e.Wrapf(ErrBadPlan, "match %d: length %d out of range", i, m.Length)
		case m.Distance < 1 || m.Distance > MaxOffset:
			return e.Wrapf(ErrBadPlan, "match %d: distance %d out of range", i, m.Distance)
		case m.Distance > pos:
			return e.Wrapf(ErrBadPlan, "match %d: distance %d reaches before the start at %d", i, m.Distance, pos)
		}
		pos += m.Length
		if pos > len(src) {
			break
		}
	}

	if pos > len(src) {
		return e.Wrapf(ErrBadPlan, "plan covers %d bytes, input has %d", pos, len(src))
	}
	return nil
}

type bitWriter struct {
	dst   []byte
	mask  byte
	index int // position of the byte receiving bits
}

func (w *bitWriter) writeByte(b byte) {
	w.dst = append(w.dst, b)
}

func (w *bitWriter) writeBit(bit bool) {
	if w.mask == 0 {
		w.mask = 0x80
		w.index = len(w.dst)
		w.dst = append(w.dst, 0)
	}
	if bit {
		w.dst[w.index] |= w.mask
	}
	w.mask >>= 1
}

func (w *bitWriter) writeEliasGamma(value int) {
	i := 2
	for ; i <= value; i <<= 1 {
		w.writeBit(false)
	}
	for i >>= 1; i > 0; i >>= 1 {
		w.writeBit(value&i != 0)
	}
}
