// Package codec packs a flat logical byte stream into the least-
// significant bit of successive carrier samples.
//
// It is a narrow transform layer in the same spirit as the teacher's
// codec.Codec (which transforms whole buffers via encryption or
// compression): here the transform is per-bit LSB packing instead, and the
// "additional data" the teacher's interface carries alongside every buffer
// has no equivalent — LSB packing needs no authentication context.
package codec

import (
	"github.com/pkg/errors"

	"github.com/fingon/ghostfs/carrier"
)

// Codec exposes a logical byte address space backed by a sample stream.
type Codec interface {
	// Capacity returns the number of whole bytes addressable.
	Capacity() int64

	// ReadAt reads len(buf) bytes starting at the given logical offset.
	ReadAt(buf []byte, offset int64) error

	// WriteAt writes len(buf) bytes starting at the given logical offset.
	WriteAt(buf []byte, offset int64) error
}

// LSBCodec packs each logical byte into the low bit of 8 consecutive
// carrier samples, most-significant bit first. This ordering must stay
// consistent between LSBCodec.ReadAt and LSBCodec.WriteAt; it is not
// configurable, since any other ordering would simply be a different
// (equally arbitrary) incompatible format.
type LSBCodec struct {
	carrier carrier.Carrier
}

var _ Codec = &LSBCodec{}

// NewLSBCodec wraps the given carrier with LSB bit packing.
func NewLSBCodec(c carrier.Carrier) *LSBCodec {
	return &LSBCodec{carrier: c}
}

func (self *LSBCodec) Capacity() int64 {
	return self.carrier.SampleCount() / 8
}

func (self *LSBCodec) checkRange(offset int64, n int) error {
	if offset < 0 || n < 0 {
		return errors.Errorf("codec: negative offset or length")
	}
	if offset+int64(n) > self.Capacity() {
		return errors.Errorf("codec: access [%d,%d) exceeds capacity %d", offset, offset+int64(n), self.Capacity())
	}
	return nil
}

func (self *LSBCodec) ReadAt(buf []byte, offset int64) error {
	if err := self.checkRange(offset, len(buf)); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}

	samples := make([]byte, len(buf)*8)
	if err := self.carrier.ReadAt(samples, offset*8); err != nil {
		return err
	}

	for i := range buf {
		var b byte
		for bit := 0; bit < 8; bit++ {
			b = (b << 1) | (samples[i*8+bit] & 1)
		}
		buf[i] = b
	}
	return nil
}

func (self *LSBCodec) WriteAt(buf []byte, offset int64) error {
	if err := self.checkRange(offset, len(buf)); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}

	samples := make([]byte, len(buf)*8)
	if err := self.carrier.ReadAt(samples, offset*8); err != nil {
		return err
	}

	for i, b := range buf {
		for bit := 0; bit < 8; bit++ {
			shift := 7 - bit
			srcBit := (b >> shift) & 1
			samples[i*8+bit] = (samples[i*8+bit] &^ 1) | srcBit
		}
	}

	return self.carrier.WriteAt(samples, offset*8)
}
