// Package carrier locates the payload-sample byte range inside a media
// file and exposes it as a flat, one-byte-per-sample address space. It
// knows nothing about filesystems or bit packing; that is the codec
// package's job. A carrier's only contract is "here are N samples, read or
// write any one of them".
package carrier

import "github.com/pkg/errors"

// Carrier exposes the payload samples of a media file as a flat,
// zero-indexed byte array. Index 0 is the first payload sample, not byte 0
// of the file — header, chunk, and row-padding bytes are never visible
// through this interface.
type Carrier interface {
	// SampleCount returns the number of payload samples available.
	SampleCount() int64

	// ReadAt reads len(buf) consecutive samples starting at sampleOffset.
	ReadAt(buf []byte, sampleOffset int64) error

	// WriteAt writes len(buf) consecutive samples starting at sampleOffset.
	WriteAt(buf []byte, sampleOffset int64) error

	// Sync flushes any buffered writes to stable storage.
	Sync() error

	// Close releases the underlying file handle.
	Close() error
}

// ErrInvalidFormat is returned when a carrier file fails header
// validation (bad magic, unsupported compression, unsupported layout).
var ErrInvalidFormat = errors.New("carrier: invalid format")

func rangeCheck(sampleCount, sampleOffset int64, n int) error {
	if sampleOffset < 0 || n < 0 {
		return errors.Errorf("carrier: negative offset or length")
	}
	if sampleOffset+int64(n) > sampleCount {
		return errors.Errorf("carrier: access [%d,%d) exceeds %d samples", sampleOffset, sampleOffset+int64(n), sampleCount)
	}
	return nil
}
