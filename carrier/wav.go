package carrier

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// WAVCarrier exposes the bytes of a RIFF/WAVE file's "data" sub-chunk as
// payload samples. Sample interpretation (PCM bit depth, channel count) is
// irrelevant to GhostFS; only the LSB of each byte in that chunk is used.
type WAVCarrier struct {
	f          *os.File
	dataOffset int64
	dataSize   int64
}

var _ Carrier = &WAVCarrier{}

// OpenWAV validates a RIFF/WAVE file's chunk structure, locates the "data"
// sub-chunk and returns a carrier over it.
func OpenWAV(path string) (*WAVCarrier, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "carrier: open wav")
	}
	c, err := newWAVCarrier(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func newWAVCarrier(f *os.File) (*WAVCarrier, error) {
	riffHdr := make([]byte, 12)
	if _, err := io.ReadFull(f, riffHdr); err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, "wav: header too short")
	}
	if string(riffHdr[0:4]) != "RIFF" || string(riffHdr[8:12]) != "WAVE" {
		return nil, errors.Wrap(ErrInvalidFormat, "wav: bad RIFF/WAVE magic")
	}

	var dataOffset, dataSize int64
	sawFmt := false
	pos := int64(12)
	for {
		chunkHdr := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHdr); err != nil {
			break
		}
		id := string(chunkHdr[0:4])
		size := int64(binary.LittleEndian.Uint32(chunkHdr[4:8]))
		bodyOffset := pos + 8

		switch id {
		case "fmt ":
			sawFmt = true
		case "data":
			dataOffset = bodyOffset
			dataSize = size
		}

		padded := size
		if padded%2 != 0 {
			padded++
		}
		if id == "data" {
			// Capacity is exactly the data chunk's declared size; stop
			// parsing once it is found, the rest of the file (if any) is
			// irrelevant to the carrier.
			break
		}
		if _, err := f.Seek(bodyOffset+padded, io.SeekStart); err != nil {
			return nil, errors.Wrap(err, "wav: seek past chunk")
		}
		pos = bodyOffset + padded
	}

	if !sawFmt {
		return nil, errors.Wrap(ErrInvalidFormat, "wav: missing fmt chunk")
	}
	if dataSize == 0 {
		return nil, errors.Wrap(ErrInvalidFormat, "wav: missing data chunk")
	}

	return &WAVCarrier{f: f, dataOffset: dataOffset, dataSize: dataSize}, nil
}

func (self *WAVCarrier) SampleCount() int64 {
	return self.dataSize
}

func (self *WAVCarrier) ReadAt(buf []byte, sampleOffset int64) error {
	if err := rangeCheck(self.SampleCount(), sampleOffset, len(buf)); err != nil {
		return err
	}
	_, err := self.f.ReadAt(buf, self.dataOffset+sampleOffset)
	return errors.Wrap(err, "carrier: wav read")
}

func (self *WAVCarrier) WriteAt(buf []byte, sampleOffset int64) error {
	if err := rangeCheck(self.SampleCount(), sampleOffset, len(buf)); err != nil {
		return err
	}
	_, err := self.f.WriteAt(buf, self.dataOffset+sampleOffset)
	return errors.Wrap(err, "carrier: wav write")
}

func (self *WAVCarrier) Sync() error  { return self.f.Sync() }
func (self *WAVCarrier) Close() error { return self.f.Close() }

// CreateWAV writes a fresh, zeroed PCM WAV file with a data chunk of
// dataSize bytes, and returns a carrier over it.
func CreateWAV(path string, sampleRate, bitsPerSample, channels int, dataSize int64) (*WAVCarrier, error) {
	if dataSize <= 0 {
		return nil, errors.New("carrier: wav data size must be positive")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "carrier: create wav")
	}

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := make([]byte, 44)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(bitsPerSample))
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "carrier: write wav header")
	}
	if err := f.Truncate(44 + dataSize); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "carrier: truncate wav")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return newWAVCarrier(f)
}
