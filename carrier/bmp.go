package carrier

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	biRGB             = 0
)

// BMPCarrier exposes the pixel-array bytes of an uncompressed,
// bottom-up Windows BMP file (BITMAPFILEHEADER + BITMAPINFOHEADER) as
// payload samples, in file order, with row-padding bytes excluded.
type BMPCarrier struct {
	f *os.File

	pixelArrayOffset int64
	rowStride        int64 // bytes per row on disk, including padding
	rowData          int64 // bytes per row that actually carry pixel data
	height           int64
}

var _ Carrier = &BMPCarrier{}

// OpenBMP validates an existing BMP file's headers and returns a carrier
// over its pixel array. The file is opened for reading and writing.
func OpenBMP(path string) (*BMPCarrier, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "carrier: open bmp")
	}
	c, err := newBMPCarrier(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func newBMPCarrier(f *os.File) (*BMPCarrier, error) {
	hdr := make([]byte, bmpFileHeaderSize+bmpInfoHeaderSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, "bmp: header too short")
	}

	if hdr[0] != 'B' || hdr[1] != 'M' {
		return nil, errors.Wrap(ErrInvalidFormat, "bmp: bad magic")
	}
	pixelArrayOffset := int64(binary.LittleEndian.Uint32(hdr[10:14]))

	dib := hdr[bmpFileHeaderSize:]
	dibSize := binary.LittleEndian.Uint32(dib[0:4])
	if dibSize < bmpInfoHeaderSize {
		return nil, errors.Wrap(ErrInvalidFormat, "bmp: unsupported DIB header size")
	}
	width := int64(int32(binary.LittleEndian.Uint32(dib[4:8])))
	height := int64(int32(binary.LittleEndian.Uint32(dib[8:12])))
	bitCount := int64(binary.LittleEndian.Uint16(dib[14:16]))
	compression := binary.LittleEndian.Uint32(dib[16:20])

	if width <= 0 {
		return nil, errors.Wrap(ErrInvalidFormat, "bmp: non-positive width")
	}
	if height <= 0 {
		return nil, errors.Wrap(ErrInvalidFormat, "bmp: top-down layout not supported")
	}
	if compression != biRGB {
		return nil, errors.Wrap(ErrInvalidFormat, "bmp: compressed layout not supported")
	}
	if bitCount == 0 || bitCount%8 != 0 {
		return nil, errors.Wrap(ErrInvalidFormat, "bmp: unsupported bit depth")
	}

	rowData := width * bitCount / 8
	rowStride := ((width*bitCount + 31) / 32) * 4

	return &BMPCarrier{
		f:                f,
		pixelArrayOffset: pixelArrayOffset,
		rowStride:        rowStride,
		rowData:          rowData,
		height:           height,
	}, nil
}

func (self *BMPCarrier) SampleCount() int64 {
	return self.rowData * self.height
}

func (self *BMPCarrier) fileOffset(sampleIndex int64) int64 {
	row := sampleIndex / self.rowData
	col := sampleIndex % self.rowData
	return self.pixelArrayOffset + row*self.rowStride + col
}

// walk splits a [sampleOffset, sampleOffset+len(buf)) range into the
// contiguous on-disk runs it maps to (one run per row crossed), since row
// padding breaks the payload stream's contiguity on disk.
func (self *BMPCarrier) walk(buf []byte, sampleOffset int64, fn func(chunk []byte, fileOff int64) error) error {
	if err := rangeCheck(self.SampleCount(), sampleOffset, len(buf)); err != nil {
		return err
	}
	for len(buf) > 0 {
		col := sampleOffset % self.rowData
		runLen := self.rowData - col
		if runLen > int64(len(buf)) {
			runLen = int64(len(buf))
		}
		if err := fn(buf[:runLen], self.fileOffset(sampleOffset)); err != nil {
			return err
		}
		buf = buf[runLen:]
		sampleOffset += runLen
	}
	return nil
}

func (self *BMPCarrier) ReadAt(buf []byte, sampleOffset int64) error {
	return self.walk(buf, sampleOffset, func(chunk []byte, fileOff int64) error {
		_, err := self.f.ReadAt(chunk, fileOff)
		return errors.Wrap(err, "carrier: bmp read")
	})
}

func (self *BMPCarrier) WriteAt(buf []byte, sampleOffset int64) error {
	return self.walk(buf, sampleOffset, func(chunk []byte, fileOff int64) error {
		_, err := self.f.WriteAt(chunk, fileOff)
		return errors.Wrap(err, "carrier: bmp write")
	})
}

func (self *BMPCarrier) Sync() error  { return self.f.Sync() }
func (self *BMPCarrier) Close() error { return self.f.Close() }

// CreateBMP writes a fresh, zeroed, bottom-up 24-bit BMP of the given
// dimensions and returns a carrier over it. Used to synthesize test
// fixtures and by administrative tooling that needs a blank carrier to
// format.
func CreateBMP(path string, width, height int) (*BMPCarrier, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("carrier: bmp dimensions must be positive")
	}
	const bitCount = 24
	rowStride := ((int64(width)*bitCount + 31) / 32) * 4
	pixelArrayOffset := int64(bmpFileHeaderSize + bmpInfoHeaderSize)
	imageSize := rowStride * int64(height)
	fileSize := pixelArrayOffset + imageSize

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "carrier: create bmp")
	}

	hdr := make([]byte, pixelArrayOffset)
	hdr[0], hdr[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(hdr[2:6], uint32(fileSize))
	binary.LittleEndian.PutUint32(hdr[10:14], uint32(pixelArrayOffset))

	dib := hdr[bmpFileHeaderSize:]
	binary.LittleEndian.PutUint32(dib[0:4], bmpInfoHeaderSize)
	binary.LittleEndian.PutUint32(dib[4:8], uint32(width))
	binary.LittleEndian.PutUint32(dib[8:12], uint32(height))
	binary.LittleEndian.PutUint16(dib[12:14], 1)
	binary.LittleEndian.PutUint16(dib[14:16], bitCount)
	binary.LittleEndian.PutUint32(dib[20:24], uint32(imageSize))

	if _, err := f.Write(hdr); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "carrier: write bmp header")
	}
	if err := f.Truncate(fileSize); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "carrier: truncate bmp")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return newBMPCarrier(f)
}
