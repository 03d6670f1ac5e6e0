package ghostfs

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// maxNameLen is the longest filename storable in a DirEntry, matching
	// original_source/fs.c's FILENAME_MAXLEN.
	maxNameLen = 55

	direntSize = maxNameLen + 1 + 4 + 2 // name + NUL + size/flag + cluster

	// dirFlagBit marks a DirEntry's Size field as carrying a directory
	// rather than a regular file, packed into the top bit of the on-disk
	// 4-byte size field so a directory can never outgrow 2^31-1 bytes.
	dirFlagBit = uint32(1) << 31
)

// DirEntry is a single 62-byte directory slot: a NUL-padded filename, a
// combined size/directory-flag field, and the entry's starting cluster. A
// zero-length Name marks the slot empty.
type DirEntry struct {
	Name    string
	IsDir   bool
	Size    uint32
	Cluster uint16
}

func (e *DirEntry) empty() bool { return e.Name == "" }

func encodeDirEntry(e *DirEntry) ([]byte, error) {
	if len(e.Name) > maxNameLen {
		return nil, errors.Errorf("ghostfs: filename %q exceeds %d bytes", e.Name, maxNameLen)
	}
	if e.Size > 0x7fffffff {
		return nil, errors.Errorf("ghostfs: size %d exceeds maximum representable size", e.Size)
	}

	buf := make([]byte, direntSize)
	copy(buf[:maxNameLen+1], e.Name)

	sizeField := e.Size
	if e.IsDir {
		sizeField |= dirFlagBit
	}
	binary.LittleEndian.PutUint32(buf[maxNameLen+1:maxNameLen+5], sizeField)
	binary.LittleEndian.PutUint16(buf[maxNameLen+5:maxNameLen+7], e.Cluster)
	return buf, nil
}

func decodeDirEntry(buf []byte) *DirEntry {
	nameEnd := bytes.IndexByte(buf[:maxNameLen+1], 0)
	if nameEnd < 0 {
		nameEnd = maxNameLen + 1
	}
	sizeField := binary.LittleEndian.Uint32(buf[maxNameLen+1 : maxNameLen+5])
	return &DirEntry{
		Name:    string(buf[:nameEnd]),
		IsDir:   sizeField&dirFlagBit != 0,
		Size:    sizeField &^ dirFlagBit,
		Cluster: binary.LittleEndian.Uint16(buf[maxNameLen+5 : maxNameLen+7]),
	}
}
