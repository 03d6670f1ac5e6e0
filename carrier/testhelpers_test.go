package carrier

import (
	"encoding/binary"
	"os"
	"testing"
)

func openForPatch(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}

func patchInt32LE(t *testing.T, f *os.File, offset int64, v int32) {
	t.Helper()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	if _, err := f.WriteAt(buf, offset); err != nil {
		t.Fatal(err)
	}
}
