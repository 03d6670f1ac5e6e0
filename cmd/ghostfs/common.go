package main

import (
	"fmt"

	"github.com/fingon/ghostfs"
)

func openImage(path string) (*ghostfs.FS, error) {
	switch ext := carrierExt(path); ext {
	case ".bmp":
		return ghostfs.OpenBMPImage(path)
	case ".wav":
		return ghostfs.OpenWAVImage(path)
	default:
		return nil, fmt.Errorf("unrecognized carrier extension %q (expected .bmp or .wav)", ext)
	}
}

func carrierExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
