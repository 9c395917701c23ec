// Package sniff classifies binary buffers by their leading magic bytes.
package sniff

import "bytes"

// MimeType is the detected content type, or empty when the buffer is not a
// recognized image.
type MimeType string

const (
	PNG  MimeType = "image/png"
	JPEG MimeType = "image/jpeg"
)

var (
	pngMagic   = []byte{0x89, 0x50, 0x4e, 0x47}
	jpegMagic0 = []byte{0xff, 0xd8, 0xff, 0xe0}
	jpegMagic1 = []byte{0xff, 0xd8, 0xff, 0xe1}
)

// Classify inspects the first four bytes of buf. Buffers shorter than four
// bytes and unrecognized prefixes both return the empty MimeType; callers
// treat that as "no image", not as an error.
func Classify(buf []byte) MimeType {
	if len(buf) < 4 {
		return ""
	}
	prefix := buf[:4]
	switch {
	case bytes.Equal(prefix, pngMagic):
		return PNG
	case bytes.Equal(prefix, jpegMagic0), bytes.Equal(prefix, jpegMagic1):
		return JPEG
	}
	return ""
}

// IsImage reports whether buf carries a recognized image magic number.
func IsImage(buf []byte) bool {
	return Classify(buf) != ""
}
