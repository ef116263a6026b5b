package source

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the source boundary:
// 1. Strips a UTF-8 byte order mark if present.
// 2. Applies Unicode NFC normalization.
//
// This ensures that lexically equivalent source text produces identical
// token streams regardless of the encoding a file was saved with, e.g.
// "café" in NFC vs NFD tokenizes the same way.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
