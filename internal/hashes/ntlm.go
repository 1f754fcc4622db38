package hashes

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var utf16leEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// utf16le converts a UTF-8 password to the UTF-16LE bytes NTLM hashes.
// Invalid UTF-8 is widened byte by byte (Latin-1).
func utf16le(b []byte) []byte {
	return encodeUTF16LE(utf16leEncoding.NewEncoder(), b)
}

func encodeUTF16LE(enc *encoding.Encoder, b []byte) []byte {
	if utf8.Valid(b) {
		if out, err := enc.Bytes(b); err == nil {
			return out
		}
	}
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = c
	}
	return out
}
