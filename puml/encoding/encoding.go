// Package encoding implements the text encoding used in PlantUML server URLs.
//
// Diagram source is compressed with raw DEFLATE and the result is written with a 64 character alphabet which is safe to
// use in a URL path: 0-9, A-Z, a-z, -, and _.
package encoding

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// The zero valued character '0' is part of the alphabet so it can't be used as the padding character. Groups are
// zero-filled by hand instead.
var urlEncoding = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding)

// Encode returns the encoding of text which a PlantUML server accepts in place of the diagram source.
func Encode(text string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("encoding text: %s", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return "", fmt.Errorf("encoding text: compressing: %s", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("encoding text: compressing: %s", err)
	}
	return encode6bit(buf.Bytes()), nil
}

// encode6bit writes every three bytes of data as four characters of the alphabet. A final group of one or two bytes is
// treated as though it was followed by zero bytes, so the result always has a length which is a multiple of four.
func encode6bit(data []byte) string {
	s := urlEncoding.EncodeToString(data)
	if r := len(s) % 4; r != 0 {
		s += strings.Repeat(alphabet[:1], 4-r)
	}
	return s
}

// Decode returns the text which was encoded by [Encode].
func Decode(s string) (string, error) {
	if len(s)%4 != 0 {
		return "", fmt.Errorf("decoding %q: length must be a multiple of 4", s)
	}
	compressed, err := urlEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decoding %q: %s", s, err)
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decoding %q: decompressing: %s", s, err)
	}
	return string(text), nil
}
