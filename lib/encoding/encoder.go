// Package encoding serializes component props for the JavaScript engine and
// computes stable fingerprints of them.
package encoding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnsupportedValue is returned when a value cannot be serialized.
var ErrUnsupportedValue = errors.New("encoding: unsupported value")

// PropsJSON serializes props as a JSON literal that can be pasted into
// JavaScript source, including inside an inline <script> element. <, > and &
// are escaped, as are U+2028 and U+2029.
//
// Nil props encode as null.
func PropsJSON(props any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(props); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	// Encode terminates every value with a newline.
	return string(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})), nil
}

// Fingerprint returns a 64-bit digest of parts. Equal inputs give equal
// digests regardless of map iteration order.
func Fingerprint(parts ...any) (uint64, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.SetCustomStructTag("json")
	for _, part := range parts {
		if err := enc.Encode(part); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
	}
	return xxhash.Sum64(buf.Bytes()), nil
}
