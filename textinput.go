package studyquiz

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxInputBytes caps the text accepted from files, uploads and stdin
const MaxInputBytes = 1 << 20

var (
	// ErrInvalidUTF8 is returned when input is not valid UTF-8 text
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
	// ErrInputTooLarge is returned when input exceeds MaxInputBytes
	ErrInputTooLarge = errors.New("input too large")
)

// ReadText reads a plain-text document as UTF-8, dropping a leading byte
// order mark
func ReadText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	if len(raw) > MaxInputBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrInputTooLarge, MaxInputBytes)
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}

	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(decoded), nil
}
