package studyquiz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadText(t *testing.T) {
	got, err := ReadText(strings.NewReader("Plain text, naïve café."))
	require.NoError(t, err)
	assert.Equal(t, "Plain text, naïve café.", got)
}

func TestReadText_StripsBOM(t *testing.T) {
	got, err := ReadText(bytes.NewReader([]byte("\xef\xbb\xbfHello there")))
	require.NoError(t, err)
	assert.Equal(t, "Hello there", got)
}

func TestReadText_InvalidUTF8(t *testing.T) {
	_, err := ReadText(bytes.NewReader([]byte{'o', 'k', 0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestReadText_TooLarge(t *testing.T) {
	_, err := ReadText(strings.NewReader(strings.Repeat("a", MaxInputBytes+1)))
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := ReadText(strings.NewReader(strings.Repeat("a", MaxInputBytes)))
	require.NoError(t, err)
	assert.Len(t, got, MaxInputBytes)
}
