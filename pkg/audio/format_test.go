// ABOUTME: Tests for Format tags
// ABOUTME: Verifies bit layout accessors and parsing
package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAccessors(t *testing.T) {
	assert.Equal(t, 8, U8.BitSize())
	assert.Equal(t, 2, S16MSB.BytesPerSample())
	assert.True(t, S8.Signed())
	assert.False(t, U16LSB.Signed())
	assert.True(t, U16MSB.BigEndian())
	assert.False(t, S16LSB.BigEndian())

	assert.Equal(t, S16LSB, U16LSB.WithSigned(true))
	assert.Equal(t, S16MSB, S16LSB.WithBigEndian(true))
	assert.Equal(t, S8, S16LSB.WithBitSize(8))
}

func TestFormatValid(t *testing.T) {
	for _, f := range []Format{U8, S8, U16LSB, S16LSB, U16MSB, S16MSB, U16Sys, S16Sys} {
		assert.True(t, f.Valid(), f.String())
	}
	assert.False(t, Format(0).Valid())
	assert.False(t, Format(0x8020).Valid())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" s16lsb ")
	require.NoError(t, err)
	assert.Equal(t, S16LSB, f)

	f, err = ParseFormat("S16SYS")
	require.NoError(t, err)
	assert.Equal(t, S16Sys, f)

	_, err = ParseFormat("f32")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "U8", U8.String())
	assert.Equal(t, "Format(0x8020)", Format(0x8020).String())
}
