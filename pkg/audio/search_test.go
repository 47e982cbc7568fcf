// ABOUTME: Tests for closest-format search
// ABOUTME: Verifies ordering, termination and unknown-format behaviour
package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSearchYieldsFullRow(t *testing.T) {
	for _, f := range []Format{U8, S8, U16LSB, S16LSB, U16MSB, S16MSB} {
		t.Run(f.String(), func(t *testing.T) {
			first, search := FirstFormat(f)
			require.Equal(t, f, first)

			seen := map[Format]bool{first: true}
			count := 1
			for next, ok := search.Next(); ok; next, ok = search.Next() {
				assert.False(t, seen[next], "format %v repeated", next)
				seen[next] = true
				count++
			}
			assert.Equal(t, numFormats, count)

			_, ok := search.Next()
			assert.False(t, ok, "search must stay exhausted")
		})
	}
}

func TestFormatSearchPreference(t *testing.T) {
	assert.Equal(t, []Format{S16LSB, S16MSB, U16LSB, U16MSB, U8, S8}, ClosestFormats(S16LSB))
	assert.Equal(t, []Format{U8, S8, S16LSB, S16MSB, U16LSB, U16MSB}, ClosestFormats(U8))
}

func TestFormatSearchUnknown(t *testing.T) {
	first, search := FirstFormat(Format(0x8020))
	assert.Equal(t, Format(0), first)
	_, ok := search.Next()
	assert.False(t, ok)
	assert.Nil(t, ClosestFormats(Format(0x8020)))

	var zero FormatSearch
	f, ok := zero.Next()
	assert.True(t, ok, "zero value starts at the first row")
	assert.Equal(t, U8, f)
}

func TestClosest(t *testing.T) {
	onlyS16 := func(f Format) bool { return f == S16LSB }

	f, ok := Closest(U8, onlyS16)
	require.True(t, ok)
	assert.Equal(t, S16LSB, f)

	_, ok = Closest(U8, func(Format) bool { return false })
	assert.False(t, ok)
}
