// ABOUTME: Closest-format search over a fixed preference table
// ABOUTME: Drivers use it to pick the supported hardware format nearest a request
package audio

const numFormats = 6

// Each row starts with a format and lists the remaining formats from most
// to least similar: same width and signedness family first, then the same
// width with opposite signedness, then the other width.
var formatTable = [numFormats][numFormats]Format{
	{U8, S8, S16LSB, S16MSB, U16LSB, U16MSB},
	{S8, U8, S16LSB, S16MSB, U16LSB, U16MSB},
	{S16LSB, S16MSB, U16LSB, U16MSB, U8, S8},
	{S16MSB, S16LSB, U16MSB, U16LSB, U8, S8},
	{U16LSB, U16MSB, S16LSB, S16MSB, U8, S8},
	{U16MSB, U16LSB, S16MSB, S16LSB, U8, S8},
}

// FormatSearch walks the preference row of one format. The zero value
// walks the U8 row.
type FormatSearch struct {
	row int
	col int
}

// NewFormatSearch starts a search for formats close to f
func NewFormatSearch(f Format) *FormatSearch {
	row := 0
	for ; row < numFormats; row++ {
		if formatTable[row][0] == f {
			break
		}
	}
	if row == numFormats {
		return &FormatSearch{row: numFormats, col: numFormats}
	}
	return &FormatSearch{row: row}
}

// Next returns the next candidate, or false once the row is exhausted
func (s *FormatSearch) Next() (Format, bool) {
	if s.row >= numFormats || s.col >= numFormats {
		return 0, false
	}
	f := formatTable[s.row][s.col]
	s.col++
	return f, true
}

// FirstFormat starts a search and returns its first candidate along with
// the search to continue from. It returns 0 for an unrecognized format.
func FirstFormat(f Format) (Format, *FormatSearch) {
	s := NewFormatSearch(f)
	first, _ := s.Next()
	return first, s
}

// ClosestFormats returns the whole preference row for f, nil if f is unknown
func ClosestFormats(f Format) []Format {
	var out []Format
	s := NewFormatSearch(f)
	for next, ok := s.Next(); ok; next, ok = s.Next() {
		out = append(out, next)
	}
	return out
}

// Closest returns the first format from the preference row of want that
// supported accepts, or false when none does
func Closest(want Format, supported func(Format) bool) (Format, bool) {
	s := NewFormatSearch(want)
	for f, ok := s.Next(); ok; f, ok = s.Next() {
		if supported(f) {
			return f, true
		}
	}
	return 0, false
}
