package analysis

import (
	"sort"
	"unicode/utf16"
)

// document converts UTF-16 offsets into a text to line and character positions. \r\n, \r, and \n all end a line.
type document struct {
	text        string
	units       []uint16
	lineOffsets []int
}

func newDocument(text string) *document {
	units := utf16.Encode([]rune(text))
	lineOffsets := []int{0}
	for i := 0; i < len(units); i++ {
		switch units[i] {
		case '\r':
			if i+1 < len(units) && units[i+1] == '\n' {
				i++
			}
			lineOffsets = append(lineOffsets, i+1)
		case '\n':
			lineOffsets = append(lineOffsets, i+1)
		}
	}
	return &document{
		text:        text,
		units:       units,
		lineOffsets: lineOffsets,
	}
}

// len returns the length of the text in UTF-16 code units.
func (d *document) len() int {
	return len(d.units)
}

// positionAt returns the position of a UTF-16 offset. Offsets outside the text are clamped to it and offsets between the
// characters of a line break are moved to before the line break.
func (d *document) positionAt(offset int) Position {
	offset = max(0, min(offset, len(d.units)))
	line := sort.Search(len(d.lineOffsets), func(i int) bool {
		return d.lineOffsets[i] > offset
	}) - 1
	lineOffset := d.lineOffsets[line]
	for offset > lineOffset && isEOL(d.units[offset-1]) {
		offset--
	}
	return Position{Line: line, Character: offset - lineOffset}
}

func isEOL(u uint16) bool {
	return u == '\r' || u == '\n'
}
