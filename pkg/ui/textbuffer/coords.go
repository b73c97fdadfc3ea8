package textbuffer

// coordMapper converts between viewport rows and buffer line indices.
//
// In normal mode the buffer holds every line and row r shows line
// offset+r. In virtual mode the buffer holds only the window currently on
// screen, already positioned by the host, so row r shows buffer line r and
// the offset only matters for translating back to scroll space.
type coordMapper struct {
	direct bool
	offset int
}

func offsetMapper(offset int) coordMapper { return coordMapper{offset: offset} }

func directMapper(offset int) coordMapper { return coordMapper{direct: true, offset: offset} }

// lineAtRow returns the buffer line index drawn at viewport row.
func (m coordMapper) lineAtRow(row int) int {
	if m.direct {
		return row
	}
	return m.offset + row
}

// rowOfLine returns the viewport row of a buffer line; it may be off screen.
func (m coordMapper) rowOfLine(line int) int {
	if m.direct {
		return line
	}
	return line - m.offset
}

// scrollLine returns the position of a buffer line in scroll space.
func (m coordMapper) scrollLine(line int) int {
	if m.direct {
		return m.offset + line
	}
	return line
}
