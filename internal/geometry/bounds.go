package geometry

// OffsetToAxial converts odd-row offset coordinates to axial.
func OffsetToAxial(o Offset) Hex {
	return Hex{Q: o.Col - (o.Row-(o.Row&1))/2, R: o.Row}
}

// AxialToOffset converts axial coordinates to odd-row offset.
func AxialToOffset(h Hex) Offset {
	return Offset{Col: h.Q + (h.R-(h.R&1))/2, Row: h.R}
}

// Contains reports whether h lies on the board.
func (b GridBounds) Contains(h Hex) bool {
	o := AxialToOffset(h)
	return o.Col >= 0 && o.Col < b.Cols && o.Row >= 0 && o.Row < b.Rows
}

// Size is the number of cells on the board.
func (b GridBounds) Size() int {
	if b.Rows <= 0 || b.Cols <= 0 {
		return 0
	}
	return b.Rows * b.Cols
}

// Hexes lists every cell row by row, left to right.
func (b GridBounds) Hexes() []Hex {
	out := make([]Hex, 0, b.Size())
	for row := range b.Rows {
		for col := range b.Cols {
			out = append(out, OffsetToAxial(Offset{Col: col, Row: row}))
		}
	}
	return out
}
