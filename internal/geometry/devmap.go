package geometry

// DevBounds is the 8x8 board used when no configuration overrides it.
func DevBounds() GridBounds {
	return GridBounds{Rows: 8, Cols: 8}
}

// DevLayout matches the 40px cells of the browser board.
func DevLayout() Layout {
	return Layout{Size: 40}
}
