package geometry

// Hex addresses a cell in axial form. The third cube coordinate s is
// implicit: s = -q - r.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Point is a pixel position produced by a Layout.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset addresses a cell by rectangular column/row (odd-row skew).
type Offset struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// GridBounds is the rectangular board a match is played on.
type GridBounds struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Layout projects hexes to pixels for pointy-top cells of the given size
// (center to corner).
type Layout struct {
	Size float64
}
