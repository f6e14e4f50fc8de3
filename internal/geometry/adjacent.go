package geometry

// NeighborDirections are the six axial steps, in flood-fill order.
var NeighborDirections = [6]Hex{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hexes of h.
func Neighbors(h Hex) [6]Hex {
	var out [6]Hex
	for i, d := range NeighborDirections {
		out[i] = h.Add(d)
	}
	return out
}

// IsAdjacent reports whether a and b share an edge.
func IsAdjacent(a, b Hex) bool {
	return Distance(a, b) == 1
}
