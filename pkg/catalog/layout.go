package catalog

// LayoutPattern is the repeating tile pattern of the store overview grid.
// Category i (by rank) gets LayoutPattern[i%len(LayoutPattern)].
var LayoutPattern = [...]LayoutSlot{
	{Cols: 2, Rows: 2},
	{Cols: 2, Rows: 1},
	{Cols: 1, Rows: 2},
	{Cols: 1, Rows: 1},
}

// SlotFor returns the layout slot for the category at rank i.
func SlotFor(i int) LayoutSlot {
	return LayoutPattern[i%len(LayoutPattern)]
}
