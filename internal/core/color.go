package core

// Color represents a foreground color for a screen cell.
// The platform layer maps it to a terminal style.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorGray
	ColorBrightGreen
	ColorBrightRed
)
