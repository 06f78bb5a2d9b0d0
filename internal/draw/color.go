// Package draw renders the play field to ANSI terminals.
package draw

import (
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is an index into the xterm 256-color palette.
// The zero value marks an empty pixel, so palette entry 0 (black) is never drawn.
type Color uint8

// NoColor marks an unset canvas pixel.
const NoColor Color = 0

// Palette entries used by the game.
const (
	ColorRed       Color = 196
	ColorOrange    Color = 208
	ColorAmber     Color = 214
	ColorYellow    Color = 226
	ColorLeaf      Color = 34
	ColorLime      Color = 118
	ColorCyan      Color = 51
	ColorSteel     Color = 240
	ColorSpark     Color = 202
	ColorWhite     Color = 231
	ColorSoftWhite Color = 252
)

// ColorReset resets all SGR attributes.
const ColorReset = "\033[0m"

// Colorize wraps s in a foreground color sequence followed by a reset.
func Colorize(s string, col Color) string {
	if col == NoColor {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	b.WriteString("\033[38;5;")
	b.WriteString(strconv.Itoa(int(col)))
	b.WriteByte('m')
	b.WriteString(s)
	b.WriteString(ColorReset)
	return b.String()
}
