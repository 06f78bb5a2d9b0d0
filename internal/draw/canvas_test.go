package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestFillCircleStaysInsideRadius(t *testing.T) {
	c := NewScaledCanvas(40, 20, 40, 40)
	c.FillCircle(20, 20, 5, ColorRed)

	filled := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if c.At(x, y) == NoColor {
				continue
			}
			filled++
			dx := float64(x) + 0.5 - 20
			dy := float64(y) + 0.5 - 20
			if dx*dx+dy*dy > 25 {
				t.Fatalf("pixel (%d,%d) set outside radius", x, y)
			}
		}
	}
	if filled == 0 {
		t.Fatal("expected some pixels to be filled")
	}
	if c.At(20, 20) != ColorRed {
		t.Fatalf("center color = %d, want %d", c.At(20, 20), ColorRed)
	}
}

func TestFillShapeClipsToCanvas(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	// Mostly off-canvas; must not panic.
	c.FillCircle(-3, 12, 6, ColorLime)
	c.FillCircle(100, 100, 6, ColorLime)
}

func TestRenderEmitsHalfBlocksWithColors(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.setPixel(0, 0, ColorRed)
	c.setPixel(0, 1, ColorYellow)
	c.setPixel(1, 1, ColorCyan)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	if !strings.Contains(out, "\033[38;5;196m\033[48;5;226m▀") {
		t.Fatalf("expected two-color upper half block, got %q", out)
	}
	if !strings.Contains(out, "\033[1;2H\033[38;5;51m▄") {
		t.Fatalf("expected lower half block at column 2, got %q", out)
	}
}

func TestRenderSkipsEmptyCells(t *testing.T) {
	c := NewScaledCanvas(8, 4, 8, 8)
	var buf bytes.Buffer
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Fatalf("empty canvas rendered %d bytes", buf.Len())
	}
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	if err := cw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got, want := out.String(), "\033[3;4Hhi"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if cw.Len() != 0 {
		t.Fatalf("buffer not reset after flush")
	}
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(80, 20, 160, 80)
	col, row := c.LogicalToTerminal(80, 40)
	if col != 41 || row != 11 {
		t.Fatalf("LogicalToTerminal = (%d,%d), want (41,11)", col, row)
	}
}
