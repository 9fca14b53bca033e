package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestCanvasSize(t *testing.T) {
	c := NewCanvas(80, 24)
	w, h := c.Size()
	if w != 800 || h != 480 {
		t.Errorf("Expected 800x480, got %vx%v", w, h)
	}
}

func TestCanvasFillAndFade(t *testing.T) {
	c := NewCanvas(10, 10)
	gold := MustParseHex("#FFD700")

	c.FillCircle(15, 25, 2, gold)
	cell, ok := c.At(1, 1)
	if !ok || !cell.Lit {
		t.Fatal("Expected cell (1,1) to be lit")
	}
	if cell.Color != gold {
		t.Errorf("Expected %v, got %v", gold, cell.Color)
	}

	// Repeated fades must eventually clear the cell
	for i := 0; i < 50; i++ {
		c.Fade(0.2)
	}
	if c.LitCount() != 0 {
		t.Errorf("Expected all cells cleared, %d still lit", c.LitCount())
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(4, 4)
	c.FillCircle(-2000, -2000, 1, RGBNeutral)
	c.FillCircle(1e9, 10, 1, RGBNeutral)
	if c.LitCount() != 0 {
		t.Errorf("Expected nothing painted, got %d", c.LitCount())
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"#FF4500", RGB{0xFF, 0x45, 0x00}, true},
		{"00BFFF", RGB{0x00, 0xBF, 0xFF}, true},
		{"#FFF", RGB{}, false},
		{"#GGGGGG", RGB{}, false},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseHex(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseHex(%q): expected %v, got %v", tt.in, tt.want, got)
		}
		if tt.ok && got.Hex() != "#"+stripHash(tt.in) {
			t.Errorf("Hex round trip for %q gave %q", tt.in, got.Hex())
		}
	}
}

func stripHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

func TestTerminalSurfacePresent(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 6)

	ts := NewTerminalSurface(screen)
	w, h := ts.Size()
	if w != 200 || h != 100 {
		t.Fatalf("Expected 200x100 raster (status row reserved), got %vx%v", w, h)
	}

	ts.FillCircle(55, 45, 3, MustParseHex("#00FFFF"))
	ts.SetStatus("Online", RGBNeutral)
	ts.Present()

	r, _, style, _ := screen.GetContent(5, 2)
	if r != '●' {
		t.Errorf("Expected particle glyph at (5,2), got %q", r)
	}
	fg, _, _ := style.Decompose()
	if want := RGBToTcell(MustParseHex("#00FFFF")); fg != want {
		t.Errorf("Expected cyan foreground, got %v", fg)
	}
	r, _, _, _ = screen.GetContent(2, 5)
	if r != 'O' {
		t.Errorf("Expected status text at bottom row, got %q", r)
	}
}
