package view

import (
	"strings"
	"testing"

	"sparselife/src/universe"
)

var plainFillers = fillers{live: "#", dead: ".", origin: "o", grid: "+", cursorLive: "@", cursorDead: "_"}

func TestCameraWindow(t *testing.T) {
	c := Camera{}
	r := c.Window(5, 3)
	expected := universe.Rect{Min: universe.Coord{X: -2, Y: -1}, Max: universe.Coord{X: 2, Y: 1}}
	if r != expected {
		t.Fatalf("window %v, expected %v", r, expected)
	}
	if r.Width() != 5 || r.Height() != 3 {
		t.Fatalf("window size %dx%d", r.Width(), r.Height())
	}
	if got := c.CellAt(0, 0, 5, 3); got != (universe.Coord{X: -2, Y: 1}) {
		t.Fatalf("top left cell %v", got)
	}
	if got := c.CellAt(4, 2, 5, 3); got != (universe.Coord{X: 2, Y: -1}) {
		t.Fatalf("bottom right cell %v", got)
	}

	c.Pan(10, -4)
	if got := c.CellAt(2, 1, 5, 3); got != (universe.Coord{X: 10, Y: -4}) {
		t.Fatalf("center cell after pan %v", got)
	}
	c.CenterCursor()
	if c.Cursor != c.Center {
		t.Fatalf("cursor %v, center %v", c.Cursor, c.Center)
	}
	c.Origin()
	if c.Center != (universe.Coord{}) {
		t.Fatalf("center %v after origin", c.Center)
	}
}

func TestCameraRender(t *testing.T) {
	c := Camera{Cursor: universe.Coord{X: 1, Y: 1}}
	//vertical blinker through the origin
	live := []universe.Coord{{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	got := c.render(live, 5, 3, plainFillers)
	expected := strings.Join([]string{
		"..#@.",
		"..#..",
		"..#..",
	}, "\n")
	if got != expected {
		t.Fatalf("render:\n%s\nexpected:\n%s", got, expected)
	}

	c.MoveCursor(-10, 0)
	got = c.render(nil, 3, 1, plainFillers)
	if got != ".o." {
		t.Fatalf("empty render %q", got)
	}
	if c.render(nil, 0, 3, plainFillers) != "" {
		t.Fatal("zero sized view must render nothing")
	}
}

func TestCameraRenderGrid(t *testing.T) {
	c := Camera{Center: universe.Coord{X: 8, Y: 0}, Cursor: universe.Coord{X: 100, Y: 100}}
	if got := c.render(nil, 3, 1, plainFillers); got != ".+." {
		t.Fatalf("grid render %q", got)
	}
}
