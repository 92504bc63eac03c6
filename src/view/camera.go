package view

import (
	"strings"

	"sparselife/src/universe"
)

//Camera is the visible window into the plane and the edit cursor
//the window is centered on Center, y grows upward
type Camera struct {
	Center universe.Coord
	Cursor universe.Coord
}

//fillers are the strings used to draw the cells
type fillers struct {
	live       string
	dead       string
	origin     string
	grid       string
	cursorLive string
	cursorDead string
}

//gridStep is the distance between the grid marks drawn on the empty plane
const gridStep = 8

var origin = universe.Coord{}

//Window returns the coordinates covered by a view of w columns and h rows
func (c *Camera) Window(w int, h int) universe.Rect {
	minX := c.Center.X - w/2
	maxY := c.Center.Y + h/2
	return universe.Rect{
		Min: universe.Coord{X: minX, Y: maxY - h + 1},
		Max: universe.Coord{X: minX + w - 1, Y: maxY},
	}
}

//CellAt returns the coordinate displayed at column col and row row of a w x h view
func (c *Camera) CellAt(col int, row int, w int, h int) universe.Coord {
	r := c.Window(w, h)
	return universe.Coord{X: r.Min.X + col, Y: r.Max.Y - row}
}

//Pan moves the window
func (c *Camera) Pan(dx int, dy int) {
	c.Center = c.Center.Add(dx, dy)
}

//MoveCursor moves the edit cursor
func (c *Camera) MoveCursor(dx int, dy int) {
	c.Cursor = c.Cursor.Add(dx, dy)
}

//CenterCursor puts the cursor in the middle of the window
func (c *Camera) CenterCursor() {
	c.Cursor = c.Center
}

//Origin moves the window back to (0, 0)
func (c *Camera) Origin() {
	c.Center = universe.Coord{}
}

//render draws the w x h window, live holds the live cells inside the window
func (c *Camera) render(live []universe.Coord, w int, h int, f fillers) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	r := c.Window(w, h)
	alive := make(map[universe.Coord]bool, len(live))
	for _, lc := range live {
		alive[lc] = true
	}
	var b strings.Builder
	for row := 0; row < h; row++ {
		if row != 0 {
			b.WriteByte('\n')
		}
		y := r.Max.Y - row
		for x := r.Min.X; x <= r.Max.X; x++ {
			p := universe.Coord{X: x, Y: y}
			switch {
			case p == c.Cursor && alive[p]:
				b.WriteString(f.cursorLive)
			case p == c.Cursor:
				b.WriteString(f.cursorDead)
			case alive[p]:
				b.WriteString(f.live)
			case p == origin:
				b.WriteString(f.origin)
			case x%gridStep == 0 && y%gridStep == 0:
				b.WriteString(f.grid)
			default:
				b.WriteString(f.dead)
			}
		}
	}
	return b.String()
}
