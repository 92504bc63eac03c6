package universe

//Coord is the position of a cell on the unbounded plane
type Coord struct {
	X int
	Y int
}

//CellState is the read-only view of a tracked cell
type CellState struct {
	Alive     bool
	Neighbors uint8
}

//Rect is an inclusive rectangle of coordinates, used for the visible window and the live cells bounds
type Rect struct {
	Min Coord
	Max Coord
}

//cell is the store record: the liveness flag and the cached count of live neighbors
type cell struct {
	alive     bool
	neighbors uint8
}

var mooreOffsets = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

//Add returns the coordinate shifted by dx, dy
func (c Coord) Add(dx int, dy int) Coord {
	return Coord{c.X + dx, c.Y + dy}
}

//Neighbors returns the Moore neighborhood of the coordinate
func (c Coord) Neighbors() (n [8]Coord) {
	for i, o := range mooreOffsets {
		n[i] = c.Add(o.X, o.Y)
	}
	return
}

//less orders coordinates by row, then by column
func (c Coord) less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

//Contains reports whether c lies inside the rectangle
func (r Rect) Contains(c Coord) bool {
	return c.X >= r.Min.X && c.X <= r.Max.X && c.Y >= r.Min.Y && c.Y <= r.Max.Y
}

//Width returns the number of columns covered by the rectangle
func (r Rect) Width() int {
	return r.Max.X - r.Min.X + 1
}

//Height returns the number of rows covered by the rectangle
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y + 1
}

//Empty reports whether the rectangle covers no cells
func (r Rect) Empty() bool {
	return r.Max.X < r.Min.X || r.Max.Y < r.Min.Y
}
