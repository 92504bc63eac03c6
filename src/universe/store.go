package universe

import (
	"fmt"
	"iter"
	"slices"
)

/*
	Sparse cell store
	Only the live cells and the dead cells touching at least one live cell are kept.
	Every record carries the cached number of its live neighbors, the cache is maintained by SetAlive only.
*/
type Store struct {
	cells      map[Coord]*cell
	population int
	//ordered live cells, rebuilt lazily after any mutation
	live      []Coord
	liveValid bool
}

//NewStore creates an empty store
func NewStore() *Store {
	return &Store{cells: make(map[Coord]*cell)}
}

//State returns the liveness of the cell at c, absent cells are dead
func (s *Store) State(c Coord) bool {
	rec, ok := s.cells[c]
	return ok && rec.alive
}

//NeighborCount returns the cached live neighbors count at c, 0 for an absent cell
func (s *Store) NeighborCount(c Coord) uint8 {
	if rec, ok := s.cells[c]; ok {
		return rec.neighbors
	}
	return 0
}

//Cell returns the record at c and whether c is tracked
func (s *Store) Cell(c Coord) (CellState, bool) {
	rec, ok := s.cells[c]
	if !ok {
		return CellState{}, false
	}
	return CellState{Alive: rec.alive, Neighbors: rec.neighbors}, true
}

//Len returns the number of tracked cells (live cells and their dead neighbors)
func (s *Store) Len() int {
	return len(s.cells)
}

//Population returns the number of live cells
func (s *Store) Population() int {
	return s.population
}

//SetAlive sets the liveness of the cell at c and updates the cached counts of its 8 neighbors
//the delta is applied to whatever neighbor record exists, a missing neighbor is created with count 0 first
//c and the touched neighbors are pruned when they end up dead without live neighbors
func (s *Store) SetAlive(c Coord, alive bool) {
	rec, ok := s.cells[c]
	if !ok {
		if !alive {
			return
		}
		rec = &cell{}
		s.cells[c] = rec
	}
	if rec.alive == alive {
		return
	}
	rec.alive = alive
	s.liveValid = false

	if alive {
		s.population++
		for _, n := range c.Neighbors() {
			nr, ok := s.cells[n]
			if !ok {
				nr = &cell{}
				s.cells[n] = nr
			}
			nr.neighbors++
		}
		return
	}

	s.population--
	for _, n := range c.Neighbors() {
		nr, ok := s.cells[n]
		if !ok || nr.neighbors == 0 {
			panic(fmt.Sprintf("universe: neighbor %v of live cell %v has no count to release", n, c))
		}
		nr.neighbors--
		if !nr.alive && nr.neighbors == 0 {
			delete(s.cells, n)
		}
	}
	if rec.neighbors == 0 {
		delete(s.cells, c)
	}
}

//Toggle flips the cell at c and returns its new state
func (s *Store) Toggle(c Coord) bool {
	alive := !s.State(c)
	s.SetAlive(c, alive)
	return alive
}

//Settle marks all the coordinates alive
func (s *Store) Settle(cs []Coord) {
	for _, c := range cs {
		s.SetAlive(c, true)
	}
}

//Clear removes all the cells
func (s *Store) Clear() {
	clear(s.cells)
	s.population = 0
	s.live = nil
	s.liveValid = false
}

//LiveCoordinates returns the sequence of live cells ordered by row, then by column
//the sequence is restartable and yields the same order until the store is mutated
func (s *Store) LiveCoordinates() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for _, c := range s.liveSnapshot() {
			if !yield(c) {
				return
			}
		}
	}
}

//Tracked returns the sequence of all tracked cells in no particular order
func (s *Store) Tracked() iter.Seq2[Coord, CellState] {
	return func(yield func(Coord, CellState) bool) {
		for c, rec := range s.cells {
			if !yield(c, CellState{Alive: rec.alive, Neighbors: rec.neighbors}) {
				return
			}
		}
	}
}

//LiveWithin returns the live cells inside r in row, column order
func (s *Store) LiveWithin(r Rect) []Coord {
	var res []Coord
	if r.Empty() {
		return res
	}
	//walk the smaller of the window and the live set
	if areaBelow(r, s.population) {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				if c := (Coord{x, y}); s.State(c) {
					res = append(res, c)
				}
			}
		}
		return res
	}
	for c := range s.LiveCoordinates() {
		if r.Contains(c) {
			res = append(res, c)
		}
	}
	return res
}

//areaBelow reports whether r covers fewer than n cells
//the sides wrap to non-positive values for rectangles spanning most of the int range
func areaBelow(r Rect, n int) bool {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 || n <= 0 {
		return false
	}
	return w < n && h <= (n-1)/w
}

//Bounds returns the bounding box of the live cells, ok is false for an empty store
func (s *Store) Bounds() (r Rect, ok bool) {
	for c := range s.LiveCoordinates() {
		if !ok {
			r = Rect{Min: c, Max: c}
			ok = true
			continue
		}
		r.Min.X = min(r.Min.X, c.X)
		r.Max.X = max(r.Max.X, c.X)
		r.Min.Y = min(r.Min.Y, c.Y)
		r.Max.Y = max(r.Max.Y, c.Y)
	}
	return
}

//Clone returns an independent copy of the store
func (s *Store) Clone() *Store {
	cp := &Store{cells: make(map[Coord]*cell, len(s.cells)), population: s.population}
	for c, rec := range s.cells {
		r := *rec
		cp.cells[c] = &r
	}
	return cp
}

func (s *Store) liveSnapshot() []Coord {
	if s.liveValid {
		return s.live
	}
	live := make([]Coord, 0, s.population)
	for c, rec := range s.cells {
		if rec.alive {
			live = append(live, c)
		}
	}
	slices.SortFunc(live, func(a, b Coord) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	s.live = live
	s.liveValid = true
	return s.live
}
