package universe

/*
	Generation stepper
	The next state of every tracked cell is decided from a snapshot taken before any mutation,
	then all the changes are applied through Store.SetAlive in any order.
	Cells which keep their state are not touched.
*/

//StepResult describes the outcome of one generation
type StepResult struct {
	Births     int
	Deaths     int
	Population int
}

//Changed reports whether the generation changed any cell
func (r StepResult) Changed() bool {
	return r.Births+r.Deaths > 0
}

//Stepper advances a store by one generation
//it keeps the snapshot buffers between the calls to avoid allocating them on each step
type Stepper struct {
	snapshot []trackedCell
	births   []Coord
	deaths   []Coord
}

type trackedCell struct {
	c Coord
	cell
}

//NextState applies Conway's rules: a live cell survives with 2 or 3 live neighbors, a dead cell is born with 3
func NextState(alive bool, neighbors uint8) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

//Step advances s by one generation using a throwaway Stepper
func Step(s *Store) StepResult {
	var st Stepper
	return st.Step(s)
}

//Step advances s by one generation
func (st *Stepper) Step(s *Store) StepResult {
	st.snapshot = st.snapshot[:0]
	for c, rec := range s.cells {
		st.snapshot = append(st.snapshot, trackedCell{c, *rec})
	}

	st.births = st.births[:0]
	st.deaths = st.deaths[:0]
	for _, tc := range st.snapshot {
		next := NextState(tc.alive, tc.neighbors)
		switch {
		case next && !tc.alive:
			st.births = append(st.births, tc.c)
		case !next && tc.alive:
			st.deaths = append(st.deaths, tc.c)
		}
	}

	for _, c := range st.births {
		s.SetAlive(c, true)
	}
	for _, c := range st.deaths {
		s.SetAlive(c, false)
	}
	return StepResult{Births: len(st.births), Deaths: len(st.deaths), Population: s.Population()}
}
