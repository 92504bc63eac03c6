package universe

import (
	"math/rand/v2"
	"slices"
	"testing"
)

var moorePositions = []Coord{{0, 1}, {1, 0}, {1, 1}, {0, -1}, {-1, 0}, {-1, -1}, {-1, 1}, {1, -1}}

//bruteForceStep computes the next generation from the live cells only
func bruteForceStep(live []Coord) []Coord {
	alive := map[Coord]bool{}
	counts := map[Coord]int{}
	for _, c := range live {
		alive[c] = true
		for _, n := range c.Neighbors() {
			counts[n]++
		}
	}
	var next []Coord
	for c, n := range counts {
		if n == 3 || (n == 2 && alive[c]) {
			next = append(next, c)
		}
	}
	return next
}

func sortedCoords(cs []Coord) []Coord {
	res := slices.Clone(cs)
	slices.SortFunc(res, func(a, b Coord) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	return res
}

func expectLive(t *testing.T, s *Store, expected []Coord) {
	t.Helper()
	got := slices.Collect(s.LiveCoordinates())
	if !slices.Equal(got, sortedCoords(expected)) {
		t.Fatalf("live cells %v, expected %v", got, sortedCoords(expected))
	}
}

func TestNextState(t *testing.T) {
	for n := uint8(0); n <= 8; n++ {
		if got := NextState(true, n); got != (n == 2 || n == 3) {
			t.Errorf("live cell with %d neighbors: %v", n, got)
		}
		if got := NextState(false, n); got != (n == 3) {
			t.Errorf("dead cell with %d neighbors: %v", n, got)
		}
	}
}

func TestBlockStillLife(t *testing.T) {
	block := []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	s := storeOf(block...)
	before := s.Clone()
	res := Step(s)
	checkInvariants(t, s)
	if res.Changed() {
		t.Fatalf("block changed: %+v", res)
	}
	if !storesEqual(s, before) {
		t.Fatal("block store changed after step")
	}
}

func TestBlinkerOscillation(t *testing.T) {
	horizontal := []Coord{{-1, 0}, {0, 0}, {1, 0}}
	vertical := []Coord{{0, -1}, {0, 0}, {0, 1}}
	s := storeOf(horizontal...)

	res := Step(s)
	checkInvariants(t, s)
	expectLive(t, s, vertical)
	if res.Births != 2 || res.Deaths != 2 || res.Population != 3 {
		t.Fatalf("unexpected result %+v", res)
	}

	Step(s)
	checkInvariants(t, s)
	expectLive(t, s, horizontal)
}

func TestIsolatedCellDies(t *testing.T) {
	s := storeOf(Coord{4, -4})
	res := Step(s)
	if s.Len() != 0 || res.Population != 0 || res.Deaths != 1 {
		t.Fatalf("isolated cell left %d tracked cells, result %+v", s.Len(), res)
	}
}

func TestLiveCellWithNNeighbors(t *testing.T) {
	for n := 0; n <= 8; n++ {
		s := storeOf(Coord{0, 0})
		s.Settle(moorePositions[:n])
		Step(s)
		checkInvariants(t, s)
		if got, expected := s.State(Coord{0, 0}), n == 2 || n == 3; got != expected {
			t.Errorf("live cell with %d neighbors: alive=%v, expected %v", n, got, expected)
		}
	}
}

func TestDeadCellWithNNeighbors(t *testing.T) {
	for n := 0; n <= 8; n++ {
		s := storeOf(moorePositions[:n]...)
		Step(s)
		checkInvariants(t, s)
		st, tracked := s.Cell(Coord{0, 0})
		switch {
		case n == 3 && !st.Alive:
			t.Errorf("dead cell with 3 neighbors must be born")
		case n != 3 && st.Alive:
			t.Errorf("dead cell with %d neighbors must stay dead", n)
		case n == 0 && tracked:
			t.Errorf("cell without neighbors must not be tracked")
		}
	}
}

func TestGliderTranslates(t *testing.T) {
	glider := []Coord{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 2}}
	s := storeOf(glider...)
	for i := 0; i < 4; i++ {
		Step(s)
		checkInvariants(t, s)
	}
	moved := make([]Coord, len(glider))
	for i, c := range glider {
		moved[i] = c.Add(1, -1)
	}
	expectLive(t, s, moved)
}

func TestStepMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	var st Stepper
	for round := 0; round < 5; round++ {
		s := NewStore()
		for i := 0; i < 300; i++ {
			s.SetAlive(Coord{rng.IntN(30) - 15, rng.IntN(30) - 15}, true)
		}
		for gen := 0; gen < 20; gen++ {
			expected := bruteForceStep(slices.Collect(s.LiveCoordinates()))
			res := st.Step(s)
			checkInvariants(t, s)
			expectLive(t, s, expected)
			if res.Population != len(expected) {
				t.Fatalf("round %d gen %d: population %d, expected %d", round, gen, res.Population, len(expected))
			}
		}
	}
}

//TestStepApplyOrderIndependence applies the decided changes in shuffled orders and compares with Step
func TestStepApplyOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 0))
	s := NewStore()
	for i := 0; i < 120; i++ {
		s.SetAlive(Coord{rng.IntN(14) - 7, rng.IntN(14) - 7}, true)
	}
	type change struct {
		c     Coord
		alive bool
	}
	var changes []change
	for c, cs := range s.Tracked() {
		if next := NextState(cs.Alive, cs.Neighbors); next != cs.Alive {
			changes = append(changes, change{c, next})
		}
	}

	expected := s.Clone()
	Step(expected)

	for i := 0; i < 10; i++ {
		shuffled := slices.Clone(changes)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		cp := s.Clone()
		for _, ch := range shuffled {
			cp.SetAlive(ch.c, ch.alive)
		}
		checkInvariants(t, cp)
		if !storesEqual(cp, expected) {
			t.Fatalf("shuffle %d produced a different store", i)
		}
	}
}

func TestEmptyStep(t *testing.T) {
	s := NewStore()
	res := Step(s)
	if res.Changed() || res.Population != 0 || s.Len() != 0 {
		t.Fatalf("empty store step: %+v", res)
	}
}
