package universe

import "time"

//Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64 //generations per second of wall clock time since the run was resumed
	AveragePopulation    float64
	StartTime            time.Time

	firstGen time.Time
	gens     int
}

//NewStats starts the stats clock
func NewStats() Stats {
	return Stats{StartTime: time.Now()}
}

//Update accounts one generation produced at the moment at which left population live cells
func (s *Stats) Update(population int, at time.Time) {
	if s.firstGen.IsZero() {
		s.firstGen = at
		s.gens = 0
	} else {
		s.gens++
		if d := at.Sub(s.firstGen); d > 0 {
			s.GenerationsPerSecond = float64(s.gens) / d.Seconds()
		}
	}

	//simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

//Resume restarts the generation rate measurement, the time spent in pause is not counted
func (s *Stats) Resume() {
	s.firstGen = time.Time{}
	s.gens = 0
	s.GenerationsPerSecond = 0
}

//Runtime returns the time passed since the stats were started
func (s *Stats) Runtime() time.Duration {
	return time.Since(s.StartTime)
}
