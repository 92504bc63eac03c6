package universe

import (
	"math"
	"testing"
	"time"
)

func TestStatsGenerationRate(t *testing.T) {
	s := NewStats()
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Update(10, t0)
	if s.GenerationsPerSecond != 0 {
		t.Fatalf("rate after the first generation %v", s.GenerationsPerSecond)
	}
	s.Update(20, t0.Add(100*time.Millisecond))
	s.Update(20, t0.Add(200*time.Millisecond))
	if math.Abs(s.GenerationsPerSecond-10) > 1e-9 {
		t.Fatalf("rate %v, expected 10", s.GenerationsPerSecond)
	}

	//the pause between the runs is not counted
	s.Resume()
	if s.GenerationsPerSecond != 0 {
		t.Fatalf("rate after resume %v", s.GenerationsPerSecond)
	}
	s.Update(20, t0.Add(10*time.Second))
	s.Update(20, t0.Add(10*time.Second+50*time.Millisecond))
	if math.Abs(s.GenerationsPerSecond-20) > 1e-9 {
		t.Fatalf("rate %v, expected 20", s.GenerationsPerSecond)
	}
}

func TestStatsAveragePopulation(t *testing.T) {
	s := NewStats()
	now := time.Now()
	s.Update(10, now)
	s.Update(20, now.Add(time.Millisecond))
	if math.Abs(s.AveragePopulation-11) > 1e-9 {
		t.Fatalf("average population %v, expected 11", s.AveragePopulation)
	}
}
