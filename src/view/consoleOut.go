package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"sparselife/src/universe"
)

//progressEvery is the number of generations between the progress lines
const progressEvery = 10

//ConsoleOut is the non-interactive viewer printing the progress of the simulation
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	startTime time.Time
	lastShown int
}

func NewConsoleOut(w io.Writer) *ConsoleOut {
	return &ConsoleOut{w: w}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	if st.RunningMode != universe.RunningStateRun && st.RunningMode != universe.RunningStateStep {
		return
	}
	if st.IterationNum%progressEvery == 0 && st.IterationNum != c.lastShown {
		c.lastShown = st.IterationNum
		fmt.Fprintf(c.w, "  Generation: %v, live cells: %v, tracked cells: %v\n", st.IterationNum, st.LiveCells, st.TrackedCells)
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	fmt.Fprintln(c.w, "Running configuration:")
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	if o.MaxSteps > 0 {
		fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	} else {
		fmt.Fprintln(c.w, "  Max iterations: unlimited")
	}
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintf(c.w, "\n%s\n", aurora.Cyan("Simulation started..."))
}

//Report prints the final status of the simulation
func (c *ConsoleOut) Report(st universe.Status) {
	resultData := map[string]interface{}{
		"Last iteration": st.IterationNum,
		"Total time":     time.Since(c.startTime).Round(time.Millisecond),
		"Live cells":     st.LiveCells,
		"Tracked cells":  st.TrackedCells,
		"Avg population": fmt.Sprintf("%.1f", st.AveragePopulation),
	}
	if b, ok := c.u.Bounds(); ok {
		resultData["Bounds"] = fmt.Sprintf("(%d, %d) - (%d, %d)", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	}
	fmt.Fprintf(c.w, "\n%s\n", aurora.Bold(aurora.Green("Finished:")))
	c.printHashData(resultData)
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	for _, propName := range sortedKeys(d) {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}

func sortedKeys(d map[string]interface{}) []string {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	return propNames
}
