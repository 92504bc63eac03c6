package universe

import (
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
)

//Options represents the Universe's configurable options
type Options struct {
	Interval       time.Duration
	MaxSteps       int
	StopWhenStable bool
	Advanced       map[string]interface{} //advanced options (displayed by the viewers)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	TrackedCells  int
	Births        int
	Deaths        int
	IterationTime time.Duration
	Lag           int //ticks the run loop is behind its schedule
	Stats
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 0
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var runningStateNames = map[RunningState]string{
	RunningStateManual:   "paused",
	RunningStateStep:     "step",
	RunningStateRun:      "running",
	RunningStateFinished: "finished",
}

func (rs RunningState) String() string {
	if n, ok := runningStateNames[rs]; ok {
		return n
	}
	return "unknown"
}

var DefaultUniverseOptions = Options{
	Interval: DefSimulationInterval,
	MaxSteps: DefMaxSteps,
}

//Validate checks the options
func (o Options) Validate() error {
	if o.Interval < 0 {
		return errors.Errorf("interval must not be negative, got %v", o.Interval)
	}
	if o.MaxSteps < 0 {
		return errors.Errorf("max steps must not be negative, got %d", o.MaxSteps)
	}
	return nil
}

//BaseUniverse is the sparse universe's engine
//implements Universe interface
//all the mutations of the store are executed one by one by the mainLoop goroutine
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	store struct {
		*Store
		sync.Mutex
	}
	stepper   Stepper
	stateCh   chan Status
	views     []Viewer
	templates *TemplateSet
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	stopRun   chan struct{} //closed to stop the running tick loop, owned by mainLoop
	//nextIteration can be redefined to wrap the generation step
	nextIteration func() StepResult
}

//NewBaseUniverse creates the BaseUniverse instance
func NewBaseUniverse(o *Options, stateCh chan Status) *BaseUniverse {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	u := BaseUniverse{
		options:   *o,
		controlCh: make(chan func()),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
		stateCh:   stateCh,
		templates: NewTemplateSet(),
	}
	u.options.Advanced = map[string]interface{}{"engine": "sparse"}
	for k, v := range o.Advanced {
		u.options.Advanced[k] = v
	}
	u.nextIteration = u._nextIteration
	u.store.Store = NewStore()
	u.state.Stats = NewStats()

	go u.mainLoop()
	return &u
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) error {
	return u.templates.Add(tmpl)
}

//Templates returns the names of the known templates
func (u *BaseUniverse) Templates() []string {
	return u.templates.Names()
}

//Settle settles the universe with live cells
func (u *BaseUniverse) Settle(cs []Coord) {
	u.exec(func() {
		u.mutate(func(s *Store) { s.Settle(cs) })
	})
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) error {
	tmpl, err := u.templates.Get(name)
	if err != nil {
		return errors.Wrap(err, "[SettleTemplate]")
	}
	u.Settle(tmpl.Cells)
	return nil
}

//SettleRandom clears the universe and populates it with random data
func (u *BaseUniverse) SettleRandom(spec RandomSpec) error {
	if err := spec.Validate(); err != nil {
		return errors.Wrap(err, "[SettleRandom]")
	}
	cells := spec.Cells()
	u.exec(func() {
		u.clear()
		u.mutate(func(s *Store) { s.Settle(cells) })
	})
	return nil
}

//Toggle inverses the cell state at c and returns the new state
//it is allowed in any running mode, the toggle is serialized with the simulation steps
func (u *BaseUniverse) Toggle(c Coord) (alive bool) {
	u.exec(func() {
		u.mutate(func(s *Store) { alive = s.Toggle(c) })
	})
	return
}

//State returns the liveness of the cell at c
func (u *BaseUniverse) State(c Coord) bool {
	u.store.Lock()
	defer u.store.Unlock()
	return u.store.State(c)
}

//LiveWithin returns the live cells inside r
func (u *BaseUniverse) LiveWithin(r Rect) []Coord {
	u.store.Lock()
	defer u.store.Unlock()
	return u.store.LiveWithin(r)
}

//Bounds returns the bounding box of the live cells
func (u *BaseUniverse) Bounds() (Rect, bool) {
	u.store.Lock()
	defer u.store.Unlock()
	return u.store.Bounds()
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views = append(u.views, v)
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Run starts the periodic simulation, returns once the tick loop is started
func (u *BaseUniverse) Run() {
	u.exec(u.run)
}

//Stop pauses the periodic simulation, manual edits are still allowed
//the Status struct will be written the stateCh
func (u *BaseUniverse) Stop() {
	u.exec(u.stop)
}

//RunPause toggles between running and paused, the decision is taken on the main loop
//so a press which comes in the middle of a step is not mistaken for a resume
func (u *BaseUniverse) RunPause() {
	u.exec(u.runPause)
}

//Step does one simulation step, returns when the step is done
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.exec(func() { u.step() })
}

//Clear clears the universe (kill all cells and reset all counters)
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.exec(func() {
		u.stop()
		u.clear()
		u.switchRunningState(RunningStateManual)
	})
}

//Close stops the main loop and the tick loop, returns when the main loop is finished
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() { close(u.closeCh) })
	<-u.done
}

//exec executes cmd on the main loop and waits for it, does nothing after Close
func (u *BaseUniverse) exec(cmd func()) {
	finished := make(chan struct{})
	select {
	case u.controlCh <- func() { cmd(); close(finished) }:
		<-finished
	case <-u.done:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.done)
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			if u.stopRun != nil {
				close(u.stopRun)
				u.stopRun = nil
			}
			return
		}
	}
}

//mutate runs fn over the locked store and refreshes the cell counters
func (u *BaseUniverse) mutate(fn func(s *Store)) {
	u.store.Lock()
	fn(u.store.Store)
	live, tracked := u.store.Population(), u.store.Len()
	u.store.Unlock()
	u.state.Lock()
	u.state.LiveCells = live
	u.state.TrackedCells = tracked
	u.state.Unlock()
	u.refreshView()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

func (u *BaseUniverse) runningState() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

//run starts the tick loop
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	if u.stopRun != nil {
		return
	}
	stop := make(chan struct{})
	u.stopRun = stop
	u.state.Lock()
	u.state.Stats.Resume()
	u.state.Unlock()
	u.switchRunningState(RunningStateRun)
	go u.tickLoop(stop)
}

//tickLoop delivers the ticks to the main loop every Interval
//a tick which comes while the previous step is still in flight is queued, not dropped:
//the loop keeps the absolute schedule and runs the late steps back to back
func (u *BaseUniverse) tickLoop(stop chan struct{}) {
	interval := u.options.Interval
	next := time.Now()
	timer := time.NewTimer(interval)
	timer.Stop()
	defer timer.Stop()
	for {
		more := make(chan bool, 1)
		select {
		case u.controlCh <- func() { more <- u.tick(stop) }:
		case <-stop:
			return
		case <-u.done:
			return
		}
		select {
		case m := <-more:
			if !m {
				return
			}
		case <-u.done:
			return
		}
		if interval <= 0 {
			continue
		}
		next = next.Add(interval)
		wait := time.Until(next)
		u.setLag(wait, interval)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-timer.C:
		case <-stop:
			return
		case <-u.done:
			return
		}
	}
}

//tick is the scheduled step, returns false when the run loop must finish
func (u *BaseUniverse) tick(stop chan struct{}) bool {
	//the loop was stopped while this tick waited in the queue
	if u.stopRun != stop {
		return false
	}
	if !u.step() {
		return true
	}
	u.stopRun = nil
	close(stop)
	u.switchRunningState(RunningStateFinished)
	return false
}

func (u *BaseUniverse) setLag(wait time.Duration, interval time.Duration) {
	lag := 0
	if wait < 0 {
		lag = int(-wait / interval)
	}
	u.state.Lock()
	prev := u.state.Lag
	u.state.Lag = lag
	u.state.Unlock()
	if lag > 0 && prev == 0 {
		log.Printf("universe: generation %d is %d ticks behind the schedule", u.Status().IterationNum, lag)
	}
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.stopRun == nil {
		return
	}
	close(u.stopRun)
	u.stopRun = nil
	u.state.Lock()
	u.state.Lag = 0
	u.state.Stats.Resume()
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
}

//runPause pauses the running universe or resumes the paused one
func (u *BaseUniverse) runPause() {
	if u.stopRun != nil {
		u.stop()
	} else {
		u.run()
	}
}

//step does the new generation calculation for entire universe
//returns true when the boundary conditions are reached: extinction, max steps or (optionally) no changes
func (u *BaseUniverse) step() (finished bool) {
	rm := u.runningState()
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	u.switchRunningState(RunningStateStep)

	start := time.Now()
	res := u.nextIteration()
	elapsed := time.Since(start)

	u.store.Lock()
	tracked := u.store.Len()
	u.store.Unlock()

	u.state.Lock()
	u.state.IterationNum++
	u.state.LiveCells = res.Population
	u.state.TrackedCells = tracked
	u.state.Births = res.Births
	u.state.Deaths = res.Deaths
	u.state.IterationTime = elapsed
	u.state.Stats.Update(res.Population, start)
	n := u.state.IterationNum
	u.state.Unlock()

	maxIter := u.options.MaxSteps
	finished = res.Population == 0 ||
		(maxIter != 0 && n >= maxIter) ||
		(u.options.StopWhenStable && !res.Changed())

	u.switchRunningState(rm)
	u.refreshView()
	return
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.store.Lock()
	u.store.Clear()
	u.store.Unlock()

	u.state.Lock()
	mode := u.state.RunningMode
	u.state.Status = Status{RunningMode: mode, Stats: NewStats()}
	u.state.Unlock()
	u.refreshView()
}

//_nextIteration does one simulation cycle over the locked store
func (u *BaseUniverse) _nextIteration() StepResult {
	u.store.Lock()
	defer u.store.Unlock()
	return u.stepper.Step(u.store.Store)
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}
