package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"sparselife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

const fieldView = "field"

type ConsoleUI struct {
	u universe.Universe
	g *gocui.Gui
	k []keyBindings

	//camera is touched by the key handlers and by the render callbacks, both run on the gui goroutine
	camera Camera
	f      fillers

	random universe.RandomSpec
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("paused", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal creates the interactive terminal viewer
//random is used to reseed the plane by the 'r' key, the seed is incremented on each reseed
func NewViewTerminal(random universe.RandomSpec) *ConsoleUI {

	var err error
	t := ConsoleUI{
		f: fillers{
			live:       aurora.Green("█").BgBrightGreen().String(),
			dead:       " ",
			origin:     aurora.Yellow("●").String(),
			grid:       aurora.BrightBlack("┼").String(),
			cursorLive: aurora.Magenta("█").String(),
			cursorDead: aurora.Magenta("▒").String(),
		},
	}
	t.random = random

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'q', "Q", "Exit", t.cmdQuit, ""},
		{gocui.KeySpace, "SPACE", "Run/Pause", t.cmdRunPause, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'e', "E", "Toggle cell", t.cmdToggle, ""},
		{gocui.KeyArrowUp, "↑", "", t.cmdPan(0, 1), ""},
		{gocui.KeyArrowDown, "↓", "", t.cmdPan(0, -1), ""},
		{gocui.KeyArrowLeft, "←", "", t.cmdPan(-1, 0), ""},
		{gocui.KeyArrowRight, "→", "Pan", t.cmdPan(1, 0), ""},
		{'k', "K", "", t.cmdPan(0, 1), ""},
		{'j', "J", "", t.cmdPan(0, -1), ""},
		{'h', "H", "", t.cmdPan(-1, 0), ""},
		{'l', "L", "Pan", t.cmdPan(1, 0), ""},
		{'w', "W", "", t.cmdCursor(0, 1), ""},
		{'s', "S", "", t.cmdCursor(0, -1), ""},
		{'a', "A", "", t.cmdCursor(-1, 0), ""},
		{'d', "D", "Cursor", t.cmdCursor(1, 0), ""},
		{'c', "C", "Cursor to center", t.cmdCenterCursor, ""},
		{'o', "O", "To origin", t.cmdOrigin, ""},
		{'x', "X", "Clear", t.cmdClear, ""},
		{'r', "R", "Settle with random", t.cmdSettleWithRandom, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, fieldView},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
}

//Refresh is called by the universe after each change, the views are redrawn on the gui goroutine
func (t *ConsoleUI) Refresh() {
	t.g.Update(func(g *gocui.Gui) error {
		t.renderField(g)
		t.renderConfiguration(g)
		t.renderStatus(g)
		return nil
	})
}

func (t *ConsoleUI) renderField(g *gocui.Gui) {
	v, e := g.View(fieldView)
	if e != nil {
		return
	}
	v.Clear()
	w, h := v.Size()
	live := t.u.LiveWithin(t.camera.Window(w, h))
	_, _ = fmt.Fprint(v, t.camera.render(live, w, h, t.f))
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui) {
	v, e := g.View("status")
	if e != nil {
		return
	}
	s := t.u.Status()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.IterationNum))
	_, _ = fmt.Fprintln(v, t.renderProp("Live cells", "%v", s.LiveCells))
	_, _ = fmt.Fprintln(v, t.renderProp("Tracked cells", "%v", s.TrackedCells))
	_, _ = fmt.Fprintln(v, t.renderProp("Born/died", "%v/%v", s.Births, s.Deaths))
	_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Tick rate", "%.1f Hz", s.GenerationsPerSecond))
	_, _ = fmt.Fprintln(v, t.renderProp("Avg population", "%.1f", s.AveragePopulation))
	if s.Lag > 0 {
		_, _ = fmt.Fprintln(v, t.renderProp("Behind", "%v ticks", aurora.Red(s.Lag)))
	}
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
	_, _ = fmt.Fprintln(v, t.renderProp("Cursor", "%v, %v", t.camera.Cursor.X, t.camera.Cursor.Y))
	_, _ = fmt.Fprintln(v, t.renderProp("Camera", "%v, %v", t.camera.Center.X, t.camera.Center.Y))
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	v, e := g.View("configuration")
	if e != nil {
		return
	}
	c := t.u.Options()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
	if c.MaxSteps > 0 {
		_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
	} else {
		_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "unlimited"))
	}
	for _, k := range sortedKeys(c.Advanced) {
		_, _ = fmt.Fprintln(v, t.renderProp(k, "%v", c.Advanced[k]))
	}
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 32
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView(fieldView)
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation on the unbounded plane"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
	}
	t.renderConfiguration(g)

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/3+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
	}
	t.renderStatus(g)

	if v, err := g.SetView(fieldView, leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Plane"
		v.Frame = true
	}
	t.renderField(g)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-1); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		first := true
		names := make([]string, 0, 4)
		for _, k := range t.k {
			names = append(names, k.name)
			//the keys without description are listed together with the next described one
			if k.descr == "" {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(aurora.Green(strings.Join(names, "/")).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
			names = names[:0]
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdRunPause(_ *gocui.View) error {
	t.u.RunPause()
	return nil
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdToggle(_ *gocui.View) error {
	t.u.Toggle(t.camera.Cursor)
	return nil
}

func (t *ConsoleUI) cmdPan(dx int, dy int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.camera.Pan(dx, dy)
		t.Refresh()
		return nil
	}
}

func (t *ConsoleUI) cmdCursor(dx int, dy int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.camera.MoveCursor(dx, dy)
		t.Refresh()
		return nil
	}
}

func (t *ConsoleUI) cmdCenterCursor(_ *gocui.View) error {
	t.camera.CenterCursor()
	t.Refresh()
	return nil
}

func (t *ConsoleUI) cmdOrigin(_ *gocui.View) error {
	t.camera.Origin()
	t.Refresh()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	spec := t.random
	t.random.Seed++
	if err := t.u.SettleRandom(spec); err != nil {
		log.Printf("view: %v", err)
	}
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	w, h := v.Size()
	t.camera.Cursor = t.camera.CellAt(cx, cy, w, h)
	t.u.Toggle(t.camera.Cursor)
	return nil
}
