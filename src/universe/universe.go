package universe

type Universe interface {
	Status() Status
	Options() Options
	StateCh() chan Status
	AddTemplate(tmpl Template) error
	Templates() []string
	SettleTemplate(name string) error
	SettleRandom(spec RandomSpec) error
	Settle(cs []Coord)
	Toggle(c Coord) bool
	State(c Coord) bool
	LiveWithin(r Rect) []Coord
	Bounds() (Rect, bool)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	RunPause()
	Step()
	Clear()
	Close()
}
