package universe

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
)

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name  string  //template name
	Descr string  //template descr
	Cells []Coord //live cells of the pattern
}

//RandomSpec describes the random seeding: a side x side square around the origin,
//side = round(sqrt(Size)), each cell is alive with probability Density
type RandomSpec struct {
	Size    int
	Density float64
	Seed    int64
}

const (
	TemplateBlank   = "blank"
	TemplateGlider  = "glider"
	TemplateBlinker = "blinker"
	TemplateBeacon  = "beacon"
	TemplateRandom  = "random"

	DefRandomSize    = 10000
	DefRandomDensity = 0.5
)

var (
	ErrUnknownTemplate = errors.New("unknown template")

	builtinTemplates = []Template{
		{TemplateBlank, "empty plane", nil},
		{TemplateGlider, "the smallest spaceship, moves diagonally", []Coord{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 2}}},
		{TemplateBlinker, "period 2 oscillator", []Coord{{0, 0}, {0, 1}, {0, 2}}},
		{TemplateBeacon, "period 2 oscillator made of two blocks", []Coord{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 2}, {3, 2}, {2, 3}, {3, 3}}},
	}

	//templateAliases are the short names accepted for the built-in patterns
	templateAliases = map[string]string{
		"b":  TemplateBlank,
		"g":  TemplateGlider,
		"bl": TemplateBlinker,
		"be": TemplateBeacon,
		"r":  TemplateRandom,
	}
)

//Validate rejects the malformed template before it reaches the store
func (t Template) Validate() error {
	if t.Name == "" {
		return errors.New("template name is empty")
	}
	if t.Name == TemplateRandom {
		return errors.Errorf("template name %q is reserved", t.Name)
	}
	if _, ok := templateAliases[t.Name]; ok {
		return errors.Errorf("template name %q is reserved", t.Name)
	}
	return nil
}

//Validate rejects the random spec which can not produce a pattern
func (r RandomSpec) Validate() error {
	if r.Size <= 0 {
		return errors.Errorf("random size must be positive, got %d", r.Size)
	}
	if r.Density < 0 || r.Density > 1 || math.IsNaN(r.Density) {
		return errors.Errorf("random density must be in [0, 1], got %v", r.Density)
	}
	return nil
}

//Cells draws the random pattern, the same seed always produces the same cells
func (r RandomSpec) Cells() []Coord {
	side := int(math.Round(math.Sqrt(float64(r.Size))))
	if side < 1 {
		side = 1
	}
	rng := rand.New(rand.NewPCG(uint64(r.Seed), 0))
	lo := -side / 2
	var res []Coord
	for y := lo; y < lo+side; y++ {
		for x := lo; x < lo+side; x++ {
			if rng.Float64() < r.Density {
				res = append(res, Coord{x, y})
			}
		}
	}
	return res
}

//TemplateSet is the registry of seeding templates
type TemplateSet struct {
	templates map[string]Template
}

//NewTemplateSet creates the registry populated with the built-in patterns
func NewTemplateSet() *TemplateSet {
	ts := &TemplateSet{templates: map[string]Template{}}
	for _, t := range builtinTemplates {
		ts.templates[t.Name] = t
	}
	return ts
}

//Add adds the template to the registry, the template with the same name is replaced
func (ts *TemplateSet) Add(t Template) error {
	if err := t.Validate(); err != nil {
		return errors.Wrapf(err, "[TemplateSet.Add] invalid template %q", t.Name)
	}
	ts.templates[t.Name] = t
	return nil
}

//Get returns the template by its name or alias
func (ts *TemplateSet) Get(name string) (Template, error) {
	if full, ok := templateAliases[name]; ok {
		name = full
	}
	t, ok := ts.templates[name]
	if !ok {
		return Template{}, errors.Wrapf(ErrUnknownTemplate, "%q", name)
	}
	return t, nil
}

//Names returns the sorted list of the registered templates including "random"
func (ts *TemplateSet) Names() []string {
	names := make([]string, 0, len(ts.templates)+1)
	for k := range ts.templates {
		names = append(names, k)
	}
	names = append(names, TemplateRandom)
	sort.Strings(names)
	return names
}

//IsRandom reports whether name selects the random pattern
func IsRandom(name string) bool {
	return name == TemplateRandom || templateAliases[name] == TemplateRandom
}
