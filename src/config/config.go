package config

import (
	"os"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sparselife/src/universe"
)

//Config holds the configuration of the simulation run
type Config struct {
	Interval       time.Duration    `yaml:"interval"`
	Timestep       int              `yaml:"timestep"` //tick interval in milliseconds, overrides Interval when set
	MaxSteps       int              `yaml:"max_steps"`
	StopWhenStable bool             `yaml:"stop_when_stable"`
	Pattern        string           `yaml:"pattern"`
	RandomSize     int              `yaml:"random_size"`
	RandomDensity  float64          `yaml:"random_density"`
	Seed           int64            `yaml:"seed"`
	Interactive    bool             `yaml:"interactive"`
	LogFile        string           `yaml:"log_file"`
	Templates      []TemplateConfig `yaml:"templates"`

	File string `yaml:"-"`
}

//TemplateConfig is the user defined pattern
type TemplateConfig struct {
	Name  string   `yaml:"name"`
	Descr string   `yaml:"descr"`
	Cells [][2]int `yaml:"cells"`
}

//Default returns sensible defaults
func Default() Config {
	return Config{
		Interval:      universe.DefSimulationInterval,
		MaxSteps:      universe.DefMaxSteps,
		Pattern:       universe.TemplateBlank,
		RandomSize:    universe.DefRandomSize,
		RandomDensity: universe.DefRandomDensity,
		Seed:          time.Now().UnixNano(),
	}
}

//Load loads configuration from YAML file on top of the defaults
func Load(filename string) (Config, error) {
	config := Default()
	if err := config.load(filename); err != nil {
		return config, err
	}
	return config, nil
}

func (c *Config) load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}
	c.File = filename
	return nil
}

//Parse builds the configuration from the command line arguments (without the program name)
//the config file given by -c is loaded first, the other flags override its values
func Parse(args []string) (Config, error) {
	config := Default()
	if fn := configFileArg(args); fn != "" {
		if err := config.load(fn); err != nil {
			return config, err
		}
	}

	var file string
	p := flaggy.NewParser("sparselife")
	p.Description = "Conway's Game of Life on the unbounded plane"
	p.ShowHelpOnUnexpected = true
	p.String(&file, "c", "config", "YAML configuration file")
	p.Duration(&config.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	p.Int(&config.Timestep, "t", "timestep", "Interval between the steps in milliseconds, overrides --interval")
	p.Int(&config.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 is unlimited")
	p.Bool(&config.StopWhenStable, "", "stable", "Finish the simulation when a step changes nothing")
	p.String(&config.Pattern, "p", "pattern", "Initial pattern [blank|glider|blinker|beacon|random] or a template from the config file")
	p.Int(&config.RandomSize, "r", "randomSize", "Number of cells in the neighborhood seeded by the random pattern")
	p.Float64(&config.RandomDensity, "d", "density", "Probability of a cell to be alive in the random pattern")
	p.Int64(&config.Seed, "", "seed", "Seed of the random pattern")
	p.Bool(&config.Interactive, "n", "interactive", "Start interactive mode")
	p.String(&config.LogFile, "l", "log", "Write the log to the file (interactive mode discards it otherwise)")
	if err := p.ParseArgs(args); err != nil {
		return config, errors.Wrap(err, "[Parse] failed to parse arguments")
	}
	return config, config.Validate()
}

//configFileArg finds the value of -c/--config before the flags are parsed
func configFileArg(args []string) string {
	for i, a := range args {
		for _, name := range []string{"-c", "--config"} {
			if a == name && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(a, name+"="); ok {
				return v
			}
		}
	}
	return ""
}

//Validate rejects the configuration which can not be passed to the universe
func (c Config) Validate() error {
	if c.Timestep < 0 {
		return errors.Errorf("timestep must not be negative, got %d", c.Timestep)
	}
	if err := c.UniverseOptions().Validate(); err != nil {
		return errors.Wrap(err, "[Validate] invalid options")
	}
	if universe.IsRandom(c.Pattern) {
		if err := c.RandomSpec().Validate(); err != nil {
			return errors.Wrap(err, "[Validate] invalid random pattern")
		}
	}
	for _, t := range c.Templates {
		if err := t.Template().Validate(); err != nil {
			return errors.Wrapf(err, "[Validate] invalid template %q", t.Name)
		}
	}
	return nil
}

//UniverseOptions converts the configuration to the universe options
func (c Config) UniverseOptions() universe.Options {
	o := universe.DefaultUniverseOptions
	o.Interval = c.Interval
	if c.Timestep > 0 {
		o.Interval = time.Duration(c.Timestep) * time.Millisecond
	}
	o.MaxSteps = c.MaxSteps
	o.StopWhenStable = c.StopWhenStable
	o.Advanced = map[string]interface{}{"pattern": c.Pattern}
	if universe.IsRandom(c.Pattern) {
		o.Advanced["seed"] = c.Seed
		o.Advanced["random size"] = c.RandomSize
		o.Advanced["density"] = c.RandomDensity
	}
	if c.File != "" {
		o.Advanced["config"] = c.File
	}
	return o
}

//RandomSpec returns the random pattern parameters
func (c Config) RandomSpec() universe.RandomSpec {
	return universe.RandomSpec{Size: c.RandomSize, Density: c.RandomDensity, Seed: c.Seed}
}

//Template converts the configured pattern to the universe template
func (t TemplateConfig) Template() universe.Template {
	cells := make([]universe.Coord, len(t.Cells))
	for i, xy := range t.Cells {
		cells[i] = universe.Coord{X: xy[0], Y: xy[1]}
	}
	return universe.Template{Name: t.Name, Descr: t.Descr, Cells: cells}
}
