package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sparselife/src/universe"
)

const testYAML = `
interval: 250ms
max_steps: 40
pattern: block
seed: 9
templates:
  - name: block
    descr: 2x2 still life
    cells: [[0, 0], [1, 0], [0, 1], [1, 1]]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "sparselife.yaml")
	if err := os.WriteFile(fn, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fn
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	o := c.UniverseOptions()
	if o.Interval != 100*time.Millisecond || o.MaxSteps != 0 || c.Pattern != universe.TemplateBlank || c.Interactive {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestParseFlags(t *testing.T) {
	c, err := Parse([]string{"-t", "40", "-s", "12", "-p", "random", "-r", "400", "-d", "0.25", "--seed", "5", "-n", "--stable"})
	if err != nil {
		t.Fatal(err)
	}
	o := c.UniverseOptions()
	if o.Interval != 40*time.Millisecond || o.MaxSteps != 12 || !o.StopWhenStable {
		t.Fatalf("options %+v", o)
	}
	if spec := c.RandomSpec(); spec != (universe.RandomSpec{Size: 400, Density: 0.25, Seed: 5}) {
		t.Fatalf("random spec %+v", spec)
	}
	if !c.Interactive {
		t.Fatal("interactive flag is lost")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"-p", "random", "-d", "2"},
		{"-p", "r", "-r", "0"},
		{"--maxSteps=-1"},
		{"--timestep=-5"},
	} {
		if _, err := Parse(args); err == nil {
			t.Errorf("args %v must be rejected", args)
		}
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, testYAML))
	if err != nil {
		t.Fatal(err)
	}
	if c.Interval != 250*time.Millisecond || c.MaxSteps != 40 || c.Pattern != "block" || c.Seed != 9 {
		t.Fatalf("loaded %+v", c)
	}
	if len(c.Templates) != 1 {
		t.Fatalf("templates %+v", c.Templates)
	}
	tmpl := c.Templates[0].Template()
	if tmpl.Name != "block" || len(tmpl.Cells) != 4 || tmpl.Cells[3] != (universe.Coord{X: 1, Y: 1}) {
		t.Fatalf("template %+v", tmpl)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file must fail")
	}
	if _, err := Load(writeConfig(t, "interval: [")); err == nil {
		t.Fatal("malformed file must fail")
	}
}

func TestParseFlagsOverrideFile(t *testing.T) {
	fn := writeConfig(t, testYAML)
	c, err := Parse([]string{"--config=" + fn, "-s", "3"})
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxSteps != 3 || c.Interval != 250*time.Millisecond || c.File != fn {
		t.Fatalf("config %+v", c)
	}
	if c.UniverseOptions().Advanced["config"] != fn {
		t.Fatalf("advanced options %+v", c.UniverseOptions().Advanced)
	}
}

func TestValidateTemplates(t *testing.T) {
	c := Default()
	c.Templates = []TemplateConfig{{Name: "random"}}
	if err := c.Validate(); err == nil {
		t.Fatal("reserved template name must be rejected")
	}
}
