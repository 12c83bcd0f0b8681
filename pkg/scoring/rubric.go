package scoring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Band scores every value below UpTo (or equal to it when Inclusive).
// A nil UpTo closes the table.
type Band struct {
	UpTo      *float64 `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	Inclusive bool     `yaml:"inclusive,omitempty" json:"inclusive,omitempty"`
	Score     int      `yaml:"score" json:"score"`
}

func (b Band) contains(v float64) bool {
	if b.UpTo == nil {
		return true
	}
	if b.Inclusive {
		return v <= *b.UpTo
	}
	return v < *b.UpTo
}

type Table []Band

// Score returns the score of the first band containing v.
func (t Table) Score(v float64) int {
	for _, band := range t {
		if band.contains(v) {
			return band.Score
		}
	}
	return 0
}

func (t Table) validate() error {
	if len(t) == 0 {
		return errors.New("no bands")
	}
	for i, band := range t {
		last := i == len(t)-1
		if band.UpTo == nil && !last {
			return fmt.Errorf("band %d is open-ended but not last", i)
		}
		if band.UpTo != nil && last {
			return fmt.Errorf("last band must be open-ended")
		}
		if i > 0 && band.UpTo != nil && *band.UpTo <= *t[i-1].UpTo {
			return fmt.Errorf("band %d bound %g not above %g", i, *band.UpTo, *t[i-1].UpTo)
		}
	}
	return nil
}

type Rubric struct {
	Systolic          Table   `yaml:"systolic" json:"systolic"`
	Diastolic         Table   `yaml:"diastolic" json:"diastolic"`
	Temperature       Table   `yaml:"temperature" json:"temperature"`
	Age               Table   `yaml:"age" json:"age"`
	FeverThreshold    float64 `yaml:"fever_threshold" json:"fever_threshold"`
	HighRiskThreshold int     `yaml:"high_risk_threshold" json:"high_risk_threshold"`
}

func (r Rubric) Validate() error {
	tables := []struct {
		name  string
		table Table
	}{
		{"systolic", r.Systolic},
		{"diastolic", r.Diastolic},
		{"temperature", r.Temperature},
		{"age", r.Age},
	}
	for _, t := range tables {
		if err := t.table.validate(); err != nil {
			return fmt.Errorf("rubric %s: %w", t.name, err)
		}
	}
	if r.HighRiskThreshold <= 0 {
		return errors.New("rubric high_risk_threshold must be positive")
	}
	return nil
}

func bound(f float64) *float64 {
	return &f
}

// DefaultRubric is the fixed scoring rubric. The two lower age bands both
// score 1.
func DefaultRubric() Rubric {
	return Rubric{
		Systolic: Table{
			{UpTo: bound(120), Score: 1},
			{UpTo: bound(130), Score: 2},
			{UpTo: bound(140), Score: 3},
			{Score: 4},
		},
		Diastolic: Table{
			{UpTo: bound(80), Score: 1},
			{UpTo: bound(90), Score: 3},
			{Score: 4},
		},
		Temperature: Table{
			{UpTo: bound(99.6), Score: 0},
			{UpTo: bound(101.0), Score: 1},
			{Score: 2},
		},
		Age: Table{
			{UpTo: bound(40), Score: 1},
			{UpTo: bound(65), Inclusive: true, Score: 1},
			{Score: 2},
		},
		FeverThreshold:    99.6,
		HighRiskThreshold: 4,
	}
}

// LoadRubric reads a YAML rubric. An empty path yields the default rubric.
func LoadRubric(path string) (Rubric, error) {
	if path == "" {
		return DefaultRubric(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Rubric{}, fmt.Errorf("reading rubric: %w", err)
	}

	var rubric Rubric
	if err := yaml.Unmarshal(content, &rubric); err != nil {
		return Rubric{}, fmt.Errorf("parsing rubric: %w", err)
	}
	if err := rubric.Validate(); err != nil {
		return Rubric{}, err
	}
	return rubric, nil
}
