package evaluation

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ricesearch/rank-eval/internal/pkg/errors"
)

// Fixture is a YAML file of rated queries and their hits. Optional metric
// settings override the configured defaults.
type Fixture struct {
	Metric            string  `yaml:"metric"`
	RelevantThreshold *int    `yaml:"relevant_threshold"`
	IgnoreUnlabeled   *bool   `yaml:"ignore_unlabeled"`
	K                 int     `yaml:"k"`
	Queries           []Query `yaml:"queries"`
}

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("fixture " + path)
		}
		return nil, errors.Wrap(errors.CodeUnavailable, "reading fixture", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML. Unknown fields are rejected so typos in
// rating keys do not silently produce unknown docs.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, errors.ValidationError("fixture is empty")
		}
		return nil, errors.Wrap(errors.CodeValidation, "parsing fixture", err)
	}

	if len(f.Queries) == 0 {
		return nil, errors.ValidationError("fixture has no queries")
	}
	return &f, nil
}

// Apply returns opts with the fixture's settings layered on top.
func (f *Fixture) Apply(opts Options) Options {
	if f.Metric != "" {
		opts.Metric = f.Metric
	}
	if f.RelevantThreshold != nil {
		opts.RelevantThreshold = *f.RelevantThreshold
	}
	if f.IgnoreUnlabeled != nil {
		opts.IgnoreUnlabeled = *f.IgnoreUnlabeled
	}
	if f.K > 0 {
		opts.K = f.K
	}
	return opts
}
