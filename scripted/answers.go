// Package scripted runs the harness without a tester at the keyboard, taking every answer from a
// file prepared in advance. This is how recorded results are replayed and how the harness checks
// itself in CI.
package scripted

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/launchdarkly/aria-at-harness/results"
)

// Answers is the content of an answers file:
//
//	openHostWindow: true
//	behaviors:
//	  - id: read checkbox/reading
//	    commands:
//	      - output: checkbox, not checked
//	        all: correct
//	      - output: checkbox
//	        results: [correct, incorrect]
//	        notes: ["", "said button"]
type Answers struct {
	// OpenHostWindow opens the host window before the first behavior.
	OpenHostWindow bool             `yaml:"openHostWindow"`
	Behaviors      []BehaviorAnswer `yaml:"behaviors"`
}

// BehaviorAnswer answers one behavior. If ID is set, it must match the behavior being answered.
type BehaviorAnswer struct {
	ID       string          `yaml:"id"`
	Commands []CommandAnswer `yaml:"commands"`
}

// CommandAnswer answers one command. All, if set, is "correct" or "incomplete" and takes the
// place of Results.
type CommandAnswer struct {
	Output  string             `yaml:"output"`
	All     results.Judgment   `yaml:"all"`
	Results []results.Judgment `yaml:"results"`
	Notes   []string           `yaml:"notes"`
}

// LoadAnswers reads an answers file.
func LoadAnswers(path string) (Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Answers{}, fmt.Errorf("read answers %s: %w", path, err)
	}
	return ParseAnswers(data)
}

// ParseAnswers parses answers from YAML.
func ParseAnswers(data []byte) (Answers, error) {
	var a Answers
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return Answers{}, fmt.Errorf("parse answers: %w", err)
	}
	for i, b := range a.Behaviors {
		for j, c := range b.Commands {
			switch c.All {
			case results.JudgmentUnset, results.JudgmentCorrect, results.JudgmentIncomplete:
			default:
				return Answers{}, fmt.Errorf("behavior %d, command %d: all must be correct or incomplete", i+1, j+1)
			}
		}
	}
	return a, nil
}

// apply records a command's answer in the matrix.
func (c CommandAnswer) apply(m *results.Matrix, cmd int) error {
	if err := m.SetSpeechOutput(cmd, c.Output); err != nil {
		return err
	}
	switch c.All {
	case results.JudgmentCorrect:
		return m.ApplyAllCorrect(cmd)
	case results.JudgmentIncomplete:
		return m.ApplyAllIncomplete(cmd)
	}
	if len(c.Results) > m.NumAssertions() {
		return fmt.Errorf("%d results given for %d assertions", len(c.Results), m.NumAssertions())
	}
	for a, j := range c.Results {
		if err := m.SetJudgment(cmd, a, j); err != nil {
			return err
		}
	}
	for a, note := range c.Notes {
		if note == "" {
			continue
		}
		if err := m.SetNote(cmd, a, note); err != nil {
			return err
		}
	}
	return nil
}
