// Package report builds the suite report from the behavior results of a finished run and
// writes it out. The JSON form is the harness's durable artifact: its field names are what
// downstream tools harvest, so they must not change.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/launchdarkly/aria-at-harness/results"
)

// SuiteReport is the outcome of a whole run.
type SuiteReport struct {
	Title     string           `json:"test"`
	Behaviors []BehaviorReport `json:"tests"`
	Status    results.Status   `json:"status"`
}

// BehaviorReport is the outcome of one resolved behavior. Task holds the specific user
// instruction the tester was shown, as the original result format did.
type BehaviorReport struct {
	Status                 results.Status    `json:"status"`
	AssertionResults       []AssertionReport `json:"assertionResults"`
	Task                   string            `json:"task"`
	Mode                   string            `json:"mode"`
	SpeechOutputForCommand map[string]string `json:"speechOutputForCommand"`
}

type AssertionReport struct {
	Name    string           `json:"name"`
	Status  results.Status   `json:"status"`
	Details AssertionDetails `json:"details"`
}

// AssertionDetails groups the commands of an assertion by the tester's judgment.
type AssertionDetails struct {
	Correct    []CommandDetail `json:"correct"`
	Incorrect  []CommandDetail `json:"incorrect"`
	Incomplete []CommandDetail `json:"incomplete"`
}

type CommandDetail struct {
	Cmd       string `json:"cmd"`
	OtherInfo string `json:"otherInfo"`
}

// Reporter receives the report once the run is finished.
type Reporter interface {
	Report(r SuiteReport) error
}

// Build assembles the report. The behaviors appear in the order given, which is the order of
// the run queue.
func Build(title string, behaviors []results.BehaviorResult) SuiteReport {
	ret := SuiteReport{
		Title:     title,
		Behaviors: make([]BehaviorReport, 0, len(behaviors)),
		Status:    results.SuiteStatus(behaviors),
	}
	for _, b := range behaviors {
		br := BehaviorReport{
			Status:                 b.Status,
			AssertionResults:       make([]AssertionReport, 0, len(b.Assertions)),
			Task:                   b.SpecificUserInstruction,
			Mode:                   b.Mode,
			SpeechOutputForCommand: make(map[string]string, len(b.SpeechOutput)),
		}
		for cmd, output := range b.SpeechOutput {
			br.SpeechOutputForCommand[cmd] = output
		}
		for _, a := range b.Assertions {
			br.AssertionResults = append(br.AssertionResults, AssertionReport{
				Name:   a.Name,
				Status: a.Status,
				Details: AssertionDetails{
					Correct:    commandDetails(a, results.JudgmentCorrect),
					Incorrect:  commandDetails(a, results.JudgmentIncorrect),
					Incomplete: commandDetails(a, results.JudgmentIncomplete),
				},
			})
		}
		ret.Behaviors = append(ret.Behaviors, br)
	}
	return ret
}

func commandDetails(a results.AssertionResult, j results.Judgment) []CommandDetail {
	ret := []CommandDetail{}
	for _, d := range a.CommandsWith(j) {
		ret = append(ret, CommandDetail{Cmd: d.Command, OtherInfo: d.Note})
	}
	return ret
}

// Commands returns the command names of a detail list.
func Commands(details []CommandDetail) []string {
	ret := make([]string, 0, len(details))
	for _, d := range details {
		ret = append(ret, d.Cmd)
	}
	return ret
}

// Decode reads a report previously written by JSONReporter.
func Decode(r io.Reader) (SuiteReport, error) {
	var ret SuiteReport
	if err := json.NewDecoder(r).Decode(&ret); err != nil {
		return SuiteReport{}, fmt.Errorf("malformed suite report: %w", err)
	}
	return ret, nil
}

// JSONReporter writes the report as indented JSON.
type JSONReporter struct {
	W io.Writer
}

func (j JSONReporter) Report(r SuiteReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = j.W.Write(append(data, '\n'))
	return err
}

// Reporters fans the report out to several reporters, stopping at the first error.
type Reporters []Reporter

func (rs Reporters) Report(r SuiteReport) error {
	for _, reporter := range rs {
		if err := reporter.Report(r); err != nil {
			return err
		}
	}
	return nil
}
