package results

// CommandDetail is the judgment recorded for one assertion under one command.
type CommandDetail struct {
	Command  string
	Judgment Judgment
	Note     string
}

// AssertionResult is the rolled-up outcome of one assertion across every command.
type AssertionResult struct {
	Name       string
	Status     Status
	PerCommand []CommandDetail
}

// CommandsWith returns the details whose judgment is j, in command order.
func (a AssertionResult) CommandsWith(j Judgment) []CommandDetail {
	var ret []CommandDetail
	for _, d := range a.PerCommand {
		if d.Judgment == j {
			ret = append(ret, d)
		}
	}
	return ret
}

// BehaviorResult is the frozen outcome of one resolved behavior. It is produced once, when the
// tester's submission passes validation, and is not modified afterward.
type BehaviorResult struct {
	Mode                    string
	Task                    string
	SpecificUserInstruction string
	Status                  Status
	Assertions              []AssertionResult
	Commands                []string
	SpeechOutput            map[string]string
}

// ID matches behavior.Resolved.ID for the behavior this result came from.
func (b BehaviorResult) ID() string {
	return b.Task + "/" + b.Mode
}
