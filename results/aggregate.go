package results

// AssertionStatus computes the status of one assertion from its judgments across all commands.
// An unset judgment counts as incomplete.
func AssertionStatus(cells []Judgment) Status {
	ret := StatusPass
	for _, j := range cells {
		switch j {
		case JudgmentIncorrect:
			return StatusFail
		case JudgmentIncomplete, JudgmentUnset:
			ret = StatusIncomplete
		}
	}
	return ret
}

// BehaviorStatus is the worst status among the behavior's assertions.
func BehaviorStatus(assertions []AssertionResult) Status {
	ret := StatusPass
	for _, a := range assertions {
		ret = Worst(ret, a.Status)
	}
	return ret
}

// SuiteStatus is the worst status among all behaviors. A run with no behaviors passes.
func SuiteStatus(behaviors []BehaviorResult) Status {
	ret := StatusPass
	for _, b := range behaviors {
		ret = Worst(ret, b.Status)
	}
	return ret
}
