package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/launchdarkly/aria-at-harness/behavior"
	"github.com/launchdarkly/aria-at-harness/framework"
	"github.com/launchdarkly/aria-at-harness/hostwindow"
	"github.com/launchdarkly/aria-at-harness/results"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkboxCommands = fakeCommandTable{
	"JAWS|navigate to checkbox|reading":     {"Down Arrow", "Up Arrow"},
	"JAWS|navigate to checkbox|interaction": {"Tab"},
	"JAWS|operate checkbox|reading":         {"Space"},
}

func checkboxSpec(modes ...string) behavior.Spec {
	return behavior.Spec{
		Modes:                   modes,
		Task:                    "navigate to checkbox",
		SpecificUserInstruction: "navigate to the first checkbox",
		Assertions:              []string{"announces role", "announces name"},
	}
}

func operateSpec() behavior.Spec {
	return behavior.Spec{
		Modes:                   []string{"reading"},
		Task:                    "operate checkbox",
		SpecificUserInstruction: "check the first checkbox",
		Assertions:              []string{"announces state"},
	}
}

func newTestRunner(presenter *recordingPresenter, reporter *recordingReporter, host hostwindow.Controller) *Runner {
	opts := Options{Presenter: presenter, Barrier: testBarrier, Host: host}
	if reporter != nil {
		opts.Reporter = reporter
	}
	return New(RunnerContext{Title: "Checkbox tests", AT: "JAWS", Commands: checkboxCommands}, opts)
}

func judge(t *testing.T, r *Runner, rows ...[]results.Judgment) {
	m := r.Matrix()
	require.NotNil(t, m)
	for c, row := range rows {
		require.NoError(t, m.SetSpeechOutput(c, "checkbox, not checked"))
		for a, j := range row {
			require.NoError(t, m.SetJudgment(c, a, j))
		}
	}
}

func submitOK(t *testing.T, r *Runner) {
	failures, err := r.Submit(context.Background())
	require.NoError(t, err)
	require.Empty(t, failures)
}

var (
	allCorrect = []results.Judgment{results.JudgmentCorrect, results.JudgmentCorrect}
	allMissing = []results.Judgment{results.JudgmentIncomplete, results.JudgmentIncomplete}
)

func TestEmptyQueueFinishesImmediately(t *testing.T) {
	p := &recordingPresenter{}
	rep := &recordingReporter{}
	r := newTestRunner(p, rep, nil)
	require.NoError(t, r.RegisterBehavior(behavior.Spec{Modes: []string{"reading"}, Task: "unmapped task"}))

	require.NoError(t, r.BeginRun(context.Background(), "page.html"))

	state, _ := r.State()
	assert.Equal(t, StateFinished, state)
	suite, ok := r.Report()
	require.True(t, ok)
	assert.Empty(t, suite.Behaviors)
	assert.Equal(t, results.StatusPass, suite.Status)
	assert.Len(t, rep.reports, 1)
	assert.Len(t, p.finalReports, 1)
	assert.Empty(t, p.instructions)
	assert.Nil(t, r.Matrix())
}

func TestSingleBehaviorWithOneIncorrectFails(t *testing.T) {
	p := &recordingPresenter{}
	rep := &recordingReporter{}
	r := newTestRunner(p, rep, nil)
	require.NoError(t, r.RegisterBehavior(checkboxSpec("reading")))
	require.NoError(t, r.BeginRun(context.Background(), "page.html"))

	state, index := r.State()
	assert.Equal(t, StateAwaitingSubmission, state)
	assert.Equal(t, 0, index)
	require.Len(t, p.instructions, 1)
	assert.Equal(t, 1, p.instructions[0].Total)
	assert.Equal(t, "put JAWS in reading mode", p.instructions[0].ModeInstructions)
	require.Len(t, p.forms, 1)
	assert.Equal(t, []string{"Down Arrow", "Up Arrow"}, p.forms[0].Behavior.Commands)
	assert.Same(t, r.Matrix(), p.forms[0].Matrix)

	judge(t, r,
		[]results.Judgment{results.JudgmentCorrect, results.JudgmentIncorrect},
		allCorrect)
	submitOK(t, r)

	suite, ok := r.Report()
	require.True(t, ok)
	require.Len(t, suite.Behaviors, 1)
	b := suite.Behaviors[0]
	assert.Equal(t, results.StatusPass, b.AssertionResults[0].Status)
	assert.Equal(t, results.StatusFail, b.AssertionResults[1].Status)
	assert.Equal(t, results.StatusFail, b.Status)
	assert.Equal(t, results.StatusFail, suite.Status)
	assert.Equal(t, "Checkbox tests", suite.Title)
	require.Len(t, rep.reports, 1)
	assert.Equal(t, suite, rep.reports[0])
}

func TestSingleBehaviorWithIncompleteOutputIsIncomplete(t *testing.T) {
	r := newTestRunner(&recordingPresenter{}, nil, nil)
	require.NoError(t, r.RegisterBehavior(checkboxSpec("reading")))
	require.NoError(t, r.BeginRun(context.Background(), "page.html"))

	judge(t, r, allCorrect, allMissing)
	submitOK(t, r)

	suite, _ := r.Report()
	b := suite.Behaviors[0]
	assert.Equal(t, results.StatusIncomplete, b.AssertionResults[0].Status)
	assert.Equal(t, results.StatusIncomplete, b.AssertionResults[1].Status)
	assert.Equal(t, results.StatusIncomplete, b.Status)
	assert.Equal(t, results.StatusIncomplete, suite.Status)
}

func TestFailingBehaviorFailsSuiteAndOrderFollowsQueue(t *testing.T) {
	p := &recordingPresenter{}
	r := newTestRunner(p, nil, nil)
	require.NoError(t, r.RegisterBehavior(checkboxSpec("reading")))
	require.NoError(t, r.RegisterBehavior(operateSpec()))
	require.NoError(t, r.BeginRun(context.Background(), "page.html"))

	judge(t, r, allCorrect, allCorrect)
	submitOK(t, r)

	state, index := r.State()
	assert.Equal(t, StateAwaitingSubmission, state)
	assert.Equal(t, 1, index)
	require.Len(t, p.instructions, 2)
	assert.Equal(t, 1, p.instructions[1].Index)
	assert.Equal(t, 2, p.instructions[1].Total)

	judge(t, r, []results.Judgment{results.JudgmentIncorrect})
	submitOK(t, r)

	suite, _ := r.Report()
	require.Len(t, suite.Behaviors, 2)
	assert.Equal(t, "navigate to the first checkbox", suite.Behaviors[0].Task)
	assert.Equal(t, results.StatusPass, suite.Behaviors[0].Status)
	assert.Equal(t, "check the first checkbox", suite.Behaviors[1].Task)
	assert.Equal(t, results.StatusFail, suite.Behaviors[1].Status)
	assert.Equal(t, results.StatusFail, suite.Status)
}

func TestIncompleteSubmissionIsRejectedAndFocused(t *testing.T) {
	p := &recordingPresenter{}
	rep := &recordingReporter{}
	r := newTestRunner(p, rep, nil)
	require.NoError(t, r.RegisterBehavior(checkboxSpec("reading")))
	require.NoError(t, r.BeginRun(context.Background(), "page.html"))

	m := r.Matrix()
	require.NoError(t, m.SetSpeechOutput(0, "checkbox"))
	require.NoError(t, m.ApplyAllCorrect(0))
	require.NoError(t, m.SetJudgment(1, 0, results.JudgmentCorrect))

	failures, err := r.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "speechoutput-1", failures[0].ControlID())
	assert.Equal(t, "result-1-1", failures[1].ControlID())
	require.Len(t, p.focused, 1)
	assert.Equal(t, failures[0], p.focused[0])

	state, index := r.State()
	assert.Equal(t, StateAwaitingSubmission, state)
	assert.Equal(t, 0, index)
	assert.Same(t, m, r.Matrix(), "input is kept after a rejected submission")
	assert.Empty(t, rep.reports)

	require.NoError(t, m.SetSpeechOutput(1, "checkbox"))
	require.NoError(t, m.SetJudgment(1, 1, results.JudgmentCorrect))
	submitOK(t, r)

	suite, ok := r.Report()
	require.True(t, ok)
	assert.Equal(t, results.StatusPass, suite.Status)
}

func TestRegisterAndBeginAfterStartFail(t *testing.T) {
	r := newTestRunner(&recordingPresenter{}, nil, nil)
	require.NoError(t, r.RegisterBehavior(checkboxSpec("reading")))
	require.NoError(t, r.BeginRun(context.Background(), "page.html"))

	assert.Equal(t, ErrRunStarted, r.RegisterBehavior(operateSpec()))
	assert.Equal(t, ErrRunStarted, r.BeginRun(context.Background(), "page.html"))
	assert.Len(t, r.Queue(), 1)
}

func TestSubmitWhenNotAwaiting(t *testing.T) {
	r := newTestRunner(&recordingPresenter{}, nil, nil)
	_, err := r.Submit(context.Background())
	assert.Equal(t, ErrNotAwaitingSubmission, err)

	require.NoError(t, r.BeginRun(context.Background(), "page.html"))
	_, err = r.Submit(context.Background())
	assert.Equal(t, ErrNotAwaitingSubmission, err)
}

func TestRegisterExpandsModesAndAppliesFilter(t *testing.T) {
	filters := framework.RegexFilters{}
	require.NoError(t, filters.MustNotMatch.Set("/interaction$"))
	r := New(RunnerContext{
		Title:    "Checkbox tests",
		AT:       "JAWS",
		Commands: checkboxCommands,
		Filter:   filters.AsFilter,
	}, Options{})

	require.NoError(t, r.RegisterBehavior(checkboxSpec("reading", "interaction")))
	require.NoError(t, r.RegisterBehavior(operateSpec()))

	var ids []string
	for _, b := range r.Queue() {
		ids = append(ids, b.ID())
	}
	assert.Equal(t, []string{"navigate to checkbox/reading", "operate checkbox/reading"}, ids)
}

func TestWarningsAreRenderedButNotReported(t *testing.T) {
	p := &recordingPresenter{}
	warning := "Harness does not have commands for the requested assistive technology ('FooReader')"
	r := New(RunnerContext{
		Title:    "Checkbox tests",
		AT:       "JAWS",
		Commands: checkboxCommands,
		Warnings: []string{warning},
	}, Options{Presenter: p})

	require.NoError(t, r.BeginRun(context.Background(), "page.html"))

	assert.Equal(t, [][]string{{warning}}, p.warnings)
	suite, _ := r.Report()
	assert.Equal(t, "Checkbox tests", suite.Title)
	assert.Empty(t, suite.Behaviors)
}

func TestReporterErrorIsReturned(t *testing.T) {
	rep := &recordingReporter{err: errBrokenReporter}
	r := newTestRunner(&recordingPresenter{}, rep, nil)
	require.NoError(t, r.RegisterBehavior(operateSpec()))
	require.NoError(t, r.BeginRun(context.Background(), "page.html"))
	judge(t, r, []results.Judgment{results.JudgmentCorrect})

	_, err := r.Submit(context.Background())
	assert.True(t, errors.Is(err, errBrokenReporter))
	state, _ := r.State()
	assert.Equal(t, StateFinished, state)
}

func TestAbandonEndsRunWithoutReport(t *testing.T) {
	host := &fakeController{}
	r := newTestRunner(&recordingPresenter{}, nil, host)
	require.NoError(t, r.RegisterBehavior(operateSpec()))
	require.NoError(t, r.BeginRun(context.Background(), "page.html"))
	require.NoError(t, r.OpenHostWindow(context.Background()))

	r.Abandon(context.Background())

	state, _ := r.State()
	assert.Equal(t, StateFinished, state)
	_, ok := r.Report()
	assert.False(t, ok)
	assert.Equal(t, 1, host.docs[0].getCloseCalls())
	_, err := r.Submit(context.Background())
	assert.Equal(t, ErrNotAwaitingSubmission, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AwaitingSubmission", StateAwaitingSubmission.String())
	assert.Equal(t, "State(9)", State(9).String())
}
