package results

import (
	"errors"
	"testing"

	"github.com/launchdarkly/aria-at-harness/behavior"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReadingBehavior() behavior.Resolved {
	return behavior.Resolved{
		Mode:                    "reading",
		Task:                    "navigate to checkbox",
		SpecificUserInstruction: "navigate to the first checkbox",
		Commands:                []string{"Down Arrow", "Up Arrow"},
		Assertions:              []string{"announces role", "announces name"},
	}
}

func fillSpeech(t *testing.T, m *Matrix) {
	for c := 0; c < m.NumCommands(); c++ {
		require.NoError(t, m.SetSpeechOutput(c, "checkbox, not checked"))
	}
}

func setCells(t *testing.T, m *Matrix, c int, judgments ...Judgment) {
	for a, j := range judgments {
		require.NoError(t, m.SetJudgment(c, a, j))
	}
}

func TestNewMatrixIsEmpty(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	for c := 0; c < 2; c++ {
		for a := 0; a < 2; a++ {
			j, err := m.Judgment(c, a)
			require.NoError(t, err)
			assert.Equal(t, JudgmentUnset, j)
		}
		s, err := m.Summary(c)
		require.NoError(t, err)
		assert.Equal(t, CommandSummary{}, s)
	}
}

func TestApplyAllCorrectAndAllIncompleteAreExclusive(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())

	require.NoError(t, m.ApplyAllCorrect(0))
	for a := 0; a < 2; a++ {
		j, _ := m.Judgment(0, a)
		assert.Equal(t, JudgmentCorrect, j)
	}
	s, _ := m.Summary(0)
	assert.True(t, s.AllCorrect)
	assert.False(t, s.AllIncomplete)

	require.NoError(t, m.ApplyAllIncomplete(0))
	for a := 0; a < 2; a++ {
		j, _ := m.Judgment(0, a)
		assert.Equal(t, JudgmentIncomplete, j)
	}
	s, _ = m.Summary(0)
	assert.False(t, s.AllCorrect)
	assert.True(t, s.AllIncomplete)

	require.NoError(t, m.ApplyAllCorrect(0))
	s, _ = m.Summary(0)
	assert.True(t, s.AllCorrect)
	assert.False(t, s.AllIncomplete)
}

func TestJudgingEveryAssertionCorrectPromotesAllCorrect(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())

	require.NoError(t, m.SetJudgment(1, 0, JudgmentCorrect))
	s, _ := m.Summary(1)
	assert.False(t, s.AllCorrect)

	require.NoError(t, m.SetJudgment(1, 1, JudgmentCorrect))
	s, _ = m.Summary(1)
	assert.True(t, s.AllCorrect)

	require.NoError(t, m.SetJudgment(1, 1, JudgmentIncorrect))
	s, _ = m.Summary(1)
	assert.False(t, s.AllCorrect, "flag follows the cells when the tester changes their mind")
}

func TestIndexesAreChecked(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	assert.True(t, errors.Is(m.SetJudgment(2, 0, JudgmentCorrect), ErrIndexOutOfRange))
	assert.True(t, errors.Is(m.SetJudgment(0, -1, JudgmentCorrect), ErrIndexOutOfRange))
	assert.True(t, errors.Is(m.SetSpeechOutput(5, "x"), ErrIndexOutOfRange))
	assert.True(t, errors.Is(m.ApplyAllCorrect(-1), ErrIndexOutOfRange))
	assert.True(t, errors.Is(m.SetNote(0, 2, "x"), ErrIndexOutOfRange))
	assert.Error(t, m.SetJudgment(0, 0, Judgment(42)))
}

func TestValidateReportsBlankSpeechOutput(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	require.NoError(t, m.ApplyAllCorrect(0))
	require.NoError(t, m.ApplyAllCorrect(1))
	require.NoError(t, m.SetSpeechOutput(0, "checkbox"))
	require.NoError(t, m.SetSpeechOutput(1, "   "))

	failures := m.Validate()

	require.Len(t, failures, 1)
	assert.Equal(t, FieldSpeechOutput, failures[0].Field)
	assert.Equal(t, 1, failures[0].Command)
	assert.Equal(t, -1, failures[0].Assertion)
	assert.Equal(t, "speechoutput-1", failures[0].ControlID())
}

func TestValidateReportsUnsetCellsInOrder(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	require.NoError(t, m.SetSpeechOutput(1, "checkbox"))
	require.NoError(t, m.SetJudgment(0, 0, JudgmentIncorrect))

	failures := m.Validate()

	var controls []string
	for _, f := range failures {
		controls = append(controls, f.ControlID())
	}
	assert.Equal(t, []string{"speechoutput-0", "result-0-1", "result-1-0", "result-1-1"}, controls)
	assert.Equal(t, "announces name", failures[1].AssertionName)
	assert.Contains(t, failures[1].Error(), "announces name")
}

func TestValidatePassesWhenComplete(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	fillSpeech(t, m)
	setCells(t, m, 0, JudgmentCorrect, JudgmentIncorrect)
	require.NoError(t, m.ApplyAllIncomplete(1))

	assert.Empty(t, m.Validate())
}

func TestFreezeRefusesIncompleteMatrix(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	setCells(t, m, 0, JudgmentCorrect, JudgmentCorrect)

	_, failures := m.Freeze()
	assert.NotEmpty(t, failures)
}

func TestFreezeOneIncorrectFails(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	fillSpeech(t, m)
	setCells(t, m, 0, JudgmentCorrect, JudgmentIncorrect)
	setCells(t, m, 1, JudgmentCorrect, JudgmentCorrect)
	require.NoError(t, m.SetNote(0, 1, "said button"))

	result, failures := m.Freeze()
	require.Empty(t, failures)

	require.Len(t, result.Assertions, 2)
	assert.Equal(t, "announces role", result.Assertions[0].Name)
	assert.Equal(t, StatusPass, result.Assertions[0].Status)
	assert.Equal(t, StatusFail, result.Assertions[1].Status)
	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, StatusFail, SuiteStatus([]BehaviorResult{result}))

	incorrect := result.Assertions[1].CommandsWith(JudgmentIncorrect)
	assert.Equal(t, []CommandDetail{{Command: "Down Arrow", Judgment: JudgmentIncorrect, Note: "said button"}}, incorrect)
	assert.Equal(t, "checkbox, not checked", result.SpeechOutput["Up Arrow"])
	assert.Equal(t, "navigate to checkbox/reading", result.ID())
}

func TestFreezeIncompleteWithoutIncorrect(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	fillSpeech(t, m)
	setCells(t, m, 0, JudgmentCorrect, JudgmentCorrect)
	setCells(t, m, 1, JudgmentIncomplete, JudgmentIncomplete)

	result, failures := m.Freeze()
	require.Empty(t, failures)

	assert.Equal(t, StatusIncomplete, result.Assertions[0].Status)
	assert.Equal(t, StatusIncomplete, result.Assertions[1].Status)
	assert.Equal(t, StatusIncomplete, result.Status)
	assert.Equal(t, StatusIncomplete, SuiteStatus([]BehaviorResult{result}))
}

func TestFreezeAllCorrectPasses(t *testing.T) {
	m := NewMatrix(makeReadingBehavior())
	fillSpeech(t, m)
	require.NoError(t, m.ApplyAllCorrect(0))
	setCells(t, m, 1, JudgmentCorrect, JudgmentCorrect)

	result, failures := m.Freeze()
	require.Empty(t, failures)
	assert.Equal(t, StatusPass, result.Status)
}

func TestFreezeIncorrectAnywhereFails(t *testing.T) {
	for c := 0; c < 2; c++ {
		for a := 0; a < 2; a++ {
			m := NewMatrix(makeReadingBehavior())
			fillSpeech(t, m)
			require.NoError(t, m.ApplyAllIncomplete(0))
			require.NoError(t, m.ApplyAllCorrect(1))
			require.NoError(t, m.SetJudgment(c, a, JudgmentIncorrect))

			result, failures := m.Freeze()
			require.Empty(t, failures)
			assert.Equal(t, StatusFail, result.Status, "incorrect at command %d assertion %d", c, a)
		}
	}
}
