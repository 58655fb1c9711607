package gradebook

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportGradebook(t *testing.T) *Gradebook {
	t.Helper()
	roster := mustRoster(t, "NetID\nS1\nS2\n")
	grades := mustGrades(t, "SID,exam\nS1,80\n")
	quiz := mustQuiz(t, "Email,Grade\nS1,90\nS2,70\n", "quiz.csv")

	gb, err := Merge(roster, grades, []Quiz{quiz})
	require.NoError(t, err)
	require.NoError(t, ApplyWeights(gb, WeightConfig{"exam": 0.7, "Quiz": 0.3}))
	return gb
}

func assertTextEqual(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	require.NoError(t, err)
	t.Errorf("report text mismatch:\n%s", diff)
}

func TestReport(t *testing.T) {
	gb := reportGradebook(t)

	rep, err := Report(gb, "s1")
	require.NoError(t, err)

	require.NotNil(t, rep.Final)
	assert.InDelta(t, 83.0, *rep.Final, 1e-9)
	assert.Equal(t, "B", rep.LetterGrade)
	assert.Equal(t, 1, rep.Rank)
	assert.Equal(t, 2, rep.ClassSize)
	assert.InDelta(t, 100.0, rep.Percentile, 1e-9)
	assert.InDelta(t, 76.5, rep.ClassAverage, 1e-9)

	require.Len(t, rep.Scores, 2)
	assert.Equal(t, "exam", rep.Scores[0].Category)
	require.NotNil(t, rep.Scores[0].Score)
	assert.Equal(t, 80.0, *rep.Scores[0].Score)
	assert.Equal(t, 80.0, rep.Scores[0].ClassAverage)
	assert.Equal(t, "Quiz", rep.Scores[1].Category)
	assert.Equal(t, 80.0, rep.Scores[1].ClassAverage)

	// the text block carries the literal weighted final
	assert.Contains(t, rep.Text, "83.0")

	want := `STUDENT: s1 (s1)
GRADE:   B (83%)
FINAL:   83.0
AVG:     76.5
RANK:    1/2 (percentile 100.0)
-----------------------------------
exam: 80.0 (class avg 80.0)
Quiz: 90.0 (class avg 80.0)
`
	assertTextEqual(t, want, rep.Text)
}

func TestReport_missingCategoryAndRank(t *testing.T) {
	gb := reportGradebook(t)

	rep, err := Report(gb, "s2")
	require.NoError(t, err)

	require.NotNil(t, rep.Final)
	assert.InDelta(t, 70.0, *rep.Final, 1e-9)
	assert.Equal(t, 2, rep.Rank)
	assert.InDelta(t, 50.0, rep.Percentile, 1e-9)

	// missing exam shows as missing, not zero
	require.NotNil(t, rep.Scores[0])
	assert.Nil(t, rep.Scores[0].Score)
	assert.True(t, strings.Contains(rep.Text, "exam: -- (class avg 80.0)"))
}

func TestReport_unscoredStudent(t *testing.T) {
	roster := mustRoster(t, "NetID\nS1\n")
	grades := mustGrades(t, "SID,exam\n")
	gb, err := Merge(roster, grades, nil)
	require.NoError(t, err)
	require.NoError(t, ApplyWeights(gb, WeightConfig{"exam": 1}))

	rep, err := Report(gb, "s1")
	require.NoError(t, err)

	assert.Nil(t, rep.Final)
	assert.Equal(t, 0, rep.Rank)
	assert.Contains(t, rep.Text, "no usable score")
}

func TestReport_notFound(t *testing.T) {
	gb := reportGradebook(t)

	_, err := Report(gb, "ghost")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
