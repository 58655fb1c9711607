package chartsvc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestGradeCounts(t *testing.T) {
	var buf bytes.Buffer
	err := GradeCounts(&buf, map[string]int{"A": 3, "B": 5, "F": 1})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestGradeCounts_noData(t *testing.T) {
	var buf bytes.Buffer
	err := GradeCounts(&buf, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDistribution(t *testing.T) {
	summary := gradebook.ClassSummary{
		Count: 3,
		Histogram: []gradebook.HistogramBin{
			{Low: 70, High: 80, Count: 1},
			{Low: 80, High: 90, Count: 2},
		},
		Density: []gradebook.DensityPoint{
			{X: 70, Y: 0.01}, {X: 80, Y: 0.05}, {X: 90, Y: 0.02},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Distribution(&buf, summary))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestDistribution_noData(t *testing.T) {
	var buf bytes.Buffer
	err := Distribution(&buf, gradebook.ClassSummary{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestStudentComparison(t *testing.T) {
	score := 83.0
	rep := gradebook.StudentReport{
		Name: "John Doe",
		Scores: []gradebook.CategoryScore{
			{Category: "exam", Score: &score, ClassAverage: 75},
			{Category: "quiz", Score: nil, ClassAverage: 80}, // skipped
		},
	}

	var buf bytes.Buffer
	require.NoError(t, StudentComparison(&buf, rep))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestStudentComparison_noScores(t *testing.T) {
	var buf bytes.Buffer
	err := StudentComparison(&buf, gradebook.StudentReport{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNoData)
}
