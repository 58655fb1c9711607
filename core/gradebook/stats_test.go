package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredGradebook(t *testing.T) *Gradebook {
	t.Helper()
	roster := mustRoster(t, "NetID\nS1\nS2\nS3\nS4\nS5\n")
	grades := mustGrades(t, "SID,exam\nS1,70\nS2,80\nS3,90\nS4,100\n")

	gb, err := Merge(roster, grades, nil)
	require.NoError(t, err)
	require.NoError(t, ApplyWeights(gb, WeightConfig{"exam": 1}))
	return gb
}

func TestSummarize(t *testing.T) {
	gb := scoredGradebook(t)

	summary := Summarize(gb, SummaryOptions{Bins: 4})

	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 1, summary.Missing) // S5 has no usable score

	// summary mean equals the arithmetic mean of the finals
	assert.InDelta(t, (70.0+80+90+100)/4, summary.Mean, 1e-9)

	wantVar := (225.0 + 25 + 25 + 225) / 3 // sample variance
	assert.InDelta(t, math.Sqrt(wantVar), summary.StdDev, 1e-9)

	assert.Equal(t, 70.0, summary.Min)
	assert.Equal(t, 100.0, summary.Max)

	require.Len(t, summary.Histogram, 4)
	var total int
	for _, bin := range summary.Histogram {
		total += bin.Count
	}
	assert.Equal(t, 4, total, "histogram must count every scored student")
	// one student per even-width bin, max value included in the last bin
	for i, bin := range summary.Histogram {
		assert.Equal(t, 1, bin.Count, "bin %d", i)
	}

	assert.Equal(t, map[string]int{"C": 1, "B": 1, "A": 2}, summary.GradeCounts)
}

func TestSummarize_density(t *testing.T) {
	gb := scoredGradebook(t)

	summary := Summarize(gb, SummaryOptions{Points: 200})

	require.Len(t, summary.Density, 200)
	assert.Greater(t, summary.Bandwidth, 0.0)

	// the estimate integrates to ~1 over its support (trapezoid rule)
	var integral float64
	for i := 1; i < len(summary.Density); i++ {
		dx := summary.Density[i].X - summary.Density[i-1].X
		integral += dx * (summary.Density[i].Y + summary.Density[i-1].Y) / 2
	}
	assert.InDelta(t, 1.0, integral, 0.02)
}

func TestSummarize_bandwidthOverride(t *testing.T) {
	gb := scoredGradebook(t)

	summary := Summarize(gb, SummaryOptions{Bandwidth: 2.5})
	assert.Equal(t, 2.5, summary.Bandwidth)
}

func TestSummarize_empty(t *testing.T) {
	roster := mustRoster(t, "NetID\nS1\n")
	gb, err := Merge(roster, nil, nil)
	require.NoError(t, err)

	summary := Summarize(gb, SummaryOptions{})
	assert.Equal(t, 0, summary.Count)
	assert.Equal(t, 1, summary.Missing)
	assert.Empty(t, summary.Histogram)
	assert.Empty(t, summary.Density)
}

func TestSummarize_identicalScores(t *testing.T) {
	roster := mustRoster(t, "NetID\nS1\nS2\n")
	grades := mustGrades(t, "SID,exam\nS1,85\nS2,85\n")
	gb, err := Merge(roster, grades, nil)
	require.NoError(t, err)
	require.NoError(t, ApplyWeights(gb, WeightConfig{"exam": 1}))

	summary := Summarize(gb, SummaryOptions{Bins: 5})

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 0.0, summary.StdDev)
	var total int
	for _, bin := range summary.Histogram {
		total += bin.Count
	}
	assert.Equal(t, 2, total)
	require.NotEmpty(t, summary.Density)
}
