// Package chartsvc renders the gradebook's numeric series as PNG charts.
package chartsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
)

// ErrNoData means there is nothing to chart yet (no student has a usable score).
var ErrNoData = errors.New("no scored students to chart")

const (
	chartWidth  = 600
	chartHeight = 400
)

var letterOrder = []string{"A", "B", "C", "D", "F"}

// GradeCounts renders the how-many-students-got-each-grade bar chart.
func GradeCounts(w io.Writer, counts map[string]int) error {
	bars := make([]chart.Value, 0, len(counts))
	for _, letter := range letterOrder {
		if n, ok := counts[letter]; ok {
			bars = append(bars, chart.Value{Label: letter, Value: float64(n)})
		}
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	graph := chart.BarChart{
		Title:    "Grade Counts",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
	}
	return errors.Wrap(graph.Render(chart.PNG, w), "rendering grade counts chart")
}

// Distribution renders the score histogram with the density curve on top.
func Distribution(w io.Writer, summary gradebook.ClassSummary) error {
	if summary.Count == 0 || len(summary.Histogram) == 0 {
		return ErrNoData
	}

	// histogram as a density so both series share a scale
	binWidth := summary.Histogram[0].High - summary.Histogram[0].Low
	histXs := make([]float64, 0, len(summary.Histogram))
	histYs := make([]float64, 0, len(summary.Histogram))
	for _, bin := range summary.Histogram {
		histXs = append(histXs, (bin.Low+bin.High)/2)
		histYs = append(histYs, float64(bin.Count)/(float64(summary.Count)*binWidth))
	}

	densXs := make([]float64, 0, len(summary.Density))
	densYs := make([]float64, 0, len(summary.Density))
	for _, p := range summary.Density {
		densXs = append(densXs, p.X)
		densYs = append(densYs, p.Y)
	}

	graph := chart.Chart{
		Title:  "Score Distribution",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Final Score"},
		YAxis:  chart.YAxis{Name: "Density"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Histogram",
				XValues: histXs,
				YValues: histYs,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					FillColor:   drawing.ColorBlue.WithAlpha(100),
				},
			},
			chart.ContinuousSeries{
				Name:    "Density",
				XValues: densXs,
				YValues: densYs,
				Style: chart.Style{
					StrokeColor: drawing.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}
	return errors.Wrap(graph.Render(chart.PNG, w), "rendering distribution chart")
}

// StudentComparison renders one student's category scores next to the class
// average for each category.
func StudentComparison(w io.Writer, rep gradebook.StudentReport) error {
	bars := make([]chart.Value, 0, 2*len(rep.Scores))
	for _, cs := range rep.Scores {
		if cs.Score == nil {
			continue
		}
		bars = append(bars,
			chart.Value{Label: cs.Category, Value: *cs.Score},
			chart.Value{Label: cs.Category + " (avg)", Value: cs.ClassAverage},
		)
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	graph := chart.BarChart{
		Title:    "Grades: " + rep.Name,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 30,
		Bars:     bars,
	}
	return errors.Wrap(graph.Render(chart.PNG, w), "rendering student chart")
}
