package gradebook

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary defaults; both are tunable via SummaryOptions / config.
const (
	DefaultHistogramBins = 20
	DefaultKDEPoints     = 100
)

type (
	// SummaryOptions tune the class summary computation. Zero values pick
	// the documented defaults; a zero Bandwidth selects Silverman's rule.
	SummaryOptions struct {
		Bins      int     `json:"bins"`
		Bandwidth float64 `json:"bandwidth"`
		Points    int     `json:"points"`
	}

	HistogramBin struct {
		Low   float64 `json:"low"`
		High  float64 `json:"high"`
		Count int     `json:"count"`
	}

	DensityPoint struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	// ClassSummary is derived from the final scores on demand, never stored.
	ClassSummary struct {
		Count       int            `json:"count"`   // students with a usable final score
		Missing     int            `json:"missing"` // students without one
		Mean        float64        `json:"mean"`
		StdDev      float64        `json:"std_dev"`
		Min         float64        `json:"min"`
		Max         float64        `json:"max"`
		Bandwidth   float64        `json:"bandwidth"` // KDE bandwidth actually used
		Histogram   []HistogramBin `json:"histogram"`
		Density     []DensityPoint `json:"density"`
		GradeCounts map[string]int `json:"grade_counts"`
	}
)

func (o SummaryOptions) withDefaults() SummaryOptions {
	if o.Bins <= 0 {
		o.Bins = DefaultHistogramBins
	}
	if o.Points <= 0 {
		o.Points = DefaultKDEPoints
	}
	if o.Bandwidth < 0 {
		o.Bandwidth = 0
	}
	return o
}

// Finals collects the usable final scores, in roster order.
func (gb *Gradebook) Finals() []float64 {
	finals := make([]float64, 0, len(gb.Students))
	for _, s := range gb.Students {
		if s.Final != nil {
			finals = append(finals, *s.Final)
		}
	}
	return finals
}

// Summarize computes the class-level statistics over all usable final scores.
func Summarize(gb *Gradebook, opts SummaryOptions) ClassSummary {
	opts = opts.withDefaults()

	finals := gb.Finals()
	summary := ClassSummary{
		Count:       len(finals),
		Missing:     len(gb.Students) - len(finals),
		GradeCounts: make(map[string]int),
	}
	for _, s := range gb.Students {
		if s.LetterGrade != "" {
			summary.GradeCounts[s.LetterGrade]++
		}
	}
	if len(finals) == 0 {
		return summary
	}

	summary.Mean = stat.Mean(finals, nil)
	if len(finals) > 1 {
		summary.StdDev = stat.StdDev(finals, nil)
	}
	summary.Min = floats.Min(finals)
	summary.Max = floats.Max(finals)

	summary.Histogram = histogram(finals, opts.Bins)

	summary.Bandwidth = opts.Bandwidth
	if summary.Bandwidth == 0 {
		summary.Bandwidth = silverman(summary.StdDev, len(finals))
	}
	summary.Density = kernelDensity(finals, summary.Bandwidth, opts.Points)

	return summary
}

func histogram(finals []float64, bins int) []HistogramBin {
	sorted := make([]float64, len(finals))
	copy(sorted, finals)
	sort.Float64s(sorted)

	low, high := sorted[0], sorted[len(sorted)-1]
	if low == high {
		low -= 0.5
		high += 0.5
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, low, high)
	// keep the max value inside the last bin
	dividers[bins] = math.Nextafter(high, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i] = HistogramBin{
			Low:   dividers[i],
			High:  dividers[i+1],
			Count: int(counts[i]),
		}
	}
	return out
}

// silverman is the rule-of-thumb Gaussian KDE bandwidth: 1.06 * sigma * n^(-1/5).
func silverman(sigma float64, n int) float64 {
	if sigma == 0 {
		return 1
	}
	return 1.06 * sigma * math.Pow(float64(n), -0.2)
}

func kernelDensity(finals []float64, bandwidth float64, points int) []DensityPoint {
	low := floats.Min(finals) - 3*bandwidth
	high := floats.Max(finals) + 3*bandwidth

	xs := make([]float64, points)
	floats.Span(xs, low, high)

	norm := 1 / (float64(len(finals)) * bandwidth * math.Sqrt(2*math.Pi))
	out := make([]DensityPoint, points)
	for i, x := range xs {
		var y float64
		for _, v := range finals {
			u := (x - v) / bandwidth
			y += math.Exp(-0.5 * u * u)
		}
		out[i] = DensityPoint{X: x, Y: y * norm}
	}
	return out
}
