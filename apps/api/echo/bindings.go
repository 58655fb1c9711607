package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
)

const (
	binsParam      = "bins"
	bandwidthParam = "bandwidth"
	pointsParam    = "points"
	sectionParam   = "section"
	formatParam    = "format"
)

// SummaryQuery binds the class summary tuning parameters, falling back to the
// configured defaults.
type SummaryQuery struct {
	Opts gradebook.SummaryOptions
}

func (q *SummaryQuery) Bind(ctx echo.Context, conf *core.Config) {
	q.Opts = gradebook.SummaryOptions{
		Bins:      conf.Summary.HistogramBins,
		Bandwidth: conf.Summary.KDEBandwidth,
		Points:    conf.Summary.KDEPoints,
	}

	if raw := ctx.QueryParam(binsParam); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			q.Opts.Bins = v
		}
	}
	if raw := ctx.QueryParam(bandwidthParam); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			q.Opts.Bandwidth = v
		}
	}
	if raw := ctx.QueryParam(pointsParam); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 1 {
			q.Opts.Points = v
		}
	}
}
