// Package forecast extrapolates yearly catalog additions at a constant
// growth rate taken from a trailing rolling mean.
package forecast

import (
	"math"

	apperrors "catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

// Window is the number of growth rates averaged by the rolling mean.
const Window = 3

// DefaultHorizon is the number of projected years when none is configured.
const DefaultHorizon = 3

// Densify reindexes yearly totals over every year from the first to the last
// and zero-fills the gaps. Input order does not matter.
func Densify(series []domain.YearTotal) []domain.GrowthPoint {
	if len(series) == 0 {
		return []domain.GrowthPoint{}
	}

	counts := make(map[int]int, len(series))
	lo, hi := series[0].Year, series[0].Year
	for _, yt := range series {
		counts[yt.Year] += yt.Count
		lo = min(lo, yt.Year)
		hi = max(hi, yt.Year)
	}

	points := make([]domain.GrowthPoint, 0, hi-lo+1)
	for year := lo; year <= hi; year++ {
		points = append(points, domain.GrowthPoint{Year: year, Total: counts[year]})
	}
	return points
}

// GrowthRates fills the year-over-year percentage growth of each point.
// The first point and points following a zero total stay undefined rather
// than infinite, so a zero year breaks every rolling window that covers it.
func GrowthRates(points []domain.GrowthPoint) {
	for i := range points {
		points[i].GrowthRate = nil
		if i == 0 || points[i-1].Total == 0 {
			continue
		}
		rate := (float64(points[i].Total)/float64(points[i-1].Total) - 1) * 100
		points[i].GrowthRate = &rate
	}
}

// RollingMeans fills the trailing mean of the last Window growth rates.
// A mean is defined only when every rate in its window is defined.
func RollingMeans(points []domain.GrowthPoint) {
	for i := range points {
		points[i].RollingMean = nil
		if i < Window-1 {
			continue
		}
		var sum float64
		defined := true
		for _, p := range points[i-Window+1 : i+1] {
			if p.GrowthRate == nil {
				defined = false
				break
			}
			sum += *p.GrowthRate
		}
		if defined {
			m := sum / Window
			points[i].RollingMean = &m
		}
	}
}

// History densifies the series and derives growth rates and rolling means.
func History(series []domain.YearTotal) []domain.GrowthPoint {
	points := Densify(series)
	GrowthRates(points)
	RollingMeans(points)
	return points
}

// Forecast projects the final year's total forward for horizon years at the
// final rolling mean rate, compounding the same rate each step. It fails
// with an insufficient-history error when that rate is undefined.
func Forecast(series []domain.YearTotal, horizon int) (*domain.Forecast, error) {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	history := History(series)
	if len(history) == 0 || history[len(history)-1].RollingMean == nil {
		return nil, apperrors.NewInsufficientHistoryError(len(history), Window)
	}

	last := history[len(history)-1]
	rate := *last.RollingMean

	points := make([]domain.ForecastPoint, horizon)
	for k := 1; k <= horizon; k++ {
		points[k-1] = domain.ForecastPoint{
			Step:  k,
			Year:  last.Year + k,
			Total: float64(last.Total) * math.Pow(1+rate/100, float64(k)),
		}
	}

	return &domain.Forecast{
		History:   history,
		BaseYear:  last.Year,
		BaseTotal: last.Total,
		Rate:      rate,
		Horizon:   horizon,
		Points:    points,
	}, nil
}
