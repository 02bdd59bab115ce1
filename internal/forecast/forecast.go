// internal/forecast/forecast.go
package forecast

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/foliometry/insight/internal/session"
)

// Window of trailing buckets the extrapolation is computed over.
const window = 7

// DayForecast is one predicted traffic bucket.
type DayForecast struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Result is a short-horizon traffic forecast. Confidence is a coarse tier
// based on how much history backed the forecast, deliberately not a
// statistical confidence interval.
type Result struct {
	Predictions     []DayForecast `json:"predictions"`
	Confidence      int           `json:"confidence"`
	Recommendations []string      `json:"recommendations"`
}

// Engine produces traffic forecasts from time-bucketed visit counts. It
// operates on aggregated counts only, never on individual sessions.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a forecast engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Forecast extrapolates the last seven buckets with a moving average plus
// linear trend. dailyCounts must be ordered oldest first; horizonDays below
// 1 defaults to 7.
func (e *Engine) Forecast(dailyCounts []session.DailyCount, horizonDays int) Result {
	if horizonDays < 1 {
		horizonDays = 7
	}

	recent := dailyCounts
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	var average, trend float64
	if len(recent) > 0 {
		var sum float64
		for _, d := range recent {
			sum += float64(d.Count)
		}
		average = sum / float64(len(recent))
	}
	if len(recent) >= 2 {
		first := float64(recent[0].Count)
		last := float64(recent[len(recent)-1].Count)
		trend = (last - first) / window
	}

	start := time.Now()
	if len(dailyCounts) > 0 {
		start = dailyCounts[len(dailyCounts)-1].Date
	}

	predictions := make([]DayForecast, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		count := int(math.Round(average + trend*float64(i)))
		if count < 0 {
			count = 0
		}
		predictions = append(predictions, DayForecast{
			Date:  start.AddDate(0, 0, i),
			Count: count,
		})
	}

	e.logger.Debug("forecast computed",
		zap.Int("history", len(dailyCounts)),
		zap.Int("horizon", horizonDays),
		zap.Float64("average", average),
		zap.Float64("trend", trend))

	return Result{
		Predictions:     predictions,
		Confidence:      confidence(len(dailyCounts)),
		Recommendations: recommendations(trend, average),
	}
}

// confidence tiers by the amount of available history.
func confidence(historyLen int) int {
	switch {
	case historyLen < 7:
		return 60
	case historyLen < 14:
		return 75
	case historyLen < 21:
		return 85
	default:
		return 92
	}
}

// recommendations is an advisory rule table on the trend and average.
func recommendations(trend, average float64) []string {
	var recs []string
	if trend > 5 {
		recs = append(recs,
			"Traffic is growing quickly; consider publishing new projects while visibility is high.")
	} else if trend < -5 {
		recs = append(recs,
			"Traffic is declining; consider refreshing content or sharing recent work.")
	}
	if average > 100 {
		recs = append(recs,
			"Sustained high traffic; review hosting capacity and page performance.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Traffic is stable; keep the current publishing cadence.")
	}
	return recs
}
