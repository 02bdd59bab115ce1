// internal/predictor/training.go
package predictor

import (
	"sort"
	"time"

	"github.com/foliometry/insight/internal/scoring"
	"github.com/foliometry/insight/internal/session"
)

// TrainingRecord is one (feature vector, label) pair derived from history.
// Labels are 0/1 for conversion and churn, and a soft engagement-level code
// scaled into [0,1] for engagement.
type TrainingRecord struct {
	Features []float64
	Label    float64
}

// usable filters out sessions too empty to learn from.
func usable(s session.Session) bool {
	return s.Duration > 0 && s.PagesViewed > 0
}

func conversionRecords(sessions []session.Session) []TrainingRecord {
	records := make([]TrainingRecord, 0, len(sessions))
	for _, s := range sessions {
		s = session.Normalize(s)
		if !usable(s) {
			continue
		}
		label := 0.0
		if s.Converted {
			label = 1
		}
		records = append(records, TrainingRecord{
			Features: scoring.Extract(s, scoring.TaskConversion),
			Label:    label,
		})
	}
	return records
}

func engagementRecords(sessions []session.Session) []TrainingRecord {
	records := make([]TrainingRecord, 0, len(sessions))
	for _, s := range sessions {
		s = session.Normalize(s)
		if !usable(s) {
			continue
		}
		records = append(records, TrainingRecord{
			Features: scoring.Extract(s, scoring.TaskEngagement),
			Label:    scoring.EngagementLevelOf(s).Code() / 3,
		})
	}
	return records
}

// churnRecords aggregates sessions by visitor and emits one record per
// visitor with at least two sessions.
func churnRecords(sessions []session.Session, now time.Time) []TrainingRecord {
	byVisitor := make(map[string][]session.Session)
	for _, s := range sessions {
		if s.VisitorID == "" || !usable(session.Normalize(s)) {
			continue
		}
		byVisitor[s.VisitorID] = append(byVisitor[s.VisitorID], s)
	}

	visitors := make([]string, 0, len(byVisitor))
	for id, history := range byVisitor {
		if len(history) >= 2 {
			visitors = append(visitors, id)
		}
	}
	// Deterministic record order regardless of map iteration.
	sort.Strings(visitors)

	records := make([]TrainingRecord, 0, len(visitors))
	for _, id := range visitors {
		features := scoring.ChurnFeaturesAt(byVisitor[id], now)
		records = append(records, TrainingRecord{
			Features: features,
			Label:    churnLabel(features),
		})
	}
	return records
}

// churnLabel derives the training label from the churn features: a visitor
// counts as churned when the time since their last visit exceeds twice
// their mean inter-session gap. This heuristic is the label generator only,
// never the inference path, and is isolated here so a business-validated
// definition can replace it without touching the pipeline.
func churnLabel(features []float64) float64 {
	meanGap := features[scoring.ChurnIdxMeanGapDays]
	daysSince := features[scoring.ChurnIdxDaysSinceLast]
	if daysSince > 2*meanGap {
		return 1
	}
	return 0
}

// FallbackConversionScore is the deterministic conversion estimate used
// when no ready model exists: additive, capped per factor, clamped to
// [0,100]. An all-zero session scores 0.
func FallbackConversionScore(s session.Session) float64 {
	s = session.Normalize(s)

	var score float64
	switch {
	case s.Duration > 300000:
		score += 30
	case s.Duration > 120000:
		score += 20
	case s.Duration > 60000:
		score += 10
	}

	score += minF(float64(s.PagesViewed)*10, 30)
	score += minF(float64(s.Clicks)*5, 20)
	score += minF(s.ScrollDepth/5, 20)

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
