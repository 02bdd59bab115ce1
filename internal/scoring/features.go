// internal/scoring/features.go
package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/foliometry/insight/internal/session"
)

// Feature vector lengths per task. The index order below is part of each
// model's contract and must never change once a model has been trained.
const (
	// conversion: duration-s, pages, clicks, scroll, intent, source,
	// device, hour-bucket, weekday
	ConversionVectorLen = 9
	// engagement: duration-s, pages, clicks, scroll, avg-time-per-page-s,
	// journey-length, source, device
	EngagementVectorLen = 8
	// churn: total-sessions, mean-gap-days, days-since-last, mean-pages,
	// mean-duration-s, total-conversions
	ChurnVectorLen = 6
)

// VectorLen returns the feature vector length for a task, or 0 for an
// unknown task.
func VectorLen(task Task) int {
	switch task {
	case TaskConversion:
		return ConversionVectorLen
	case TaskEngagement:
		return EngagementVectorLen
	case TaskChurn:
		return ChurnVectorLen
	}
	return 0
}

var searchEngines = []string{"google", "bing", "yahoo", "duckduckgo", "baidu"}

var socialNetworks = []string{"facebook", "twitter", "x.com", "t.co", "instagram", "reddit", "linkedin", "tiktok"}

// SourceCode encodes a traffic source: unknown=0, search=1, social=2,
// any other referrer=3.
func SourceCode(src session.TrafficSource) float64 {
	ref := strings.ToLower(src.Referrer)
	if ref == "" {
		return SourceUnknown
	}
	for _, s := range searchEngines {
		if strings.Contains(ref, s) {
			return SourceSearch
		}
	}
	for _, s := range socialNetworks {
		if strings.Contains(ref, s) {
			return SourceSocial
		}
	}
	return SourceOther
}

// DeviceCode encodes the device class: desktop=0, mobile=1, tablet=2.
func DeviceCode(d session.DeviceInfo) float64 {
	switch {
	case d.IsMobile:
		return DeviceMobile
	case d.IsTablet:
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// HourBucket buckets the session start hour: morning [6,12)=0,
// afternoon [12,18)=1, evening [18,24)=2, night=3. The hour is read off
// the stored timestamp in whatever zone it carries; no normalization is
// performed, matching the tracking layer.
func HourBucket(t time.Time) float64 {
	h := t.Hour()
	switch {
	case h >= 6 && h < 12:
		return 0
	case h >= 12 && h < 18:
		return 1
	case h >= 18:
		return 2
	default:
		return 3
	}
}

// Extract converts a session into the fixed-order feature vector for a
// per-session task (conversion or engagement). Missing fields default to
// zero; Extract never fails. Churn features are per-visitor, see
// ChurnFeatures.
func Extract(s session.Session, task Task) []float64 {
	s = session.Normalize(s)

	switch task {
	case TaskConversion:
		return []float64{
			float64(s.Duration) / 1000,
			float64(s.PagesViewed),
			float64(s.Clicks),
			s.ScrollDepth,
			IntentScore(s),
			SourceCode(s.Source),
			DeviceCode(s.Device),
			HourBucket(s.StartTime),
			float64(s.StartTime.Weekday()),
		}
	case TaskEngagement:
		return []float64{
			float64(s.Duration) / 1000,
			float64(s.PagesViewed),
			float64(s.Clicks),
			s.ScrollDepth,
			session.AvgTimePerPage(s) / 1000,
			float64(len(s.PageJourney)),
			SourceCode(s.Source),
			DeviceCode(s.Device),
		}
	default:
		return nil
	}
}

// Churn feature vector indices, used by the label generator as well.
const (
	ChurnIdxSessions      = 0
	ChurnIdxMeanGapDays   = 1
	ChurnIdxDaysSinceLast = 2
)

// ChurnFeatures aggregates one visitor's session history into the churn
// feature vector, relative to the current time. It requires at least two
// sessions; callers enforce that minimum.
func ChurnFeatures(history []session.Session) []float64 {
	return ChurnFeaturesAt(history, time.Now())
}

// ChurnFeaturesAt is ChurnFeatures with an explicit reference time.
func ChurnFeaturesAt(history []session.Session, now time.Time) []float64 {
	if len(history) == 0 {
		return make([]float64, ChurnVectorLen)
	}

	sorted := make([]session.Session, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var totalPages, totalDurationMS, conversions float64
	for _, s := range sorted {
		s = session.Normalize(s)
		totalPages += float64(s.PagesViewed)
		totalDurationMS += float64(s.Duration)
		if s.Converted {
			conversions++
		}
	}

	n := float64(len(sorted))
	meanGap := MeanGapDays(sorted)
	daysSinceLast := now.Sub(sorted[len(sorted)-1].StartTime).Hours() / 24

	return []float64{
		n,
		meanGap,
		daysSinceLast,
		totalPages / n,
		totalDurationMS / n / 1000,
		conversions,
	}
}

// MeanGapDays returns the mean gap in days between consecutive sessions in
// an already time-ordered history, or 0 with fewer than two sessions.
func MeanGapDays(sorted []session.Session) float64 {
	if len(sorted) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].StartTime.Sub(sorted[i-1].StartTime).Hours() / 24
	}
	return total / float64(len(sorted)-1)
}
