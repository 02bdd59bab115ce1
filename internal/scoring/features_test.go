package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliometry/insight/internal/session"
)

func TestSourceCode(t *testing.T) {
	tests := []struct {
		referrer string
		want     float64
	}{
		{"", SourceUnknown},
		{"https://www.google.com/search?q=portfolio", SourceSearch},
		{"https://duckduckgo.com/", SourceSearch},
		{"https://www.facebook.com/", SourceSocial},
		{"https://t.co/abc", SourceSocial},
		{"https://some-blog.example.com/", SourceOther},
	}

	for _, tt := range tests {
		got := SourceCode(session.TrafficSource{Referrer: tt.referrer})
		assert.Equal(t, tt.want, got, "referrer %q", tt.referrer)
	}
}

func TestDeviceCode(t *testing.T) {
	assert.Equal(t, float64(DeviceDesktop), DeviceCode(session.DeviceInfo{}))
	assert.Equal(t, float64(DeviceMobile), DeviceCode(session.DeviceInfo{IsMobile: true}))
	assert.Equal(t, float64(DeviceTablet), DeviceCode(session.DeviceInfo{IsTablet: true}))
	// Mobile wins when the tracker sets both flags.
	assert.Equal(t, float64(DeviceMobile), DeviceCode(session.DeviceInfo{IsMobile: true, IsTablet: true}))
}

func TestHourBucket(t *testing.T) {
	mk := func(hour int) time.Time {
		return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 0.0, HourBucket(mk(6)))
	assert.Equal(t, 0.0, HourBucket(mk(11)))
	assert.Equal(t, 1.0, HourBucket(mk(12)))
	assert.Equal(t, 1.0, HourBucket(mk(17)))
	assert.Equal(t, 2.0, HourBucket(mk(18)))
	assert.Equal(t, 2.0, HourBucket(mk(23)))
	assert.Equal(t, 3.0, HourBucket(mk(0)))
	assert.Equal(t, 3.0, HourBucket(mk(5)))
}

func TestExtract_VectorLengths(t *testing.T) {
	s := session.Session{
		StartTime:   time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Duration:    120000,
		PagesViewed: 4,
		Clicks:      7,
		ScrollDepth: 60,
	}

	assert.Len(t, Extract(s, TaskConversion), ConversionVectorLen)
	assert.Len(t, Extract(s, TaskEngagement), EngagementVectorLen)
	assert.Nil(t, Extract(s, Task("bogus")))
}

func TestExtract_ConversionOrder(t *testing.T) {
	start := time.Date(2026, 3, 13, 14, 30, 0, 0, time.UTC) // Friday afternoon
	s := session.Session{
		StartTime:   start,
		Duration:    90000,
		PagesViewed: 3,
		Clicks:      5,
		ScrollDepth: 42,
		Source:      session.TrafficSource{Referrer: "https://google.com"},
		Device:      session.DeviceInfo{IsTablet: true},
	}

	v := Extract(s, TaskConversion)
	require.Len(t, v, ConversionVectorLen)
	assert.Equal(t, 90.0, v[0])
	assert.Equal(t, 3.0, v[1])
	assert.Equal(t, 5.0, v[2])
	assert.Equal(t, 42.0, v[3])
	assert.Equal(t, IntentScore(s), v[4])
	assert.Equal(t, float64(SourceSearch), v[5])
	assert.Equal(t, float64(DeviceTablet), v[6])
	assert.Equal(t, 1.0, v[7])
	assert.Equal(t, float64(time.Friday), v[8])
}

func TestExtract_EmptySessionDefaultsToZero(t *testing.T) {
	v := Extract(session.Session{}, TaskEngagement)
	require.Len(t, v, EngagementVectorLen)
	for i, f := range v {
		if i == 6 || i == 7 {
			continue // source/device codes are legitimately zero anyway
		}
		assert.Zero(t, f, "index %d", i)
	}
}

func TestChurnFeaturesAt(t *testing.T) {
	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	history := []session.Session{
		{StartTime: now.AddDate(0, 0, -20), Duration: 60000, PagesViewed: 2},
		{StartTime: now.AddDate(0, 0, -12), Duration: 120000, PagesViewed: 4, Converted: true},
		{StartTime: now.AddDate(0, 0, -10), Duration: 180000, PagesViewed: 6},
	}

	v := ChurnFeaturesAt(history, now)
	require.Len(t, v, ChurnVectorLen)
	assert.Equal(t, 3.0, v[ChurnIdxSessions])
	assert.Equal(t, 5.0, v[ChurnIdxMeanGapDays]) // gaps of 8 and 2 days
	assert.Equal(t, 10.0, v[ChurnIdxDaysSinceLast])
	assert.Equal(t, 4.0, v[3])   // mean pages
	assert.Equal(t, 120.0, v[4]) // mean duration seconds
	assert.Equal(t, 1.0, v[5])   // conversions
}

func TestChurnFeaturesAt_UnorderedInput(t *testing.T) {
	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	ordered := []session.Session{
		{StartTime: now.AddDate(0, 0, -30), Duration: 60000, PagesViewed: 1},
		{StartTime: now.AddDate(0, 0, -15), Duration: 60000, PagesViewed: 1},
		{StartTime: now.AddDate(0, 0, -3), Duration: 60000, PagesViewed: 1},
	}
	shuffled := []session.Session{ordered[2], ordered[0], ordered[1]}

	assert.Equal(t, ChurnFeaturesAt(ordered, now), ChurnFeaturesAt(shuffled, now))
}

func TestChurnFeaturesAt_EmptyHistory(t *testing.T) {
	v := ChurnFeaturesAt(nil, time.Now())
	assert.Equal(t, make([]float64, ChurnVectorLen), v)
}

func TestMeanGapDays_SingleSession(t *testing.T) {
	history := []session.Session{{StartTime: time.Now()}}
	assert.Zero(t, MeanGapDays(history))
}
