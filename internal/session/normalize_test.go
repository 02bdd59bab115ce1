package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FillsDefaults(t *testing.T) {
	s := Normalize(Session{})
	assert.NotNil(t, s.TimeOnPage)
	assert.NotNil(t, s.PageJourney)
	assert.Zero(t, s.Duration)
	assert.Zero(t, s.PagesViewed)
}

func TestNormalize_ClampsOutOfRangeValues(t *testing.T) {
	s := Normalize(Session{ScrollDepth: 150, Duration: -10, PagesViewed: -2, Clicks: -1})
	assert.Equal(t, 100.0, s.ScrollDepth)
	assert.Zero(t, s.Duration)
	assert.Zero(t, s.PagesViewed)
	assert.Zero(t, s.Clicks)

	s = Normalize(Session{ScrollDepth: -5})
	assert.Zero(t, s.ScrollDepth)
}

func TestNormalize_DerivesDurationFromEndTime(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	s := Normalize(Session{StartTime: start, EndTime: &end})
	assert.Equal(t, int64(90000), s.Duration)
}

func TestNormalize_DerivesPagesFromJourney(t *testing.T) {
	s := Normalize(Session{PageJourney: []PageVisit{{Path: "/"}, {Path: "/projects"}}})
	assert.Equal(t, 2, s.PagesViewed)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	original := Session{ScrollDepth: 150}
	_ = Normalize(original)
	assert.Equal(t, 150.0, original.ScrollDepth)
}

func TestAvgTimePerPage(t *testing.T) {
	assert.Zero(t, AvgTimePerPage(Session{}))
	assert.Equal(t, 30000.0, AvgTimePerPage(Session{Duration: 90000, PagesViewed: 3}))
}
