package session

// Normalize returns a copy of s with every derived or optional field filled
// with a safe default, so downstream scoring code can assume fully-populated
// input instead of guarding each access. The receiver is never mutated.
func Normalize(s Session) Session {
	if s.ScrollDepth < 0 {
		s.ScrollDepth = 0
	}
	if s.ScrollDepth > 100 {
		s.ScrollDepth = 100
	}
	if s.Duration < 0 {
		s.Duration = 0
	}
	if s.Duration == 0 && s.EndTime != nil && s.EndTime.After(s.StartTime) {
		s.Duration = s.EndTime.Sub(s.StartTime).Milliseconds()
	}
	if s.PagesViewed < 0 {
		s.PagesViewed = 0
	}
	if s.Clicks < 0 {
		s.Clicks = 0
	}
	if s.PagesViewed == 0 && len(s.PageJourney) > 0 {
		s.PagesViewed = len(s.PageJourney)
	}
	if s.TimeOnPage == nil {
		s.TimeOnPage = []PageTime{}
	}
	if s.PageJourney == nil {
		s.PageJourney = []PageVisit{}
	}
	return s
}

// AvgTimePerPage returns the mean milliseconds spent per viewed page, or 0
// when no pages were viewed.
func AvgTimePerPage(s Session) float64 {
	if s.PagesViewed <= 0 {
		return 0
	}
	return float64(s.Duration) / float64(s.PagesViewed)
}
