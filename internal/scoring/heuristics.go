// internal/scoring/heuristics.go
package scoring

import (
	"strings"
	"time"

	"github.com/foliometry/insight/internal/session"
)

// Millisecond duration thresholds shared by the scoring formulas.
const (
	fiveMinutesMS  = 300000
	threeMinutesMS = 180000
	twoMinutesMS   = 120000
	oneMinuteMS    = 60000
	thirtySecsMS   = 30000
)

// keyPages are the high-intent destinations on the portfolio.
var keyPages = []string{"/projects", "/contact", "/about", "/skills"}

// professionalNetworks mark referrers that indicate a recruiting or hiring
// context.
var professionalNetworks = []string{"linkedin", "github", "behance"}

// Scorer computes heuristic insights for a session. All methods are pure
// with respect to the session and safe to call concurrently; the only
// ambient input is the clock, injectable for tests.
type Scorer struct {
	now func() time.Time
}

// NewScorer returns a Scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt returns a Scorer with a fixed clock, for tests.
func NewScorerAt(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// Score computes the full insight bundle for a session. It is total: missing
// fields default to zero and every output stays within its documented range.
func (sc *Scorer) Score(s session.Session) Insight {
	s = session.Normalize(s)

	level := EngagementLevelOf(s)
	intent := IntentScore(s)
	behavior := BehaviorTypeOf(s)

	return Insight{
		EngagementLevel:       level,
		IntentScore:           intent,
		ConversionProbability: ConversionProbability(s),
		BehaviorType:          behavior,
		PredictedActions:      PredictNextActions(s, behavior),
		RiskOfLeaving:         sc.riskOfLeaving(s, level),
	}
}

// EngagementPoints sums the additive engagement score, capped per factor.
// The total is bounded to [5,100] by construction.
func EngagementPoints(s session.Session) float64 {
	s = session.Normalize(s)

	var points float64
	switch {
	case s.Duration > fiveMinutesMS:
		points += 30
	case s.Duration > twoMinutesMS:
		points += 20
	case s.Duration > oneMinuteMS:
		points += 10
	default:
		points += 5
	}

	points += minF(float64(s.PagesViewed)*5, 25)
	points += minF(float64(s.Clicks)*2, 20)
	points += minF(s.ScrollDepth/100*15, 15)

	if avg := avgPageTimeMS(s); avg > float64(oneMinuteMS) {
		points += 10
	} else if avg > float64(thirtySecsMS) {
		points += 5
	}

	return points
}

// EngagementLevelOf buckets the engagement point total.
func EngagementLevelOf(s session.Session) EngagementLevel {
	points := EngagementPoints(s)
	switch {
	case points >= 80:
		return EngagementVeryHigh
	case points >= 60:
		return EngagementHigh
	case points >= 40:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

// IntentScore estimates how likely the visitor is to act, 0-100.
func IntentScore(s session.Session) float64 {
	s = session.Normalize(s)

	var score float64
	switch EngagementLevelOf(s) {
	case EngagementVeryHigh:
		score = 40
	case EngagementHigh:
		score = 30
	case EngagementMedium:
		score = 20
	default:
		score = 10
	}

	var keyVisits float64
	for _, visit := range s.PageJourney {
		for _, page := range keyPages {
			if strings.HasPrefix(visit.Path, page) {
				keyVisits++
				break
			}
		}
	}
	score += minF(keyVisits*10, 30)

	if s.VisitorID != "" {
		score += 15
	}
	if referrerMatches(s.Source.Referrer, professionalNetworks) {
		score += 10
	}
	if s.Duration > threeMinutesMS {
		score += 5
	}

	return clamp(score, 0, 100)
}

// ConversionProbability estimates the chance this session converts, 0-100.
func ConversionProbability(s session.Session) float64 {
	s = session.Normalize(s)

	score := IntentScore(s) * 0.5

	projectPages := 0
	contactIntent := false
	for _, visit := range s.PageJourney {
		path := strings.ToLower(visit.Path)
		if strings.Contains(path, "contact") || strings.Contains(path, "hire") {
			contactIntent = true
		}
		if strings.Contains(path, "project") {
			projectPages++
		}
	}
	if contactIntent {
		score += 20
	}
	if projectPages >= 3 {
		score += 15
	}
	if EngagementLevelOf(s) == EngagementVeryHigh {
		score += 10
	}
	if referrerMatches(s.Source.Referrer, []string{"linkedin", "github"}) {
		score += 10
	}

	return clamp(score, 0, 100)
}

// BehaviorTypeOf classifies the browsing pattern. Order matters: deep
// readers first, then broad explorers, then high-intent buyers, then
// skimmers; explorer is the default.
func BehaviorTypeOf(s session.Session) BehaviorType {
	s = session.Normalize(s)
	avg := avgPageTimeMS(s)

	switch {
	case s.PagesViewed <= 3 && avg > 90000:
		return BehaviorResearcher
	case s.PagesViewed >= 5 && avg > 30000 && avg < 90000:
		return BehaviorExplorer
	case IntentScore(s) > 70:
		return BehaviorBuyer
	case s.PagesViewed >= 3 && avg < 30000:
		return BehaviorSearcher
	default:
		return BehaviorExplorer
	}
}

// nextActionRules maps a substring of the last visited path to candidate
// follow-up actions.
var nextActionRules = []struct {
	match   string
	actions []string
}{
	{"project", []string{"View project details", "Visit contact page", "Download resume"}},
	{"skill", []string{"View related projects", "Visit contact page", "Download resume"}},
	{"contact", []string{"Submit contact form", "Connect on LinkedIn", "Send email"}},
	{"about", []string{"Explore projects", "View skills", "Visit contact page"}},
}

var defaultActions = []string{"Explore projects", "Learn more about me", "View skills"}

// PredictNextActions suggests up to three follow-up actions based on the
// last page visited and the visitor's behavior type.
func PredictNextActions(s session.Session, behavior BehaviorType) []string {
	s = session.Normalize(s)

	actions := defaultActions
	if len(s.PageJourney) > 0 {
		last := strings.ToLower(s.PageJourney[len(s.PageJourney)-1].Path)
		if last == "/" {
			actions = []string{"Explore projects", "View skills", "Read about me"}
		} else {
			for _, rule := range nextActionRules {
				if strings.Contains(last, rule.match) {
					actions = rule.actions
					break
				}
			}
		}
	}

	out := make([]string, 0, 3)
	if behavior == BehaviorBuyer {
		out = append(out, "Submit contact form")
	}
	for _, a := range actions {
		if len(out) == 3 {
			break
		}
		if !containsStr(out, a) {
			out = append(out, a)
		}
	}
	return out
}

// riskOfLeaving estimates abandonment risk, 0-100. Base 50, adjusted for
// idle time since the last journey event, engagement, bounce pattern and
// scroll depth.
func (sc *Scorer) riskOfLeaving(s session.Session, level EngagementLevel) float64 {
	risk := 50.0

	lastEvent := s.StartTime
	if n := len(s.PageJourney); n > 0 {
		lastEvent = s.PageJourney[n-1].Timestamp
	}
	idle := sc.now().Sub(lastEvent)
	switch {
	case idle > 2*time.Minute:
		risk += 30
	case idle > time.Minute:
		risk += 15
	default:
		risk -= 10
	}

	switch level {
	case EngagementVeryHigh:
		risk -= 30
	case EngagementHigh:
		risk -= 15
	case EngagementLow:
		risk += 20
	}

	if s.PagesViewed <= 1 && s.Duration < thirtySecsMS {
		risk += 25
	}

	if s.ScrollDepth < 30 {
		risk += 15
	} else if s.ScrollDepth > 70 {
		risk -= 10
	}

	return clamp(risk, 0, 100)
}

func avgPageTimeMS(s session.Session) float64 {
	return session.AvgTimePerPage(s)
}

func referrerMatches(referrer string, patterns []string) bool {
	ref := strings.ToLower(referrer)
	if ref == "" {
		return false
	}
	for _, p := range patterns {
		if strings.Contains(ref, p) {
			return true
		}
	}
	return false
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
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
