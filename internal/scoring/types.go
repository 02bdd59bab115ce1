// internal/scoring/types.go
package scoring

// Task names a prediction target. Each task has its own fixed feature order
// and its own trained model.
type Task string

const (
	TaskConversion Task = "conversion"
	TaskEngagement Task = "engagement"
	TaskChurn      Task = "churn"
)

// Valid reports whether t is a known prediction task.
func (t Task) Valid() bool {
	switch t {
	case TaskConversion, TaskEngagement, TaskChurn:
		return true
	}
	return false
}

// EngagementLevel buckets a session's engagement point total.
type EngagementLevel string

const (
	EngagementLow      EngagementLevel = "low"
	EngagementMedium   EngagementLevel = "medium"
	EngagementHigh     EngagementLevel = "high"
	EngagementVeryHigh EngagementLevel = "very_high"
)

// Code returns the numeric encoding used as a training label.
func (l EngagementLevel) Code() float64 {
	switch l {
	case EngagementMedium:
		return 1
	case EngagementHigh:
		return 2
	case EngagementVeryHigh:
		return 3
	default:
		return 0
	}
}

// BehaviorType classifies how a visitor moves through the site.
type BehaviorType string

const (
	BehaviorExplorer   BehaviorType = "explorer"
	BehaviorSearcher   BehaviorType = "searcher"
	BehaviorBuyer      BehaviorType = "buyer"
	BehaviorResearcher BehaviorType = "researcher"
)

// Insight is the bundle of heuristic scores for a single session. It is
// produced fresh on every call and never persisted by this engine.
type Insight struct {
	EngagementLevel       EngagementLevel `json:"engagement_level"`
	IntentScore           float64         `json:"intent_score"`
	ConversionProbability float64         `json:"conversion_probability"`
	BehaviorType          BehaviorType    `json:"behavior_type"`
	PredictedActions      []string        `json:"predicted_actions"`
	RiskOfLeaving         float64         `json:"risk_of_leaving"`
}

// Source category encodings, part of every trained model's contract.
const (
	SourceUnknown = 0
	SourceSearch  = 1
	SourceSocial  = 2
	SourceOther   = 3
)

// Device category encodings.
const (
	DeviceDesktop = 0
	DeviceMobile  = 1
	DeviceTablet  = 2
)
