package score

// Decision classifies a scored record for downstream handling.
type Decision string

const (
	DecisionLead   Decision = "lead"
	DecisionReview Decision = "review"
	DecisionDrop   Decision = "drop"
)

const (
	MinLeadScoreDefault   = 4
	MinReviewScoreDefault = 2
)

// RouteConfig holds the routing thresholds and exclusion terms.
type RouteConfig struct {
	MinLeadScore   float64
	MinReviewScore float64
	ExcludeTerms   []string
}

// DefaultRouteConfig returns the standard thresholds with no
// exclusion terms.
func DefaultRouteConfig() RouteConfig {
	return RouteConfig{
		MinLeadScore:   MinLeadScoreDefault,
		MinReviewScore: MinReviewScoreDefault,
	}
}

// Route classifies one scored record. Records mentioning an exclude
// term are dropped outright. A lead requires a geo signal on top of
// the lead threshold; anything else above the review threshold goes to
// review. Each record is classified on its own; records are never
// ranked against each other.
func Route(r Record, res *Result, rc RouteConfig) Decision {
	if containsAnyFold(r.Description, rc.ExcludeTerms) {
		return DecisionDrop
	}

	geo := res.Fired(SignalCentralAmerica) || res.Fired(SignalSouthOfMexico)
	if geo && res.Total >= rc.MinLeadScore {
		return DecisionLead
	}
	if res.Total >= rc.MinReviewScore {
		return DecisionReview
	}
	return DecisionDrop
}
