package model

// MaxTripDays is the sane upper bound on a plan's length. Route outputs
// and target_days adjustments are clamped to it.
const MaxTripDays = 30

// DayPlan is one reconciled day of the itinerary. Notes is append-only:
// adjustment overrides add to it, they never replace it.
type DayPlan struct {
	Day           int            `json:"day"`
	DistanceKM    float64        `json:"distance_km"`
	Start         string         `json:"start"`
	End           string         `json:"end"`
	Route         string         `json:"route"`
	Lodging       *LodgingOption `json:"lodging,omitempty"`
	Weather       string         `json:"weather,omitempty"`
	Elevation     string         `json:"elevation,omitempty"`
	PointsOfNote  []string       `json:"points_of_note,omitempty"`
	Notes         []string       `json:"notes,omitempty"`
	SyntheticData bool           `json:"synthetic_data,omitempty"`
}

// LodgingOption is a single lodging pick for a day.
type LodgingOption struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"price_per_night"`
	Available     bool    `json:"available"`
	Notes         string  `json:"notes,omitempty"`
}

// BudgetEstimate is the overall cost estimate attached to a plan.
// Source is "tool" when the budget tool produced it and "derived" when
// the assembler computed it from lodging and distance.
type BudgetEstimate struct {
	Currency  string          `json:"currency"`
	Total     float64         `json:"total"`
	PerDay    float64         `json:"per_day,omitempty"`
	Breakdown BudgetBreakdown `json:"breakdown"`
	Source    string          `json:"source"`
	Notes     string          `json:"notes,omitempty"`
}

type BudgetBreakdown struct {
	LodgingTotal     float64 `json:"lodging_total"`
	FoodTotal        float64 `json:"food_total"`
	IncidentalsTotal float64 `json:"incidentals_total"`
	BufferTotal      float64 `json:"buffer_total"`
}

// TripPlan is the normalized, reconciled itinerary. Days always has
// length equal to the resolved trip duration (never zero, never more
// than MaxTripDays).
type TripPlan struct {
	Origin          string          `json:"origin"`
	Destination     string          `json:"destination"`
	DailyTargetKM   int             `json:"daily_target_km,omitempty"`
	TotalDistanceKM float64         `json:"total_distance_km"`
	Days            []DayPlan       `json:"days"`
	Budget          *BudgetEstimate `json:"budget,omitempty"`
	Advisories      []string        `json:"advisories,omitempty"`
}
