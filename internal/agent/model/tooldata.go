package model

// Tool output payloads shared between the tool implementations and the
// plan assembler. Every output carries DataSource so downstream code and
// tests can tell live lookups from synthetic fallbacks.

const (
	DataSourceLive      = "live"
	DataSourceSynthetic = "synthetic"
)

type RouteSegment struct {
	Day        int     `json:"day"`
	DistanceKM float64 `json:"distance_km"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Notes      string  `json:"notes,omitempty"`
}

type RouteOutput struct {
	TotalDistanceKM float64        `json:"total_distance_km"`
	Days            int            `json:"days"`
	Segments        []RouteSegment `json:"segments"`
	DataSource      string         `json:"data_source"`
}

type AccommodationOutput struct {
	Day        int             `json:"day"`
	Location   string          `json:"location"`
	Options    []LodgingOption `json:"options"`
	DataSource string          `json:"data_source"`
}

type WeatherDaily struct {
	Day                 int     `json:"day"`
	Location            string  `json:"location"`
	Conditions          string  `json:"conditions"`
	HighC               float64 `json:"high_c"`
	LowC                float64 `json:"low_c"`
	PrecipitationChance float64 `json:"precipitation_chance"`
}

type WeatherOutput struct {
	Daily      []WeatherDaily `json:"daily"`
	DataSource string         `json:"data_source"`
}

type ElevationProfile struct {
	Day             int     `json:"day"`
	Location        string  `json:"location"`
	ElevationGainM  float64 `json:"elevation_gain_m"`
	ElevationLossM  float64 `json:"elevation_loss_m"`
	Difficulty      string  `json:"difficulty"`
	Notes           string  `json:"notes,omitempty"`
}

type ElevationOutput struct {
	Profile    []ElevationProfile `json:"profile"`
	DataSource string             `json:"data_source"`
}

type PointOfInterest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Relevance   string `json:"relevance"`
}

type POIOutput struct {
	Day        int               `json:"day"`
	Location   string            `json:"location"`
	POIs       []PointOfInterest `json:"pois"`
	DataSource string            `json:"data_source"`
}

type BudgetOutput struct {
	Currency   string          `json:"currency"`
	Total      float64         `json:"total"`
	PerDay     float64         `json:"per_day,omitempty"`
	Breakdown  BudgetBreakdown `json:"breakdown"`
	Notes      string          `json:"notes,omitempty"`
	DataSource string          `json:"data_source"`
}

type VisaRequirement struct {
	Required        bool   `json:"required"`
	Type            string `json:"type,omitempty"`
	Notes           string `json:"notes,omitempty"`
	AllowedStayDays int    `json:"allowed_stay_days,omitempty"`
}

type VisaOutput struct {
	Nationality        string          `json:"nationality"`
	DestinationCountry string          `json:"destination_country"`
	Requirement        VisaRequirement `json:"requirement"`
	DataSource         string          `json:"data_source"`
}
