package planner

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools"
	errx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core/error"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// Fixed cost model for the derived budget fallback.
const (
	derivedCostPerKM    = 0.6
	derivedCostPerNight = 70.0
)

// Assemble reconstructs a normalized trip plan from the accumulated raw
// tool-output transcript, independent of whether the structured parse
// succeeded. The route output seeds the day count; every other field is
// matched positionally by day index and gaps are filled with the same
// deterministic fallback the tool itself would have produced, so the
// plan is never partially empty. Without usable route data there is
// nothing to anchor a plan on and a KindNoPlan error is returned.
func Assemble(records []model.ToolCallRecord) (*model.TripPlan, error) {
	agg := collect(records)
	if agg.route == nil || len(agg.route.Segments) == 0 {
		return nil, errx.NewKind(nil, errx.KindNoPlan, "no route data to anchor a plan")
	}

	segs := agg.route.Segments
	if len(segs) > model.MaxTripDays {
		segs = segs[:model.MaxTripDays]
	}

	days := make([]model.DayPlan, 0, len(segs))
	for i, seg := range segs {
		d := i + 1
		day := model.DayPlan{
			Day:        d,
			DistanceKM: seg.DistanceKM,
			Start:      seg.Start,
			End:        seg.End,
			Route:      describeSegment(seg),
		}

		if acc, ok := agg.lodging[d]; ok {
			day.Lodging = pickLodging(acc.Options)
		}
		if day.Lodging == nil {
			day.Lodging = pickLodging(tools.SyntheticLodging(seg.End, d))
			day.SyntheticData = true
		}

		if w, ok := agg.weather[d]; ok && len(w.Daily) > 0 {
			day.Weather = describeWeather(w.Daily[0])
		} else {
			day.Weather = describeWeather(tools.SyntheticWeather(seg.End, d))
			day.SyntheticData = true
		}

		if e, ok := agg.elevation[d]; ok && len(e.Profile) > 0 {
			day.Elevation = describeElevation(e.Profile[0])
		} else {
			day.Elevation = describeElevation(tools.SyntheticElevation(seg.End, d))
			day.SyntheticData = true
		}

		if p, ok := agg.pois[d]; ok {
			day.PointsOfNote = poiNames(p.POIs)
		} else {
			day.PointsOfNote = poiNames(tools.SyntheticPOIs(seg.End, d))
			day.SyntheticData = true
		}

		if seg.Notes != "" {
			day.Notes = append(day.Notes, seg.Notes)
		}

		days = append(days, day)
	}

	plan := &model.TripPlan{
		Origin:          segs[0].Start,
		Destination:     segs[len(segs)-1].End,
		DailyTargetKM:   agg.dailyTargetKM,
		TotalDistanceKM: agg.route.TotalDistanceKM,
		Days:            days,
	}

	if agg.budget != nil {
		plan.Budget = &model.BudgetEstimate{
			Currency:  agg.budget.Currency,
			Total:     agg.budget.Total,
			PerDay:    agg.budget.PerDay,
			Breakdown: agg.budget.Breakdown,
			Source:    "tool",
			Notes:     agg.budget.Notes,
		}
	} else {
		plan.Budget = derivedBudget(plan)
	}

	if agg.visa != nil {
		plan.Advisories = append(plan.Advisories, describeVisa(agg.visa))
	}

	return plan, nil
}

// ApplyAdjustment applies a parser-declared adjustment to an assembled
// plan, never to raw tool outputs. target_days pads or truncates to the
// exact length; day-note overrides append to the day's note list, so
// applying the same override twice yields the note twice.
func ApplyAdjustment(plan *model.TripPlan, adj *model.Adjustment) {
	if plan == nil || adj == nil {
		return
	}

	if adj.TargetDays != nil {
		n := *adj.TargetDays
		if n < 1 {
			n = 1
		}
		if n > model.MaxTripDays {
			n = model.MaxTripDays
		}

		switch {
		case n < len(plan.Days):
			plan.Days = plan.Days[:n]
		case n > len(plan.Days):
			last := plan.Days[len(plan.Days)-1]
			for d := len(plan.Days) + 1; d <= n; d++ {
				extra := last
				extra.Day = d
				extra.Notes = append(append([]string(nil), last.Notes...),
					"Added to match the requested trip length; route and lodging duplicated from the previous day.")
				extra.SyntheticData = true
				plan.Days = append(plan.Days, extra)
			}
		}

		plan.Destination = plan.Days[len(plan.Days)-1].End
		total := 0.0
		for _, day := range plan.Days {
			total += day.DistanceKM
		}
		plan.TotalDistanceKM = round2(total)
	}

	for key, note := range adj.DayNotes {
		d, err := strconv.Atoi(key)
		if err != nil || d < 1 || d > len(plan.Days) {
			logx.Warn().Str("day", key).Msg("Ignoring note override for out-of-range day")
			continue
		}
		plan.Days[d-1].Notes = append(plan.Days[d-1].Notes, note)
	}
}

// Summary renders the one-line plan digest cached in conversation
// derived state.
func Summary(plan *model.TripPlan) string {
	if plan == nil {
		return ""
	}
	s := fmt.Sprintf("%d-day ride %s to %s, %.0f km total", len(plan.Days), plan.Origin, plan.Destination, plan.TotalDistanceKM)
	if plan.Budget != nil {
		s += fmt.Sprintf(", budget around %.0f %s", plan.Budget.Total, plan.Budget.Currency)
	}
	return s
}

// aggregate groups decoded tool outputs by tool name and day index.
type aggregate struct {
	route         *model.RouteOutput
	lodging       map[int]*model.AccommodationOutput
	weather       map[int]*model.WeatherOutput
	elevation     map[int]*model.ElevationOutput
	pois          map[int]*model.POIOutput
	budget        *model.BudgetOutput
	visa          *model.VisaOutput
	dailyTargetKM int
}

func collect(records []model.ToolCallRecord) *aggregate {
	agg := &aggregate{
		lodging:   map[int]*model.AccommodationOutput{},
		weather:   map[int]*model.WeatherOutput{},
		elevation: map[int]*model.ElevationOutput{},
		pois:      map[int]*model.POIOutput{},
	}

	for _, rec := range records {
		if rec.Status.Failed() {
			continue
		}

		switch rec.Tool {
		case tools.ToolGetRoute:
			var out model.RouteOutput
			if decode(rec, &out) {
				// the latest route wins so plan adjustments that re-ran
				// the route are reflected
				agg.route = &out
				var in struct {
					DailyDistanceKM int `json:"daily_distance_km"`
				}
				if json.Unmarshal([]byte(rec.Input), &in) == nil {
					agg.dailyTargetKM = in.DailyDistanceKM
				}
			}
		case tools.ToolFindAccommodation:
			var out model.AccommodationOutput
			if decode(rec, &out) {
				agg.lodging[out.Day] = &out
			}
		case tools.ToolGetWeather:
			var out model.WeatherOutput
			if decode(rec, &out) && len(out.Daily) > 0 {
				agg.weather[out.Daily[0].Day] = &out
			}
		case tools.ToolGetElevation:
			var out model.ElevationOutput
			if decode(rec, &out) && len(out.Profile) > 0 {
				agg.elevation[out.Profile[0].Day] = &out
			}
		case tools.ToolGetPOI:
			var out model.POIOutput
			if decode(rec, &out) {
				agg.pois[out.Day] = &out
			}
		case tools.ToolEstimateBudget:
			var out model.BudgetOutput
			if decode(rec, &out) {
				agg.budget = &out
			}
		case tools.ToolCheckVisa:
			var out model.VisaOutput
			if decode(rec, &out) {
				agg.visa = &out
			}
		}
	}
	return agg
}

func decode(rec model.ToolCallRecord, out any) bool {
	if err := json.Unmarshal([]byte(rec.Output), out); err != nil {
		logx.Warn().Str("tool", rec.Tool).Err(err).Msg("Skipping undecodable tool output")
		return false
	}
	return true
}

// pickLodging prefers the first available option, mirroring what a user
// would book.
func pickLodging(options []model.LodgingOption) *model.LodgingOption {
	if len(options) == 0 {
		return nil
	}
	for i := range options {
		if options[i].Available {
			pick := options[i]
			return &pick
		}
	}
	pick := options[0]
	return &pick
}

func derivedBudget(plan *model.TripPlan) *model.BudgetEstimate {
	lodgingTotal := 0.0
	for _, day := range plan.Days {
		if day.Lodging != nil {
			lodgingTotal += day.Lodging.PricePerNight
		} else {
			lodgingTotal += derivedCostPerNight
		}
	}
	distanceCost := derivedCostPerKM * plan.TotalDistanceKM
	total := lodgingTotal + distanceCost

	return &model.BudgetEstimate{
		Currency: "USD",
		Total:    round2(total),
		PerDay:   round2(total / float64(len(plan.Days))),
		Breakdown: model.BudgetBreakdown{
			LodgingTotal:     round2(lodgingTotal),
			IncidentalsTotal: round2(distanceCost),
		},
		Source: "derived",
		Notes:  "Derived from per-night lodging and a fixed per-km cost.",
	}
}

func describeSegment(seg model.RouteSegment) string {
	return fmt.Sprintf("Cycle %.0f km from %s to %s.", seg.DistanceKM, seg.Start, seg.End)
}

func describeWeather(w model.WeatherDaily) string {
	return fmt.Sprintf("%s, %.0f/%.0f°C, %.0f%% chance of rain", w.Conditions, w.HighC, w.LowC, w.PrecipitationChance*100)
}

func describeElevation(e model.ElevationProfile) string {
	return fmt.Sprintf("%s terrain, %.0f m up / %.0f m down", e.Difficulty, e.ElevationGainM, e.ElevationLossM)
}

func describeVisa(v *model.VisaOutput) string {
	if !v.Requirement.Required {
		return fmt.Sprintf("Visa: not required for %s nationals in %s (%s)",
			v.Nationality, v.DestinationCountry, strings.TrimSuffix(v.Requirement.Notes, "."))
	}
	return fmt.Sprintf("Visa: %s visa likely required for %s nationals in %s",
		v.Requirement.Type, v.Nationality, v.DestinationCountry)
}

func poiNames(pois []model.PointOfInterest) []string {
	names := make([]string, 0, len(pois))
	for _, p := range pois {
		names = append(names, p.Name)
	}
	return names
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
