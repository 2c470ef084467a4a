package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
)

func TestEstimateBudgetDefaults(t *testing.T) {
	out := EstimateBudget(2, 1, "", 0, 0, 0)

	// 2 nights at 70, 2 days of 40 food and 15 incidentals, plus 5%
	if out.Breakdown.LodgingTotal != 140 {
		t.Fatalf("lodging: expected 140, got %f", out.Breakdown.LodgingTotal)
	}
	if out.Breakdown.FoodTotal != 80 {
		t.Fatalf("food: expected 80, got %f", out.Breakdown.FoodTotal)
	}
	if out.Breakdown.IncidentalsTotal != 30 {
		t.Fatalf("incidentals: expected 30, got %f", out.Breakdown.IncidentalsTotal)
	}
	if out.Breakdown.BufferTotal != 12.5 {
		t.Fatalf("buffer: expected 12.5, got %f", out.Breakdown.BufferTotal)
	}
	if out.Total != 262.5 {
		t.Fatalf("total: expected 262.5, got %f", out.Total)
	}
	if out.PerDay != 131.25 {
		t.Fatalf("per day: expected 131.25, got %f", out.PerDay)
	}
	if out.Currency != "USD" {
		t.Fatalf("currency: expected USD, got %s", out.Currency)
	}
}

func TestEstimateBudgetScalesWithTravelers(t *testing.T) {
	one := EstimateBudget(3, 1, "EUR", 60, 30, 10)
	two := EstimateBudget(3, 2, "EUR", 60, 30, 10)

	// lodging is per room, food and incidentals per traveler
	if two.Breakdown.LodgingTotal != one.Breakdown.LodgingTotal {
		t.Fatal("lodging must not scale with travelers")
	}
	if two.Breakdown.FoodTotal != 2*one.Breakdown.FoodTotal {
		t.Fatalf("food must double: %f vs %f", two.Breakdown.FoodTotal, one.Breakdown.FoodTotal)
	}
	if two.Currency != "EUR" {
		t.Fatalf("currency: expected EUR, got %s", two.Currency)
	}
}

func TestEstimateBudgetClampsInputs(t *testing.T) {
	out := EstimateBudget(0, -3, "x", -1, -1, -1)
	if out.Breakdown.LodgingTotal != 70 {
		t.Fatalf("expected one default night, got %f", out.Breakdown.LodgingTotal)
	}
	if out.Currency != "USD" {
		t.Fatalf("bad currency must normalize to USD, got %s", out.Currency)
	}
}

func TestBudgetToolReportsSynthetic(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(BudgetDefinition()); err != nil {
		t.Fatalf("register: %v", err)
	}
	rec := r.Dispatch(context.Background(), toolCall(ToolEstimateBudget, `{"days":2}`))
	// the budget is a formula, so its output is always tagged synthetic
	if rec.Status != model.ToolCallFallback {
		t.Fatalf("expected fallback status, got %s", rec.Status)
	}
	var out model.BudgetOutput
	if err := json.Unmarshal([]byte(rec.Output), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 262.5 {
		t.Fatalf("expected 262.5, got %f", out.Total)
	}
}

func TestSyntheticLodgingDeterministic(t *testing.T) {
	opts := SyntheticLodging("Coimbra", 2)
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	// base price derives from the location name, 50 + len%40
	base := float64(50 + len("Coimbra")%40)
	if opts[0].PricePerNight != base+10 {
		t.Fatalf("hostel price: expected %f, got %f", base+10, opts[0].PricePerNight)
	}
	if opts[1].PricePerNight != base+35 {
		t.Fatalf("bnb price: expected %f, got %f", base+35, opts[1].PricePerNight)
	}
	// the motel alternates availability by day parity
	if !opts[2].Available {
		t.Fatal("motel must be available on even days")
	}
	if SyntheticLodging("Coimbra", 3)[2].Available {
		t.Fatal("motel must be unavailable on odd days")
	}
}

func TestSyntheticWeatherAndElevation(t *testing.T) {
	w := SyntheticWeather("Leiria", 2)
	if w.Conditions != "sunny with light winds" || w.HighC != 24 || w.LowC != 15 {
		t.Fatalf("unexpected synthetic forecast: %+v", w)
	}

	tests := []struct {
		location       string
		wantGain       float64
		wantDifficulty string
	}{
		{location: "A", wantGain: 105, wantDifficulty: "easy"},
		{location: "Leiria", wantGain: 474, wantDifficulty: "moderate"},
		{location: "Lisbon", wantGain: 695, wantDifficulty: "hard"},
	}
	for _, tt := range tests {
		e := SyntheticElevation(tt.location, 2)
		if e.ElevationGainM != tt.wantGain {
			t.Fatalf("%s gain: expected %f, got %f", tt.location, tt.wantGain, e.ElevationGainM)
		}
		if e.ElevationLossM != tt.wantGain*0.6 {
			t.Fatalf("%s loss: expected %f, got %f", tt.location, tt.wantGain*0.6, e.ElevationLossM)
		}
		if e.Difficulty != tt.wantDifficulty {
			t.Fatalf("%s difficulty: expected %s for %f m, got %s", tt.location, tt.wantDifficulty, tt.wantGain, e.Difficulty)
		}
		if e2 := SyntheticElevation(tt.location, 2); e2 != e {
			t.Fatalf("%s: repeated calls disagree: %+v vs %+v", tt.location, e, e2)
		}
	}
}

func TestVisaTool(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(VisaDefinition()); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name         string
		args         string
		wantRequired bool
	}{
		{name: "visa free", args: `{"nationality":"USA","destination_country":"Portugal"}`, wantRequired: false},
		{name: "visa required", args: `{"nationality":"usa","destination_country":"elsewhere"}`, wantRequired: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := r.Dispatch(context.Background(), toolCall(ToolCheckVisa, tc.args))
			if rec.Status.Failed() {
				t.Fatalf("dispatch failed: %s", rec.Error)
			}
			var out model.VisaOutput
			if err := json.Unmarshal([]byte(rec.Output), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Requirement.Required != tc.wantRequired {
				t.Fatalf("expected required=%v, got %+v", tc.wantRequired, out.Requirement)
			}
		})
	}
}
