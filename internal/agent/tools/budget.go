package tools

import (
	"context"
	"math"
	"strings"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
)

type BudgetInput struct {
	Days              int     `json:"days,omitempty"`
	Travelers         int     `json:"travelers,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	NightlyBudget     float64 `json:"nightly_budget,omitempty"`
	FoodPerDay        float64 `json:"food_per_day,omitempty"`
	IncidentalsPerDay float64 `json:"incidentals_per_day,omitempty"`
}

var budgetParams = map[string]*schema.ParameterInfo{
	"days": {
		Type: "number",
		Desc: "Trip length in days (default 1).",
	},
	"travelers": {
		Type: "number",
		Desc: "Number of travelers (default 1).",
	},
	"currency": {
		Type: "string",
		Desc: "ISO currency code for the estimate (default USD).",
	},
	"nightly_budget": {
		Type: "number",
		Desc: "Expected lodging cost per night (default 70).",
	},
	"food_per_day": {
		Type: "number",
		Desc: "Expected food cost per day per traveler (default 40).",
	},
	"incidentals_per_day": {
		Type: "number",
		Desc: "Expected incidental cost per day per traveler (default 15).",
	},
}

// BudgetDefinition builds the budget estimator. The model is a fixed
// cost formula with a 5% buffer; no external lookup.
func BudgetDefinition() Definition {
	info := &schema.ToolInfo{
		Name:        ToolEstimateBudget,
		Desc:        "Rough total trip budget from lodging, food and incidentals with a small buffer. Costs are approximate and exclude transport to and from the start.",
		ParamsOneOf: schema.NewParamsOneOfByParams(budgetParams),
	}

	impl := utils.NewTool(info, func(ctx context.Context, in *BudgetInput) (*model.BudgetOutput, error) {
		out := EstimateBudget(in.Days, in.Travelers, in.Currency, in.NightlyBudget, in.FoodPerDay, in.IncidentalsPerDay)
		return &out, nil
	})

	return Definition{Info: info, Params: budgetParams, Impl: impl}
}

// EstimateBudget is the deterministic cost model shared by the tool and
// the assembler's derived fallback.
func EstimateBudget(days, travelers int, currency string, nightly, food, incidentals float64) model.BudgetOutput {
	if days < 1 {
		days = 1
	}
	if travelers < 1 {
		travelers = 1
	}
	if nightly <= 0 {
		nightly = 70.0
	}
	if food <= 0 {
		food = 40.0
	}
	if incidentals <= 0 {
		incidentals = 15.0
	}

	lodgingTotal := nightly * float64(days)
	foodTotal := food * float64(days) * float64(travelers)
	incidentalsTotal := incidentals * float64(days) * float64(travelers)
	bufferTotal := 0.05 * (lodgingTotal + foodTotal + incidentalsTotal)
	total := lodgingTotal + foodTotal + incidentalsTotal + bufferTotal

	return model.BudgetOutput{
		Currency: normalizeCurrency(currency),
		Total:    round2(total),
		PerDay:   round2(total / float64(days)),
		Breakdown: model.BudgetBreakdown{
			LodgingTotal:     round2(lodgingTotal),
			FoodTotal:        round2(foodTotal),
			IncidentalsTotal: round2(incidentalsTotal),
			BufferTotal:      round2(bufferTotal),
		},
		Notes:      "Estimated budget; costs are approximate and exclude transport to/from the start.",
		DataSource: model.DataSourceSynthetic,
	}
}

func normalizeCurrency(cur string) string {
	cur = strings.ToUpper(strings.TrimSpace(cur))
	if len(cur) != 3 && len(cur) != 4 {
		return "USD"
	}
	return cur
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
