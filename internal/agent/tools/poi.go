package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
)

type POIInput struct {
	Location string `json:"location"`
	Day      int    `json:"day"`
}

var poiParams = map[string]*schema.ParameterInfo{
	"location": {
		Type:     "string",
		Desc:     "Location to list points of interest for.",
		Required: true,
	},
	"day": {
		Type:     "number",
		Desc:     "Trip day number, starting at 1.",
		Required: true,
	},
}

// POIDefinition builds the points-of-interest tool.
func POIDefinition() Definition {
	info := &schema.ToolInfo{
		Name:        ToolGetPOI,
		Desc:        "A few notable points of interest (landmarks, parks, museums) for a location and trip day.",
		ParamsOneOf: schema.NewParamsOneOfByParams(poiParams),
	}

	impl := utils.NewTool(info, func(ctx context.Context, in *POIInput) (*model.POIOutput, error) {
		if in.Location == "" {
			return nil, fmt.Errorf("location is required")
		}
		return &model.POIOutput{
			Day:        in.Day,
			Location:   in.Location,
			POIs:       SyntheticPOIs(in.Location, in.Day),
			DataSource: model.DataSourceSynthetic,
		}, nil
	})

	return Definition{Info: info, Params: poiParams, Impl: impl}
}

// SyntheticPOIs returns a deterministic three-entry POI list for a
// location.
func SyntheticPOIs(location string, day int) []model.PointOfInterest {
	categories := []string{"landmark", "park", "museum"}
	names := []string{
		location + " Old Town",
		location + " Scenic Park",
		location + " Heritage Museum",
	}

	pois := make([]model.PointOfInterest, 0, len(names))
	for i, name := range names {
		relevance := "medium"
		if i == 0 {
			relevance = "high"
		}
		pois = append(pois, model.PointOfInterest{
			Name:        name,
			Category:    categories[i],
			Description: fmt.Sprintf("Popular spot in %s for day %d.", location, day),
			Relevance:   relevance,
		})
	}
	return pois
}
