package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
)

type VisaInput struct {
	Nationality        string `json:"nationality"`
	DestinationCountry string `json:"destination_country"`
}

var visaParams = map[string]*schema.ParameterInfo{
	"nationality": {
		Type:     "string",
		Desc:     "Traveler's nationality, e.g. 'usa' or 'germany'.",
		Required: true,
	},
	"destination_country": {
		Type:     "string",
		Desc:     "Country the trip takes place in.",
		Required: true,
	},
}

// visaFreePairs is a coarse nationality/destination table; anything not
// listed is treated as likely requiring a tourist visa.
var visaFreePairs = map[[2]string]bool{
	{"usa", "spain"}:      true,
	{"usa", "france"}:     true,
	{"usa", "denmark"}:    true,
	{"usa", "uk"}:         true,
	{"usa", "portugal"}:   true,
	{"uk", "spain"}:       true,
	{"uk", "france"}:      true,
	{"uk", "usa"}:         true,
	{"uk", "portugal"}:    true,
	{"france", "spain"}:   true,
	{"germany", "denmark"}: true,
}

// VisaDefinition builds the visa-requirement check.
func VisaDefinition() Definition {
	info := &schema.ToolInfo{
		Name:        ToolCheckVisa,
		Desc:        "Coarse visa requirement check for a nationality and destination country. Indicative only; advise consulting the consulate.",
		ParamsOneOf: schema.NewParamsOneOfByParams(visaParams),
	}

	impl := utils.NewTool(info, func(ctx context.Context, in *VisaInput) (*model.VisaOutput, error) {
		if in.Nationality == "" || in.DestinationCountry == "" {
			return nil, fmt.Errorf("nationality and destination_country are required")
		}

		key := [2]string{strings.ToLower(in.Nationality), strings.ToLower(in.DestinationCountry)}
		var reqd model.VisaRequirement
		if visaFreePairs[key] {
			reqd = model.VisaRequirement{
				Required:        false,
				Notes:           "Visa-free entry for short stays.",
				AllowedStayDays: 90,
			}
		} else {
			reqd = model.VisaRequirement{
				Required:        true,
				Type:            "tourist",
				Notes:           "Visa likely required; consult the official consulate.",
				AllowedStayDays: 30,
			}
		}

		return &model.VisaOutput{
			Nationality:        in.Nationality,
			DestinationCountry: in.DestinationCountry,
			Requirement:        reqd,
			DataSource:         model.DataSourceSynthetic,
		}, nil
	})

	return Definition{Info: info, Params: visaParams, Impl: impl}
}
