package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools/geo"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

type WeatherInput struct {
	Location string `json:"location"`
	Day      int    `json:"day"`
}

// ForecastFetcher resolves a live daily forecast for a location. The
// returned slice is indexed from today onward; the tool picks the entry
// matching the requested trip day.
type ForecastFetcher func(ctx context.Context, location string) ([]model.WeatherDaily, error)

var weatherParams = map[string]*schema.ParameterInfo{
	"location": {
		Type:     "string",
		Desc:     "Location the forecast is for.",
		Required: true,
	},
	"day": {
		Type:     "number",
		Desc:     "Trip day number the forecast is for, starting at 1.",
		Required: true,
	},
}

// WeatherDefinition builds the weather tool. fetch may be nil, in which
// case the Open-Meteo forecast API is used.
func WeatherDefinition(fetch ForecastFetcher) Definition {
	if fetch == nil {
		fetch = openMeteoForecastFetcher(geo.NewClient())
	}

	info := &schema.ToolInfo{
		Name:        ToolGetWeather,
		Desc:        "Daily weather forecast (conditions, high/low, precipitation chance) for a location and trip day. Call it for the locations and days relevant to the plan.",
		ParamsOneOf: schema.NewParamsOneOfByParams(weatherParams),
	}

	impl := utils.NewTool(info, func(ctx context.Context, in *WeatherInput) (*model.WeatherOutput, error) {
		if in.Location == "" {
			return nil, fmt.Errorf("location is required")
		}
		day := in.Day
		if day < 1 {
			day = 1
		}

		daily, err := fetch(ctx, in.Location)
		if err != nil || len(daily) == 0 {
			if err != nil {
				logx.Warn().Err(err).Str("location", in.Location).Msg("weather lookup failed, using synthetic forecast")
			}
			return &model.WeatherOutput{
				Daily:      []model.WeatherDaily{SyntheticWeather(in.Location, day)},
				DataSource: model.DataSourceSynthetic,
			}, nil
		}

		idx := day - 1
		if idx >= len(daily) {
			idx = len(daily) - 1
		}
		pick := daily[idx]
		pick.Day = day
		pick.Location = in.Location

		return &model.WeatherOutput{
			Daily:      []model.WeatherDaily{pick},
			DataSource: model.DataSourceLive,
		}, nil
	})

	return Definition{Info: info, Params: weatherParams, Impl: impl}
}

// SyntheticWeather is the deterministic forecast fallback.
func SyntheticWeather(location string, day int) model.WeatherDaily {
	return model.WeatherDaily{
		Day:                 day,
		Location:            location,
		Conditions:          "sunny with light winds",
		HighC:               24.0,
		LowC:                15.0,
		PrecipitationChance: 0.1,
	}
}

func openMeteoForecastFetcher(gc geo.Geocoder) ForecastFetcher {
	return func(ctx context.Context, location string) ([]model.WeatherDaily, error) {
		place, err := gc.Geocode(ctx, location)
		if err != nil {
			return nil, err
		}

		url := fmt.Sprintf(
			"https://api.open-meteo.com/v1/forecast?latitude=%f&longitude=%f&daily=temperature_2m_max,temperature_2m_min,precipitation_probability_max,weathercode&forecast_days=14",
			place.Lat, place.Lon,
		)
		var data struct {
			Daily struct {
				Time          []string  `json:"time"`
				TempMax       []float64 `json:"temperature_2m_max"`
				TempMin       []float64 `json:"temperature_2m_min"`
				PrecipProbMax []float64 `json:"precipitation_probability_max"`
				WeatherCode   []int     `json:"weathercode"`
			} `json:"daily"`
		}
		if err := getJSON(ctx, url, &data); err != nil {
			return nil, err
		}

		n := len(data.Daily.Time)
		out := make([]model.WeatherDaily, 0, n)
		for i := 0; i < n; i++ {
			d := model.WeatherDaily{Day: i + 1, Location: place.Name}
			if i < len(data.Daily.TempMax) {
				d.HighC = data.Daily.TempMax[i]
			}
			if i < len(data.Daily.TempMin) {
				d.LowC = data.Daily.TempMin[i]
			}
			if i < len(data.Daily.PrecipProbMax) {
				d.PrecipitationChance = data.Daily.PrecipProbMax[i] / 100.0
			}
			if i < len(data.Daily.WeatherCode) {
				d.Conditions = describeWeatherCode(data.Daily.WeatherCode[i])
			}
			out = append(out, d)
		}
		return out, nil
	}
}

// describeWeatherCode maps WMO weather codes to short descriptions.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}
