package service

import (
	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/timeseries"
)

// DayForecast is the deterministic demo day served by GET /forecast: the
// synthesized series plus the derived cooling demand and a few headline
// figures, without running a solve.
type DayForecast struct {
	Date           string    `json:"date"`
	Seed           int64     `json:"seed"`
	TemperatureF   []float64 `json:"temperature_f"`
	PricePerMWh    []float64 `json:"electricity_price"`
	CoolingReqMW   []float64 `json:"cooling_requirement_mw"`
	MinTempF       float64   `json:"min_temp_f"`
	MaxTempF       float64   `json:"max_temp_f"`
	AvgPricePerMWh float64   `json:"avg_price_per_mwh"`
	PeakPricePerMW float64   `json:"peak_price_per_mwh"`
	WaterPrice     float64   `json:"water_price_per_1000_gal"`
}

type ForecastService struct {
	defaults Defaults
}

func NewForecastService(defaults Defaults) *ForecastService {
	return &ForecastService{defaults: defaults}
}

// Day synthesizes the fallback series for the given date. An empty date
// means today; the zero seed derives one from the date.
func (s *ForecastService) Day(date string, seed int64) (*DayForecast, error) {
	day, err := resolveDate(date)
	if err != nil {
		return nil, err
	}

	temp, price := timeseries.Fallback(day, seed)
	cooling := timeseries.CoolingRequirement(temp, s.defaults.Facility.CoolingRequirementMW)

	return &DayForecast{
		Date:           day.Format(dateLayout),
		Seed:           seed,
		TemperatureF:   temp.Slice(),
		PricePerMWh:    price.Slice(),
		CoolingReqMW:   cooling.Slice(),
		MinTempF:       temp.Min(),
		MaxTempF:       temp.Max(),
		AvgPricePerMWh: price.Sum() / coolingcloud.HoursPerDay,
		PeakPricePerMW: price.Max(),
		WaterPrice:     s.defaults.WaterPrice,
	}, nil
}
