// Package timeseries turns heterogeneous hourly input shapes into the
// canonical 24-element series the optimizer consumes, and synthesizes a
// deterministic Phoenix-summer proxy when a caller has no live data.
package timeseries

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

// Sanity bands for normalized inputs.
const (
	MinTempF = -20.0
	MaxTempF = 150.0

	// Prices a hair below zero are treated as noise and clamped; anything
	// further negative is rejected.
	negativePriceTolerance = 0.01
)

// ValidationError reports a malformed or out-of-range input, naming the
// offending field. It never reaches the solver.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Point is one hour of a record-shaped series.
type Point struct {
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
}

// Raw is a 24-hour series in any of the accepted wire shapes: a plain
// ordered list of 24 numbers, an object keyed by hour, or a list of
// {hour, value} records. Shape errors surface at Normalize, not here.
type Raw struct {
	ordered []float64
	byHour  map[int]float64
}

// FromSlice wraps an ordered list of hourly values.
func FromSlice(values []float64) *Raw {
	return &Raw{ordered: append([]float64(nil), values...)}
}

// FromMap wraps a series keyed by hour 0-23.
func FromMap(byHour map[int]float64) *Raw {
	m := make(map[int]float64, len(byHour))
	for h, v := range byHour {
		m[h] = v
	}
	return &Raw{byHour: m}
}

// FromPoints wraps a record-shaped series.
func FromPoints(points []Point) *Raw {
	m := make(map[int]float64, len(points))
	for _, p := range points {
		m[p.Hour] = p.Value
	}
	return &Raw{byHour: m}
}

// UnmarshalJSON accepts `[v0,...,v23]`, `{"0": v0, ...}` or
// `[{"hour":0,"value":v0}, ...]`.
func (r *Raw) UnmarshalJSON(data []byte) error {
	var ordered []float64
	if err := json.Unmarshal(data, &ordered); err == nil {
		r.ordered, r.byHour = ordered, nil
		return nil
	}

	var points []Point
	if err := json.Unmarshal(data, &points); err == nil && len(points) > 0 {
		*r = *FromPoints(points)
		return nil
	}

	var keyed map[string]float64
	if err := json.Unmarshal(data, &keyed); err == nil {
		m := make(map[int]float64, len(keyed))
		for k, v := range keyed {
			h, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("series key %q is not an hour", k)
			}
			m[h] = v
		}
		r.ordered, r.byHour = nil, m
		return nil
	}

	return fmt.Errorf("series must be a 24-number list, an hour-keyed object, or a list of {hour, value} records")
}

// resolve flattens the raw shape to an ordered 24-slot series.
func (r *Raw) resolve(field string) (coolingcloud.HourlySeries, error) {
	var out coolingcloud.HourlySeries

	if r.ordered != nil {
		if len(r.ordered) != coolingcloud.HoursPerDay {
			return out, &ValidationError{Field: field, Reason: fmt.Sprintf("expected 24 hourly values, got %d", len(r.ordered))}
		}
		copy(out[:], r.ordered)
		return out, nil
	}

	if len(r.byHour) != coolingcloud.HoursPerDay {
		missing := missingHours(r.byHour)
		return out, &ValidationError{Field: field, Reason: fmt.Sprintf("expected hours 0-23, missing %v", missing)}
	}
	for h, v := range r.byHour {
		if h < 0 || h >= coolingcloud.HoursPerDay {
			return out, &ValidationError{Field: field, Reason: fmt.Sprintf("hour %d out of range 0-23", h)}
		}
		out[h] = v
	}
	return out, nil
}

func missingHours(byHour map[int]float64) []int {
	var missing []int
	for h := 0; h < coolingcloud.HoursPerDay; h++ {
		if _, ok := byHour[h]; !ok {
			missing = append(missing, h)
		}
	}
	sort.Ints(missing)
	return missing
}

// Inputs is the canonical, validated data for one optimization run.
type Inputs struct {
	Temperature coolingcloud.HourlySeries
	Price       coolingcloud.HourlySeries
	WaterPrice  float64 // $ per 1,000 gallons
	Source      string  // SourceProvided | SourceFallback
}

// Normalize validates and canonicalizes the input series. A nil series is
// synthesized from the deterministic fallback for the given date and seed,
// and the result is tagged SourceFallback so downstream consumers can tell
// demo data from real data. Pure transform, no side effects.
func Normalize(rawTemp, rawPrice *Raw, waterPrice float64, date time.Time, seed int64) (*Inputs, error) {
	if waterPrice < 0 {
		return nil, &ValidationError{Field: "water_price", Reason: "must be >= 0"}
	}

	in := &Inputs{WaterPrice: waterPrice, Source: coolingcloud.SourceProvided}

	fallbackTemp, fallbackPrice := Fallback(date, seed)

	if rawTemp == nil {
		in.Temperature = fallbackTemp
		in.Source = coolingcloud.SourceFallback
	} else {
		temp, err := rawTemp.resolve("temperature")
		if err != nil {
			return nil, err
		}
		if err := validateTemperature(temp); err != nil {
			return nil, err
		}
		in.Temperature = temp
	}

	if rawPrice == nil {
		in.Price = fallbackPrice
		in.Source = coolingcloud.SourceFallback
	} else {
		price, err := rawPrice.resolve("electricity_price")
		if err != nil {
			return nil, err
		}
		if err := validatePrice(&price); err != nil {
			return nil, err
		}
		in.Price = price
	}

	return in, nil
}

func validateTemperature(temp coolingcloud.HourlySeries) error {
	for h, v := range temp {
		if v < MinTempF || v > MaxTempF {
			return &ValidationError{
				Field:  "temperature",
				Reason: fmt.Sprintf("hour %d is %.1f°F, outside sanity band [%.0f, %.0f]", h, v, MinTempF, MaxTempF),
			}
		}
	}
	return nil
}

// validatePrice rejects meaningfully negative prices and clamps noise-level
// negatives to zero in place.
func validatePrice(price *coolingcloud.HourlySeries) error {
	for h, v := range price {
		if v < -negativePriceTolerance {
			return &ValidationError{
				Field:  "electricity_price",
				Reason: fmt.Sprintf("hour %d is %.4f, negative prices are not supported", h, v),
			}
		}
		if v < 0 {
			price[h] = 0
		}
	}
	return nil
}
