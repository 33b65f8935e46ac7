package timeseries

import coolingcloud "github.com/srimaansri/cooling-the-cloud"

// Heat rejection rises with outside temperature: factor 1.0 at the 75°F
// reference, climbing linearly to 1.35 at 120°F and beyond at the same slope.
const (
	coolingRefTempF     = 75.0
	coolingFactorAt120F = 1.35
)

// CoolingRequirement derives the hourly heat load to remove from the
// facility's reference cooling load and the temperature forecast. The
// mapping is monotone non-decreasing in temperature; the model builder
// treats the result as data.
func CoolingRequirement(temp coolingcloud.HourlySeries, baseMW float64) coolingcloud.HourlySeries {
	var req coolingcloud.HourlySeries
	slope := (coolingFactorAt120F - 1.0) / (120.0 - coolingRefTempF)
	for h, t := range temp {
		factor := 1.0
		if t > coolingRefTempF {
			factor = 1.0 + slope*(t-coolingRefTempF)
		}
		req[h] = baseMW * factor
	}
	return req
}
