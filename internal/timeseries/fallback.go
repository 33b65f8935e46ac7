package timeseries

import (
	"math"
	"math/rand"
	"time"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

// Phoenix-summer proxy parameters. The diurnal curve bottoms near dawn and
// peaks mid-afternoon; prices follow the APS-style time-of-use tiers.
const (
	fallbackBaseTempF = 96.0
	fallbackTempSwing = 15.0
	fallbackTempMinF  = 75.0
	fallbackTempMaxF  = 118.0
	coolestHour       = 5 // dawn

	peakStartHour       = 15 // 3 PM
	peakEndHour         = 19 // through 7:59 PM
	superOffPeakEnd     = 5  // overnight tier runs 22:00-05:59
	peakRatePerMWh      = 150.0
	offPeakRatePerMWh   = 50.0
	overnightRatePerMWh = 30.0
)

// Fallback synthesizes a physically plausible temperature and price day for
// demo or offline use. Output is fully determined by (date, seed); a zero
// seed derives one from the date so distinct days still differ.
func Fallback(date time.Time, seed int64) (temp, price coolingcloud.HourlySeries) {
	if seed == 0 {
		y, m, d := date.Date()
		seed = int64(y)*10000 + int64(m)*100 + int64(d)
	}
	rng := rand.New(rand.NewSource(seed))

	for h := 0; h < coolingcloud.HoursPerDay; h++ {
		phase := 2 * math.Pi * float64(h-coolestHour) / float64(coolingcloud.HoursPerDay)
		t := fallbackBaseTempF - fallbackTempSwing*math.Cos(phase)
		t += rng.Float64()*4 - 2 // ±2°F jitter
		temp[h] = clamp(t, fallbackTempMinF, fallbackTempMaxF)
	}

	for h := 0; h < coolingcloud.HoursPerDay; h++ {
		rate := offPeakRatePerMWh
		switch {
		case h >= peakStartHour && h <= peakEndHour:
			rate = peakRatePerMWh
		case h >= 22 || h <= superOffPeakEnd:
			rate = overnightRatePerMWh
		}
		price[h] = rate * (0.95 + rng.Float64()*0.10) // ±5% jitter
	}

	return temp, price
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
