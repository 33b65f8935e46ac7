package coolingcloud

import "time"

// HoursPerDay is the optimization horizon: one calendar day, hourly resolution.
const HoursPerDay = 24

// HourlySeries is an ordered sequence of one value per hour 0-23.
type HourlySeries [HoursPerDay]float64

// Sum returns the total across all 24 hours.
func (s HourlySeries) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// Max returns the largest hourly value.
func (s HourlySeries) Max() float64 {
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min returns the smallest hourly value.
func (s HourlySeries) Min() float64 {
	m := s[0]
	for _, v := range s[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Slice returns the series as a []float64 copy, for JSON payloads and reports.
func (s HourlySeries) Slice() []float64 {
	out := make([]float64, HoursPerDay)
	copy(out, s[:])
	return out
}

// Model variants. The full variant models cooling mode as a discrete
// either/or choice per hour (a MIP); the linear variant relaxes it to a
// continuous water-cooling share in [0,1] so that a plain LP solver is
// always sufficient.
const (
	VariantFull   = "full"
	VariantLinear = "linear"
)

// Solve statuses reported on OptimizationResult.
const (
	StatusOptimal    = "optimal"
	StatusFeasible   = "feasible"
	StatusInfeasible = "infeasible"
	StatusError      = "error"
)

// Input series provenance.
const (
	SourceProvided = "provided"
	SourceFallback = "fallback"
)

// FacilityConfig describes the physical plant. It is immutable input to an
// optimization run; defaults come from configs/config.yml but every value is
// passed in explicitly, the core never reads ambient process state.
type FacilityConfig struct {
	TotalCapacityMW        float64 `json:"total_capacity_mw"`
	CriticalLoadMW         float64 `json:"critical_load_mw"`
	FlexibleCapacityMW     float64 `json:"flexible_capacity_mw"`
	RequiredFlexibleMWh    float64 `json:"required_flexible_energy_mwh"`
	CoolingRequirementMW   float64 `json:"cooling_requirement_mw"` // heat load at 75°F reference
	WaterCoolingCapacityMW float64 `json:"water_cooling_capacity_mw"`
	ChillerCapacityMW      float64 `json:"chiller_capacity_mw"`
	WaterKWPerKWCooling    float64 `json:"water_kw_per_kw_cooling"`
	ChillerKWPerKWCooling  float64 `json:"chiller_kw_per_kw_cooling"`
	GallonsPerMWCooling    float64 `json:"gallons_per_mw_cooling"`
	MaxDailyWaterGallons   float64 `json:"max_daily_water_gallons"`
	MaxRampMWPerHour       float64 `json:"max_ramp_mw_per_hour"`
	DemandChargePerMW      float64 `json:"demand_charge_per_mw"` // 0 disables the demand-charge term
	SolverTimeLimitS       float64 `json:"solver_time_limit_s"`
}

// HourSlot is one hour of a DecisionPlan.
type HourSlot struct {
	Hour          int     `json:"hour"`
	BatchLoadMW   float64 `json:"batch_load_mw"`
	WaterShare    float64 `json:"water_share"` // 0 or 1 in the full variant, [0,1] in linear
	TotalPowerMW  float64 `json:"total_power_mw"`
	WaterUsageGal float64 `json:"water_usage_gal"`
	HourlyCost    float64 `json:"hourly_cost"`
	TemperatureF  float64 `json:"temperature_f"`
	PricePerMWh   float64 `json:"electricity_price"`
}

// DecisionPlan is the hourly schedule produced by a feasible solve.
type DecisionPlan struct {
	Hours        [HoursPerDay]HourSlot `json:"hours"`
	PeakDemandMW float64               `json:"peak_demand_mw"`
}

// TotalBatchMWh sums scheduled deferrable energy; for any feasible plan it
// equals RequiredFlexibleMWh within solver tolerance.
func (p *DecisionPlan) TotalBatchMWh() float64 {
	total := 0.0
	for _, h := range p.Hours {
		total += h.BatchLoadMW
	}
	return total
}

// TotalWaterGal sums hourly water consumption.
func (p *DecisionPlan) TotalWaterGal() float64 {
	total := 0.0
	for _, h := range p.Hours {
		total += h.WaterUsageGal
	}
	return total
}

// Environmental holds the impact metrics derived against the baseline.
type Environmental struct {
	WaterUsedGal     float64 `json:"water_used_gallons"`
	WaterSavedGal    float64 `json:"water_saved_gallons"`
	CarbonAvoidedTon float64 `json:"carbon_avoided_tons"`
	PeakReductionMW  float64 `json:"peak_reduction_mw"`
}

// OptimizationResult is the complete outcome of one run.
// Plan is nil unless Status is optimal or feasible.
type OptimizationResult struct {
	Status         string        `json:"status"`
	Plan           *DecisionPlan `json:"plan,omitempty"`
	ObjectiveValue float64       `json:"objective_value"`
	BaselineCost   float64       `json:"baseline_cost"`
	SavingsAbs     float64       `json:"savings_abs"`
	SavingsPct     float64       `json:"savings_pct"`
	Environmental  Environmental `json:"environmental"`
	SolverUsed     string        `json:"solver_used,omitempty"`
	SolveTimeS     float64       `json:"solve_time_s"`
	DataSource     string        `json:"data_source"` // provided | fallback
	Variant        string        `json:"variant"`
	Error          string        `json:"error,omitempty"`
}

// OptimizationRun is a persisted run record: the result plus identity and the
// inputs it was computed from, so reports and history remain reproducible.
type OptimizationRun struct {
	RunID        string             `json:"run_id"`
	Date         string             `json:"date"` // YYYY-MM-DD of the planned day
	CreatedAt    time.Time          `json:"created_at"`
	Variant      string             `json:"variant"`
	Temperature  HourlySeries       `json:"temperature_f"`
	Price        HourlySeries       `json:"electricity_price"`
	WaterPrice   float64            `json:"water_price"`
	Config       FacilityConfig     `json:"config"`
	Result       OptimizationResult `json:"result"`
}

// RunSummary is the lightweight history row (no hourly detail).
type RunSummary struct {
	RunID        string    `json:"run_id"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
	Variant      string    `json:"variant"`
	Status       string    `json:"status"`
	SolverUsed   string    `json:"solver_used"`
	TotalCost    float64   `json:"total_cost"`
	BaselineCost float64   `json:"baseline_cost"`
	SavingsAbs   float64   `json:"savings_abs"`
	SavingsPct   float64   `json:"savings_pct"`
	WaterUsedGal float64   `json:"water_used_gallons"`
	CarbonTons   float64   `json:"carbon_avoided_tons"`
}

// PeriodSummary aggregates run history over a trailing window.
type PeriodSummary struct {
	Days            int     `json:"days"`
	Runs            int     `json:"runs"`
	TotalSavings    float64 `json:"total_savings"`
	AvgDailySavings float64 `json:"avg_daily_savings"`
	AvgSavingsPct   float64 `json:"avg_savings_percent"`
	TotalWaterGal   float64 `json:"total_water_gallons"`
	TotalCarbonTons float64 `json:"total_carbon_tons"`
}

// User is an operator account for the dashboard API.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
