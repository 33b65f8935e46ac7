package service

import (
	"context"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

// fakeRunRepo is an in-test stand-in for repository.RunRepo.
type fakeRunRepo struct {
	saved     []*coolingcloud.OptimizationRun
	saveErr   error
	listResp  []coolingcloud.RunSummary
	listErr   error
	getResp   *coolingcloud.OptimizationRun
	getErr    error
	period    coolingcloud.PeriodSummary
	periodErr error

	lastLimit int
	lastDays  int
	lastGetID string
}

func (f *fakeRunRepo) Save(ctx context.Context, run *coolingcloud.OptimizationRun) error {
	f.saved = append(f.saved, run)
	return f.saveErr
}

func (f *fakeRunRepo) Get(ctx context.Context, runID string) (*coolingcloud.OptimizationRun, error) {
	f.lastGetID = runID
	return f.getResp, f.getErr
}

func (f *fakeRunRepo) List(ctx context.Context, limit int) ([]coolingcloud.RunSummary, error) {
	f.lastLimit = limit
	return f.listResp, f.listErr
}

func (f *fakeRunRepo) PeriodSummary(ctx context.Context, days int) (coolingcloud.PeriodSummary, error) {
	f.lastDays = days
	return f.period, f.periodErr
}

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn        func(username, hash string) (int, error)
	GetByUsernameFn func(username string) (*coolingcloud.User, error)

	createCalls []struct {
		username string
		hash     string
	}
	getCalls []string
}

func (m *mockAuthRepo) Create(username, hash string) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		hash     string
	}{username: username, hash: hash})
	return m.CreateFn(username, hash)
}

func (m *mockAuthRepo) GetByUsername(username string) (*coolingcloud.User, error) {
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(username)
}

// testDefaults is a facility roomy enough that the embedded simplex always
// finds a plan quickly.
func testDefaults() Defaults {
	return Defaults{
		Facility: coolingcloud.FacilityConfig{
			TotalCapacityMW:        200,
			CriticalLoadMW:         30,
			FlexibleCapacityMW:     20,
			RequiredFlexibleMWh:    100,
			CoolingRequirementMW:   15,
			WaterCoolingCapacityMW: 25,
			ChillerCapacityMW:      22,
			WaterKWPerKWCooling:    0.5,
			ChillerKWPerKWCooling:  1.2,
			GallonsPerMWCooling:    1500,
			MaxDailyWaterGallons:   1e9,
			MaxRampMWPerHour:       20,
		},
		WaterPrice:      3.24,
		Variant:         coolingcloud.VariantLinear,
		PreferredSolver: "simplex",
	}
}
