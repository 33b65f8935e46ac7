package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockOptimization struct {
	run        *coolingcloud.OptimizationRun
	err        error
	lastParams service.OptimizeParams
	calls      int
}

func (m *mockOptimization) Run(ctx context.Context, p service.OptimizeParams) (*coolingcloud.OptimizationRun, error) {
	m.calls++
	m.lastParams = p
	return m.run, m.err
}

type mockHistory struct {
	summaries []coolingcloud.RunSummary
	listErr   error
	run       *coolingcloud.OptimizationRun
	getErr    error
	period    coolingcloud.PeriodSummary
	periodErr error

	lastLimit int
	lastRunID string
	lastDays  int
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]coolingcloud.RunSummary, error) {
	m.lastLimit = limit
	return m.summaries, m.listErr
}
func (m *mockHistory) Get(ctx context.Context, runID string) (*coolingcloud.OptimizationRun, error) {
	m.lastRunID = runID
	return m.run, m.getErr
}
func (m *mockHistory) PeriodSummary(ctx context.Context, days int) (coolingcloud.PeriodSummary, error) {
	m.lastDays = days
	return m.period, m.periodErr
}

type mockForecast struct {
	fc       *service.DayForecast
	err      error
	lastDate string
	lastSeed int64
}

func (m *mockForecast) Day(date string, seed int64) (*service.DayForecast, error) {
	m.lastDate = date
	m.lastSeed = seed
	return m.fc, m.err
}

type mockReporter struct {
	text      string
	err       error
	lastRunID string
}

func (m *mockReporter) Text(ctx context.Context, runID string) (string, error) {
	m.lastRunID = runID
	return m.text, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
