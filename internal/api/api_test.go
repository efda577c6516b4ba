package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fjacquet/daily-budget/internal/classifier"
	"fjacquet/daily-budget/internal/engine"
	"fjacquet/daily-budget/internal/history"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"
	"fjacquet/daily-budget/internal/planner"
	"fjacquet/daily-budget/internal/store"
	"fjacquet/daily-budget/internal/temporal"
	"fjacquet/daily-budget/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()

	c, err := classifier.New(nil, classifier.Options{
		TransitionBand:     decimal.RequireFromString("0.05"),
		DefaultBufferRatio: decimal.RequireFromString("0.20"),
	}, logger)
	require.NoError(t, err)
	adjuster, err := temporal.New(temporal.DefaultConfig())
	require.NoError(t, err)

	p := planner.New(c, history.NewAggregator(logger), engine.New(adjuster, engine.DefaultConfig(), logger),
		validation.NewValidator(decimal.RequireFromString("0.01"), logger), store.NewMockLedger(), nil, logger)
	return NewRouter(p, logger), logger
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const aprilPlan = `{
	"profile_id": "alice",
	"period_start": "2024-04-01",
	"period_end": "2024-04-30",
	"monthly_income": "3000",
	"fixed_commitments": 1500,
	"savings_target": 450,
	"currency": "chf",
	"as_of": "2024-04-10"
}`

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreatePlan_Basic(t *testing.T) {
	r, logger := newTestRouter(t)

	w := do(r, http.MethodPost, "/v1/plans", aprilPlan)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var plan models.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, "alice", plan.ProfileID)
	assert.Equal(t, "CHF", plan.Period.Currency)
	require.NotNil(t, plan.Result)
	assert.Len(t, plan.Result.DayAllocations, 30)
	assert.Equal(t, models.MethodologyFallback, plan.Result.Methodology)
	assert.True(t, plan.Validation.OK)

	assert.True(t, logger.HasEntry("INFO", "HTTP request"))
	status, ok := logger.FieldValue("HTTP request", logging.FieldStatus)
	require.True(t, ok)
	assert.Equal(t, http.StatusCreated, status)
}

func TestCreatePlan_WithTransactions(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{
		"period_start": "2024-04-01",
		"period_end": "2024-04-30",
		"monthly_income": 3000,
		"fixed_commitments": 1500,
		"savings_target": 450,
		"currency": "CHF",
		"as_of": "2024-04-10",
		"freeze": true,
		"transactions": [
			{"id": "t1", "date": "2024-04-02", "amount": "42.50", "category": "groceries"},
			{"id": "t2", "date": "2024-04-05", "amount": 18, "currency": "CHF", "category": "transport"}
		]
	}`
	w := do(r, http.MethodPost, "/v1/plans", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var plan models.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, planner.DefaultProfileID, plan.ProfileID)
	assert.Equal(t, models.MethodologyFullHistory, plan.Result.Methodology)
	assert.Equal(t, 10, plan.FrozenNew)
}

func TestCreatePlan_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		shortfall string
	}{
		{
			name:   "malformed json",
			body:   `{"period_start":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "missing currency",
			body:   `{"period_start":"2024-04-01","period_end":"2024-04-30","monthly_income":3000}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "bad date",
			body:   `{"period_start":"01.04.2024","period_end":"2024-04-30","monthly_income":3000,"currency":"CHF"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "bad mode",
			body:   `{"period_start":"2024-04-01","period_end":"2024-04-30","monthly_income":3000,"currency":"CHF","mode":"magic"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown currency",
			body:   `{"period_start":"2024-04-01","period_end":"2024-04-30","monthly_income":3000,"currency":"XYZ"}`,
			status: http.StatusBadRequest,
		},
		{
			name: "mixed currencies",
			body: `{"period_start":"2024-04-01","period_end":"2024-04-30","monthly_income":3000,"currency":"CHF",
				"as_of":"2024-04-10","transactions":[{"id":"t1","date":"2024-04-02","amount":5,"currency":"EUR"}]}`,
			status: http.StatusBadRequest,
		},
		{
			name: "infeasible",
			body: `{"period_start":"2024-04-01","period_end":"2024-04-30","monthly_income":1000,
				"fixed_commitments":800,"savings_target":300,"currency":"CHF"}`,
			status:    http.StatusUnprocessableEntity,
			shortfall: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t)

			w := do(r, http.MethodPost, "/v1/plans", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var e HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error)
			assert.NotEmpty(t, e.RequestID)
			assert.Equal(t, tt.shortfall, e.Shortfall)
		})
	}
}

func TestCreateClassification(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/v1/classifications", `{"monthly_income":"3000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var c models.IncomeClassification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, models.TierLowerMiddle, c.Tier)

	w = do(r, http.MethodPost, "/v1/classifications", `{"monthly_income":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouting(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/v2/plans", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodGet, "/v1/plans", "").Code)
}
