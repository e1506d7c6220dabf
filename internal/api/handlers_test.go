// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/activity"
	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/detection"
	"github.com/tomtom215/promoscore/internal/finance"
	"github.com/tomtom215/promoscore/internal/gateway"
	"github.com/tomtom215/promoscore/internal/middleware"
	"github.com/tomtom215/promoscore/internal/payout"
	"github.com/tomtom215/promoscore/internal/pricing"
	"github.com/tomtom215/promoscore/internal/settlement"
)

var epoch = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// rangeQuery covers the five seeded minutes.
var rangeQuery = "?start=" + epoch.Format(time.RFC3339) + "&cutoff=" + epoch.Add(5*time.Minute).Format(time.RFC3339)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	router  http.Handler
	ledger  *activity.MemoryLedger
	queue   *detection.MemoryAuditQueue
	gateway *gateway.LogGateway
}

func seed(t *testing.T, l activity.Ledger, userID string, perMinute []int) {
	t.Helper()
	for m, n := range perMinute {
		for i := 0; i < n; i++ {
			ts := epoch.Add(time.Duration(m)*time.Minute + time.Duration(i)*time.Millisecond)
			if err := l.Record(context.Background(), &activity.Event{UserID: userID, Type: activity.EventComment, Timestamp: ts}); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}
	}
}

func newTestServer(t *testing.T, mw *ChiMiddlewareConfig, checks map[string]HealthCheck) *testServer {
	t.Helper()
	return newTestServerWith(t, mw, checks, nil)
}

// newTestServerWith lets a test adjust the dependencies before the handler
// is built.
func newTestServerWith(t *testing.T, mw *ChiMiddlewareConfig, checks map[string]HealthCheck, adjust func(*Dependencies)) *testServer {
	t.Helper()

	cfg := config.Default()
	ledger := activity.NewMemoryLedger()
	queue := detection.NewMemoryAuditQueue()
	evaluator, err := detection.NewEvaluator(ledger, queue, detection.EvaluatorConfig{
		Baseline:      detection.Baseline{Mean: cfg.Detection.MeanNormalActivity, StdDev: cfg.Detection.StdDevNormalActivity},
		WindowMinutes: cfg.Detection.DefaultMeasurementDurationMinutes,
	})
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	gw := gateway.NewLogGateway()
	engine := payout.NewEngine(cfg.Payout)
	creatorPayouts := finance.NewBudgetPayoutProcessor(cfg.Finance)

	deps := &Dependencies{
		Ledger:         ledger,
		Evaluator:      evaluator,
		AuditQueue:     queue,
		Payout:         engine,
		Withdrawals:    finance.NewWithdrawalProcessor(cfg.Finance),
		CreatorPayouts: creatorPayouts,
		Budgets:        finance.NewBudgetLedger(finance.NewMemoryBudgetStore(), creatorPayouts),
		Pricer:         pricing.NewPricer(cfg.Pricing),
		Settlement:     settlement.NewService(evaluator, engine, gw, ledger, config.SettlementConfig{Workers: 2, Lookback: time.Hour}),
		Depositor:      gw,
		Transactions:   gw,
		HealthChecks:   checks,
		Version:        "test",
	}
	if adjust != nil {
		adjust(deps)
	}
	h, err := NewHandler(deps)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	return &testServer{router: NewRouter(h, NewChiMiddleware(mw)), ledger: ledger, queue: queue, gateway: gw}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestNewHandler_RequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(nil); err == nil {
		t.Error("expected error for nil dependencies")
	}
	if _, err := NewHandler(&Dependencies{Ledger: activity.NewMemoryLedger()}); err == nil {
		t.Error("expected error for missing evaluator")
	}
}

func TestRecordActivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "valid view",
			body:       map[string]interface{}{"user_id": "u-1", "type": "view", "timestamp": epoch},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "timestamp defaults to now",
			body:       map[string]interface{}{"user_id": "u-1", "type": "like"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown type",
			body:       map[string]interface{}{"user_id": "u-1", "type": "share"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "missing user",
			body:       map[string]interface{}{"type": "view"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "unknown field",
			body:       `{"user_id":"u-1","type":"view","bogus":1}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_JSON",
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, nil, nil)

			rec, env := s.do(t, http.MethodPost, "/api/v1/activity", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}
			users, _ := s.ledger.Users(context.Background())
			if len(users) != 1 || users[0] != "u-1" {
				t.Errorf("ledger users = %v, want [u-1]", users)
			}
		})
	}
}

func TestEvaluation_LevelsAndAuditQueue(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)
	seed(t, s.ledger, "valid", []int{10, 12, 11, 13, 9})
	seed(t, s.ledger, "suspicious", []int{15, 15, 15, 15, 15})
	seed(t, s.ledger, "bot", []int{20, 22, 21, 21, 21})

	tests := []struct {
		user      string
		wantLevel string
		wantRate  float64
	}{
		{"valid", "C", 11},
		{"suspicious", "B", 15},
		{"bot", "A", 21},
	}
	for _, tt := range tests {
		rec, env := s.do(t, http.MethodGet, "/api/v1/users/"+tt.user+"/evaluation"+rangeQuery, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d: %s", tt.user, rec.Code, rec.Body.String())
		}
		var ev detection.Evaluation
		decodeData(t, env, &ev)
		if ev.Level.String() != tt.wantLevel {
			t.Errorf("%s: level = %s, want %s", tt.user, ev.Level, tt.wantLevel)
		}
		if ev.AverageRate != tt.wantRate {
			t.Errorf("%s: average rate = %v, want %v", tt.user, ev.AverageRate, tt.wantRate)
		}
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/audit/queue", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit queue status = %d", rec.Code)
	}
	var queue struct {
		Items []detection.AuditItem `json:"items"`
		Count int                   `json:"count"`
	}
	decodeData(t, env, &queue)
	if queue.Count != 1 || queue.Items[0].UserID != "suspicious" {
		t.Fatalf("audit queue = %+v, want only suspicious", queue)
	}

	if rec, _ := s.do(t, http.MethodDelete, "/api/v1/audit/queue/suspicious", nil); rec.Code != http.StatusOK {
		t.Errorf("resolve status = %d, want 200", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodDelete, "/api/v1/audit/queue/suspicious", nil); rec.Code != http.StatusNotFound {
		t.Errorf("second resolve status = %d, want 404", rec.Code)
	}
}

func TestEvaluation_InvalidRange(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name  string
		query string
	}{
		{"malformed cutoff", "?cutoff=yesterday"},
		{"malformed start", "?start=2026-13-01"},
		{"cutoff before start", "?start=" + epoch.Format(time.RFC3339) + "&cutoff=" + epoch.Add(-time.Hour).Format(time.RFC3339)},
	}
	for _, tt := range tests {
		rec, env := s.do(t, http.MethodGet, "/api/v1/users/u-1/evaluation"+tt.query, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("%s: error = %+v", tt.name, env.Error)
		}
	}
}

func TestEvaluationRange_TooLong(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	cutoff := epoch.Format(time.RFC3339)
	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"evaluation year one", http.MethodGet, "/api/v1/users/u-1/evaluation?start=0001-01-01T00:00:00Z&cutoff=" + cutoff},
		{"evaluation one day over", http.MethodGet, "/api/v1/users/u-1/evaluation?start=" + epoch.AddDate(0, 0, -32).Format(time.RFC3339) + "&cutoff=" + cutoff},
		{"settlement five years", http.MethodPost, "/api/v1/settlements/u-1?start=" + epoch.AddDate(-5, 0, 0).Format(time.RFC3339) + "&cutoff=" + cutoff},
	}
	for _, tt := range tests {
		rec, env := s.do(t, tt.method, tt.path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("%s: error = %+v", tt.name, env.Error)
		}
	}
	if n := s.queue.Len(); n != 0 {
		t.Errorf("audit queue has %d items after rejected ranges", n)
	}
}

func TestEvaluationRange_WindowCap(t *testing.T) {
	t.Parallel()
	// The handler allows the range but it splits into too many windows.
	s := newTestServerWith(t, nil, nil, func(d *Dependencies) {
		d.MaxEvaluationRange = 10 * 365 * 24 * time.Hour
	})

	path := "?start=" + epoch.AddDate(-1, 0, 0).Format(time.RFC3339) + "&cutoff=" + epoch.Format(time.RFC3339)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/u-1/evaluation" + path},
		{http.MethodPost, "/api/v1/settlements/u-1" + path},
	} {
		rec, env := s.do(t, route.method, route.path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d, want 400", route.method, route.path, rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("%s: error = %+v", route.path, env.Error)
		}
	}
}

func TestDailyPayout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAmount string
	}{
		{"configured fee", `{"average_rate":5}`, http.StatusOK, "10800"},
		{"fee override", `{"average_rate":11,"rate_fee":"1.5"}`, http.StatusOK, "23760"},
		{"zero rate", `{"average_rate":0}`, http.StatusOK, "0"},
		{"negative rate", `{"average_rate":-1}`, http.StatusBadRequest, ""},
		{"negative fee", `{"average_rate":1,"rate_fee":"-0.5"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		rec, env := s.do(t, http.MethodPost, "/api/v1/payouts/daily", tt.body)
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d: %s", tt.name, rec.Code, tt.wantStatus, rec.Body.String())
			continue
		}
		if tt.wantAmount == "" {
			continue
		}
		var b payout.Breakdown
		decodeData(t, env, &b)
		assertDecimal(t, tt.name+" amount", b.Amount, tt.wantAmount)
	}
}

func TestWithdrawal(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	rec, env := s.do(t, http.MethodPost, "/api/v1/withdrawals", `{"user_id":"p-1","gross_amount":"123.45"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res finance.WithdrawalResult
	decodeData(t, env, &res)
	assertDecimal(t, "tax", res.TaxDeducted, "2.47")
	assertDecimal(t, "fee", res.PlatformFee, "12.35")
	assertDecimal(t, "net", res.NetPayout, "108.63")

	rec, env = s.do(t, http.MethodPost, "/api/v1/withdrawals", `{"user_id":"p-1","gross_amount":"-1"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative status = %d, want 422", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "INVALID_AMOUNT" {
		t.Errorf("negative error = %+v, want INVALID_AMOUNT", env.Error)
	}
	decodeData(t, env, &res)
	if !res.NetPayout.IsZero() || !res.GrossAmount.IsZero() {
		t.Errorf("negative result should be zeroed, got %+v", res)
	}
}

func TestCreatorPayout_AgainstStoredBudget(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	rec, env := s.do(t, http.MethodPost, "/api/v1/budgets/deposits", `{"advertiser_id":"adv-1","amount":"100"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("deposit status = %d: %s", rec.Code, rec.Body.String())
	}
	var dep struct {
		Balance string           `json:"balance"`
		Receipt *gateway.Receipt `json:"receipt"`
	}
	decodeData(t, env, &dep)
	if dep.Balance != "100.00" {
		t.Errorf("balance after deposit = %s, want 100.00", dep.Balance)
	}
	if dep.Receipt == nil || dep.Receipt.Status != gateway.StatusPending {
		t.Errorf("deposit receipt = %+v, want pending", dep.Receipt)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/creator-payouts", `{"advertiser_id":"adv-1","creator_id":"c-1","payout_to_creator":"32.45"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("charge status = %d: %s", rec.Code, rec.Body.String())
	}
	var res finance.BudgetPayoutResult
	decodeData(t, env, &res)
	assertDecimal(t, "fee", res.PlatformFeeCharged, "3.25")
	assertDecimal(t, "total", res.TotalDeductedFromBudget, "35.70")
	assertDecimal(t, "remaining", res.RemainingBudget, "64.31")

	rec, env = s.do(t, http.MethodPost, "/api/v1/creator-payouts", `{"advertiser_id":"adv-1","creator_id":"c-1","payout_to_creator":"100"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("insufficient status = %d, want 422", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "INSUFFICIENT_BUDGET" {
		t.Errorf("insufficient error = %+v", env.Error)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/budgets/adv-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance status = %d", rec.Code)
	}
	var bal struct {
		Balance string `json:"balance"`
	}
	decodeData(t, env, &bal)
	if bal.Balance != "64.31" {
		t.Errorf("balance after rejection = %s, want 64.31", bal.Balance)
	}

	if rec, _ := s.do(t, http.MethodPost, "/api/v1/creator-payouts", `{"advertiser_id":"adv-x","creator_id":"c-1","payout_to_creator":"1"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown advertiser status = %d, want 404", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/budgets/adv-x", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown budget status = %d, want 404", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodPost, "/api/v1/budgets/deposits", `{"advertiser_id":"adv-1","amount":"0"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero deposit status = %d, want 422", rec.Code)
	}
}

func TestCreatorPayoutQuote(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantCode      string
		wantRemaining string
	}{
		{"configured fee", `{"creator_id":"c-1","payout_to_creator":"32.45","budget":"100"}`, http.StatusOK, "", "64.31"},
		{"zero fee", `{"creator_id":"c-1","payout_to_creator":"35.795","budget":"100","fee_rate":"0"}`, http.StatusOK, "", "64.21"},
		{"insufficient", `{"creator_id":"c-1","payout_to_creator":"100000","budget":"100"}`, http.StatusUnprocessableEntity, "INSUFFICIENT_BUDGET", "100"},
		{"negative payout", `{"creator_id":"c-1","payout_to_creator":"-5","budget":"100"}`, http.StatusUnprocessableEntity, "INVALID_AMOUNT", "100"},
	}
	for _, tt := range tests {
		rec, env := s.do(t, http.MethodPost, "/api/v1/creator-payouts/quote", tt.body)
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d: %s", tt.name, rec.Code, tt.wantStatus, rec.Body.String())
			continue
		}
		if tt.wantCode != "" && (env.Error == nil || env.Error.Code != tt.wantCode) {
			t.Errorf("%s: error = %+v, want %s", tt.name, env.Error, tt.wantCode)
		}
		var res finance.BudgetPayoutResult
		decodeData(t, env, &res)
		assertDecimal(t, tt.name+" remaining", res.RemainingBudget, tt.wantRemaining)
	}
}

func TestPricingQuote(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	rec, env := s.do(t, http.MethodPost, "/api/v1/pricing/quote", `{"total_units":12000000,"credit_limit":11000000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res pricing.PricingResult
	decodeData(t, env, &res)
	assertDecimal(t, "total cost", res.TotalCost, "114000000")
	if !res.DiscountApplied || res.OverageUnits != 1_000_000 {
		t.Errorf("result = %+v, want discount and 1,000,000 overage units", res)
	}
	if len(res.Lines) == 0 {
		t.Error("expected itemized lines")
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/pricing/quote", `{"total_units":-1}`)
	if rec.Code != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "INVALID_AMOUNT" {
		t.Errorf("negative units: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestSettle(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)
	seed(t, s.ledger, "valid", []int{10, 12, 11, 13, 9})
	seed(t, s.ledger, "bot", []int{20, 22, 21, 21, 21})

	rec, env := s.do(t, http.MethodPost, "/api/v1/settlements/valid"+rangeQuery, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var st settlement.Settlement
	decodeData(t, env, &st)
	if st.Status != settlement.StatusPaid || st.Receipt == nil {
		t.Fatalf("settlement = %+v, want paid with receipt", st)
	}
	assertDecimal(t, "daily payout", st.DailyPayout, "23760")

	rec, env = s.do(t, http.MethodGet, "/api/v1/gateway/transactions/"+st.Receipt.TransactionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("transaction status = %d", rec.Code)
	}
	var receipt gateway.Receipt
	decodeData(t, env, &receipt)
	if receipt.UserID != "valid" {
		t.Errorf("receipt user = %s, want valid", receipt.UserID)
	}
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/gateway/transactions/PAYOUT-NOPE", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown transaction status = %d, want 404", rec.Code)
	}

	_, env = s.do(t, http.MethodPost, "/api/v1/settlements/bot"+rangeQuery, nil)
	decodeData(t, env, &st)
	if st.Status != settlement.StatusCancelled || st.Receipt != nil {
		t.Errorf("bot settlement = %+v, want cancelled without receipt", st)
	}
}

func TestSettlementSweep(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)
	seed(t, s.ledger, "valid", []int{10})
	seed(t, s.ledger, "bot", []int{20})

	rec, env := s.do(t, http.MethodPost, "/api/v1/settlements/sweep", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Count int `json:"count"`
	}
	decodeData(t, env, &body)
	if body.Count != 2 {
		t.Errorf("swept %d users, want 2", body.Count)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	healthy := newTestServer(t, nil, map[string]HealthCheck{
		"store": func(context.Context) error { return nil },
	})
	rec, env := healthy.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status HealthStatus
	decodeData(t, env, &status)
	if status.Status != "healthy" || status.Checks["store"] != "ok" || status.Version != "test" {
		t.Errorf("health = %+v", status)
	}

	broken := newTestServer(t, nil, map[string]HealthCheck{
		"store": func(context.Context) error { return errors.New("store is closed") },
	})
	rec, env = broken.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	decodeData(t, env, &status)
	if status.Checks["store"] != "store is closed" {
		t.Errorf("checks = %v", status.Checks)
	}
}

func TestRouter_RequestIDAndNotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/queue", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Errorf("request id header = %q, want req-123", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on API routes")
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("expected ETag on JSON responses")
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown route: status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 1
	mw.RateLimitWindow = time.Minute
	s := newTestServer(t, mw, nil)

	if rec, _ := s.do(t, http.MethodGet, "/api/v1/audit/queue", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	rec, env := s.do(t, http.MethodGet, "/api/v1/audit/queue", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error = %+v, want RATE_LIMIT_EXCEEDED", env.Error)
	}

	// health sits outside the limited group
	if rec, _ := s.do(t, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFromSecurity(config.SecurityConfig{
		RateLimitReqs:     7,
		RateLimitWindow:   time.Second,
		RateLimitDisabled: true,
		CORSOrigins:       []string{"https://app.example"},
	})
	if cfg.RateLimitRequests != 7 || cfg.RateLimitWindow != time.Second || !cfg.RateLimitDisabled {
		t.Errorf("rate limit config = %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://app.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
}
