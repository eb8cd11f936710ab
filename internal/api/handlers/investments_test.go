package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clearharbor/bond-platform-backend/internal/api/handlers"
	"github.com/clearharbor/bond-platform-backend/internal/testutil"
)

var day0 = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// withURLParam injects a chi route parameter so handlers can be exercised
// without the full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestInvestmentHandler_Create(t *testing.T) {
	t.Run("POST /api/investments returns 201 with draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, day0)
		handler := handlers.NewInvestmentHandler(svc)
		user := testutil.NewUser().Build(t, db)

		body := `{
			"userId": "` + user.ID + `",
			"amount": "10000",
			"lockupPeriod": "1-year",
			"paymentFrequency": "compounding",
			"accountType": "individual",
			"paymentMethod": "ach"
		}`

		req := httptest.NewRequest(http.MethodPost, "/api/investments/", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}

		var response handlers.InvestmentResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.ID != "INV-10001" {
			t.Errorf("Expected INV-10001, got %s", response.ID)
		}
		if response.Status != "draft" {
			t.Errorf("Expected draft, got %s", response.Status)
		}
		if response.Amount != "10000.00" {
			t.Errorf("Expected amount 10000.00, got %s", response.Amount)
		}
		if response.Bonds != 1000 {
			t.Errorf("Expected 1000 bonds, got %d", response.Bonds)
		}
	})

	t.Run("POST /api/investments returns 400 with field errors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, day0)
		handler := handlers.NewInvestmentHandler(svc)

		body := `{"userId": "USR-1001", "amount": "500", "lockupPeriod": "1-year",
			"paymentFrequency": "compounding", "accountType": "individual", "paymentMethod": "ach"}`

		req := httptest.NewRequest(http.MethodPost, "/api/investments/", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d", w.Code)
		}

		var response struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Error != "validation failed" {
			t.Errorf("Expected 'validation failed', got '%s'", response.Error)
		}
		if _, ok := response.Fields["amount"]; !ok {
			t.Errorf("Expected amount field error, got %v", response.Fields)
		}
	})

	t.Run("POST /api/investments returns 400 on malformed JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, day0)
		handler := handlers.NewInvestmentHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/investments/", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestInvestmentHandler_Get(t *testing.T) {
	t.Run("GET /api/investments/{id} returns the investment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, day0)
		handler := handlers.NewInvestmentHandler(svc)
		user := testutil.NewUser().Build(t, db)
		inv := testutil.NewInvestment(user.ID).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/investments/"+inv.ID, nil)
		req = withURLParam(req, "investmentID", inv.ID)
		w := httptest.NewRecorder()

		handler.Get(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response handlers.InvestmentResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.ID != inv.ID {
			t.Errorf("Expected %s, got %s", inv.ID, response.ID)
		}
	})

	t.Run("GET /api/investments/{id} returns 404 for unknown id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, day0)
		handler := handlers.NewInvestmentHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/investments/INV-99999", nil)
		req = withURLParam(req, "investmentID", "INV-99999")
		w := httptest.NewRecorder()

		handler.Get(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestInvestmentHandler_Submit(t *testing.T) {
	t.Run("POST submit moves draft to pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, day0)
		handler := handlers.NewInvestmentHandler(svc)
		user := testutil.NewUser().Build(t, db)
		inv := testutil.NewInvestment(user.ID).Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/investments/"+inv.ID+"/submit", nil)
		req = withURLParam(req, "investmentID", inv.ID)
		w := httptest.NewRecorder()

		handler.Submit(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response handlers.InvestmentResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Status != "pending" {
			t.Errorf("Expected pending, got %s", response.Status)
		}
		if response.SubmittedAt == nil {
			t.Error("Expected submittedAt set")
		}
	})

	t.Run("POST submit on active investment returns 409 with allowed transitions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, day0)
		handler := handlers.NewInvestmentHandler(svc)
		inv := testutil.CreateActiveInvestment(t, db, day0)

		req := httptest.NewRequest(http.MethodPost, "/api/investments/"+inv.ID+"/submit", nil)
		req = withURLParam(req, "investmentID", inv.ID)
		w := httptest.NewRecorder()

		handler.Submit(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("Expected status 409, got %d", w.Code)
		}

		var response struct {
			Error     string   `json:"error"`
			Current   string   `json:"current"`
			Requested string   `json:"requested"`
			Allowed   []string `json:"allowed"`
		}
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Current != "active" {
			t.Errorf("Expected current active, got %s", response.Current)
		}
		if response.Requested != "pending" {
			t.Errorf("Expected requested pending, got %s", response.Requested)
		}
		if len(response.Allowed) == 0 {
			t.Error("Expected allowed transitions listed")
		}
	})
}

func TestInvestmentHandler_Value(t *testing.T) {
	db := testutil.SetupTestDB(t)
	inv := testutil.CreateActiveInvestment(t, db, day0)
	svc := testutil.NewTestInvestmentService(t, db, day0.AddDate(0, 6, 0))
	handler := handlers.NewInvestmentHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/investments/"+inv.ID+"/value", nil)
	req = withURLParam(req, "investmentID", inv.ID)
	w := httptest.NewRecorder()

	handler.Value(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		InvestmentID    string `json:"investmentId"`
		Principal       string `json:"principal"`
		CurrentValue    string `json:"currentValue"`
		TotalEarnings   string `json:"totalEarnings"`
		MonthlyInterest string `json:"monthlyInterest"`
		MonthsElapsed   int    `json:"monthsElapsed"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.InvestmentID != inv.ID {
		t.Errorf("Expected %s, got %s", inv.ID, response.InvestmentID)
	}
	if response.MonthsElapsed != 6 {
		t.Errorf("Expected 6 months, got %d", response.MonthsElapsed)
	}
	if response.CurrentValue != "10406.73" {
		t.Errorf("Expected 10406.73, got %s", response.CurrentValue)
	}
	// Whole-dollar amounts keep their cents, same as every other endpoint.
	if response.Principal != "10000.00" {
		t.Errorf("Expected principal 10000.00, got %s", response.Principal)
	}
	// Compounding investments have no monthly payout.
	if response.MonthlyInterest != "0.00" {
		t.Errorf("Expected monthly interest 0.00, got %s", response.MonthlyInterest)
	}
}

func TestInvestmentHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db, day0)
	handler := handlers.NewInvestmentHandler(svc)

	user := testutil.NewUser().Build(t, db)
	other := testutil.NewUser().Build(t, db)
	testutil.NewInvestment(user.ID).Build(t, db)
	testutil.NewInvestment(user.ID).Active(day0).Build(t, db)
	testutil.NewInvestment(other.ID).Build(t, db)

	t.Run("filters by userId", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/investments/?userId="+user.ID, nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response []handlers.InvestmentResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 2 {
			t.Errorf("Expected 2 investments, got %d", len(response))
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/investments/?status=active", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		var response []handlers.InvestmentResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 1 {
			t.Errorf("Expected 1 active investment, got %d", len(response))
		}
	})
}
