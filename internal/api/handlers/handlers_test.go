package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/classifier"
	"github.com/expensewise/expensewise/internal/ledger"
	"github.com/expensewise/expensewise/internal/logger"
	"github.com/expensewise/expensewise/internal/store/memory"
	"github.com/expensewise/expensewise/internal/wallets"
)

// newTestServer wires the handlers against the in-memory store behind the
// same routes and auth middleware the real server uses.
func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	mem := memory.New()
	log := logger.NewWithWriter(nil)

	walletSvc := wallets.NewService(mem, mem, log)
	ledgerSvc := ledger.New(mem, mem, log)
	suggester := classifier.NewSuggester(mem, log)

	walletsHandler := NewWalletsHandler(walletSvc, mem, log)
	transactionsHandler := NewTransactionsHandler(ledgerSvc, mem, mem, suggester, log)
	importsHandler := NewImportsHandler(ledgerSvc, log)
	categoriesHandler := NewCategoriesHandler(mem, log)
	budgetsHandler := NewBudgetsHandler(mem, mem, log)
	settingsHandler := NewSettingsHandler(mem, log)
	usersHandler := NewUsersHandler(mem, log)
	feedbackHandler := NewFeedbackHandler(mem, mem, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/wallets", walletsHandler.List)
	mux.HandleFunc("POST /api/wallets", walletsHandler.Create)
	mux.HandleFunc("GET /api/wallets/{walletId}", walletsHandler.Get)
	mux.HandleFunc("PUT /api/wallets/{walletId}", walletsHandler.Update)
	mux.HandleFunc("DELETE /api/wallets/{walletId}", walletsHandler.Delete)
	mux.HandleFunc("GET /api/wallets/{walletId}/transactions", transactionsHandler.List)
	mux.HandleFunc("POST /api/wallets/{walletId}/transactions", transactionsHandler.Create)
	mux.HandleFunc("POST /api/wallets/{walletId}/transactions/import", importsHandler.Import)
	mux.HandleFunc("GET /api/wallets/{walletId}/transactions/suggestions", transactionsHandler.Suggest)
	mux.HandleFunc("GET /api/wallets/{walletId}/transactions/{transactionId}", transactionsHandler.Get)
	mux.HandleFunc("PUT /api/wallets/{walletId}/transactions/{transactionId}", transactionsHandler.Update)
	mux.HandleFunc("DELETE /api/wallets/{walletId}/transactions/{transactionId}", transactionsHandler.Delete)
	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("POST /api/categories", categoriesHandler.Create)
	mux.HandleFunc("GET /api/budgets", budgetsHandler.List)
	mux.HandleFunc("POST /api/budgets", budgetsHandler.Create)
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings", settingsHandler.Update)
	mux.HandleFunc("GET /api/users/me", usersHandler.Get)
	mux.HandleFunc("POST /api/feedback", feedbackHandler.Create)

	srv := httptest.NewServer(middleware.Auth(mux))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, userID string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createWallet(t *testing.T, srv *httptest.Server, userID, name string) string {
	t.Helper()
	resp, body := doJSON(t, srv, http.MethodPost, "/api/wallets", userID, map[string]interface{}{
		"name":     name,
		"currency": "INR",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["walletId"].(string)
}

func TestWalletLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	id := createWallet(t, srv, "u1", "Checking")

	resp, body := doJSON(t, srv, http.MethodGet, "/api/wallets/"+id, "u1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Checking", body["name"])

	resp, body = doJSON(t, srv, http.MethodGet, "/api/wallets", "u1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/wallets/"+id, "u1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, "/api/wallets/"+id, "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWalletOwnershipHidesExistence(t *testing.T) {
	srv, _ := newTestServer(t)

	id := createWallet(t, srv, "owner", "Private")

	resp, body := doJSON(t, srv, http.MethodGet, "/api/wallets/"+id, "intruder", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/wallets/"+id, "intruder", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWalletCreateValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/wallets", "u1", map[string]interface{}{
		"currency": "INR",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestTransactionCreateAdjustsBalance(t *testing.T) {
	srv, mem := newTestServer(t)

	id := createWallet(t, srv, "u1", "Checking")

	resp, body := doJSON(t, srv, http.MethodPost, "/api/wallets/"+id+"/transactions", "u1", map[string]interface{}{
		"amount":      120.5,
		"description": "Groceries",
		"type":        "expense",
		"date":        "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, -120.5, body["amount"])

	w, err := mem.GetWallet(t.Context(), "u1", id)
	require.NoError(t, err)
	assert.Equal(t, -120.5, w.Balance)
}

func TestTransactionInvalidTypeIs400(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWallet(t, srv, "u1", "W")

	resp, body := doJSON(t, srv, http.MethodPost, "/api/wallets/"+id+"/transactions", "u1", map[string]interface{}{
		"amount": 10,
		"type":   "donation",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "invalid transaction type")
}

func TestTransactionForeignWalletIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWallet(t, srv, "owner", "W")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/wallets/"+id+"/transactions", "intruder", map[string]interface{}{
		"amount": 10,
		"type":   "expense",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImportJSONPartitionsItems(t *testing.T) {
	srv, mem := newTestServer(t)
	id := createWallet(t, srv, "u1", "W")

	resp, body := doJSON(t, srv, http.MethodPost, "/api/wallets/"+id+"/transactions/import", "u1", map[string]interface{}{
		"transactions": []map[string]interface{}{
			{"amount": 100, "description": "ok", "type": "expense", "date": "2024-06-01"},
			{"amount": 50, "description": "bad", "type": "nope"},
			{"amount": 25, "description": "ok too", "type": "income"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Len(t, body["successful"], 2)
	assert.Len(t, body["failed"], 1)

	w, err := mem.GetWallet(t.Context(), "u1", id)
	require.NoError(t, err)
	assert.Equal(t, -75.0, w.Balance)
}

func TestImportCSV(t *testing.T) {
	srv, mem := newTestServer(t)
	id := createWallet(t, srv, "u1", "W")

	csvBody := "amount,description,category_id,type,date\n" +
		"100,POS STARBUCKS,,expense,2024-06-01\n" +
		"2000,Salary,,income,2024-06-02\n"

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/wallets/"+id+"/transactions/import", strings.NewReader(csvBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-User-ID", "u1")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res ledger.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Len(t, res.Successful, 2)
	assert.Empty(t, res.Failed)

	w, err := mem.GetWallet(t.Context(), "u1", id)
	require.NoError(t, err)
	assert.Equal(t, 1900.0, w.Balance)
}

func TestImportEmptyBodyIs400(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWallet(t, srv, "u1", "W")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/wallets/"+id+"/transactions/import", "u1", map[string]interface{}{
		"transactions": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSuggestionsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWallet(t, srv, "u1", "W")

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, srv, http.MethodPost, "/api/feedback", "u1", map[string]interface{}{
			"walletId":            id,
			"predictedCategory":   "Misc",
			"correctedCategory":   "Food",
			"originalDescription": fmt.Sprintf("UPI/swiggy@upi/order %d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/feedback", "u1", map[string]interface{}{
		"walletId":            id,
		"correctedCategory":   "Transport",
		"originalDescription": "UPI/swiggy@upi/ride",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodGet,
		"/api/wallets/"+id+"/transactions/suggestions?description=UPI/swiggy@upi/another", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, body["found"])
	assert.Equal(t, "upi/swiggy", body["prefix"])
	assert.Equal(t, "Food", body["category"])
	assert.InDelta(t, 2.0/3.0, body["confidence"].(float64), 1e-9)
}

func TestSuggestionsNoHistory(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWallet(t, srv, "u1", "W")

	resp, body := doJSON(t, srv, http.MethodGet,
		"/api/wallets/"+id+"/transactions/suggestions?description=Never+Seen+Before", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["found"])
}

func TestFeedbackRequiresOwnedWallet(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createWallet(t, srv, "owner", "W")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/feedback", "intruder", map[string]interface{}{
		"walletId":            id,
		"correctedCategory":   "Food",
		"originalDescription": "whatever",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/settings", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "INR", body["currency"])
	assert.Equal(t, true, body["suggestionsEnabled"])

	resp, body = doJSON(t, srv, http.MethodPut, "/api/settings", "u1", map[string]interface{}{
		"currency":        "EUR",
		"firstDayOfMonth": 15,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "EUR", body["currency"])
	assert.Equal(t, float64(15), body["firstDayOfMonth"])
	// Untouched fields keep their defaults.
	assert.Equal(t, "en-IN", body["locale"])

	resp, _ = doJSON(t, srv, http.MethodPut, "/api/settings", "u1", map[string]interface{}{
		"firstDayOfMonth": 31,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersLazyProfileCreation(t *testing.T) {
	srv, mem := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/users/me", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u1", body["userId"])

	u, err := mem.GetUser(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
}

func TestCategoryCreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/categories", "u1", map[string]interface{}{
		"name": "Food",
		"kind": "expense",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["categoryId"])

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/categories", "u1", map[string]interface{}{
		"name": "Weird",
		"kind": "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, srv, http.MethodGet, "/api/categories", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
}

func TestBudgetRequiresOwnedCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	_, catBody := doJSON(t, srv, http.MethodPost, "/api/categories", "owner", map[string]interface{}{
		"name": "Food",
		"kind": "expense",
	})
	catID := catBody["categoryId"].(string)

	// Referencing someone else's category is reported as absent.
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/budgets", "intruder", map[string]interface{}{
		"categoryId": catID,
		"amount":     5000,
		"month":      "2024-06",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/budgets", "owner", map[string]interface{}{
		"categoryId": catID,
		"amount":     5000,
		"month":      "2024-06",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "2024-06", body["month"])

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/budgets", "owner", map[string]interface{}{
		"categoryId": catID,
		"amount":     -10,
		"month":      "2024-06",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissingIdentityIs401(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/wallets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", body["error"])
}
