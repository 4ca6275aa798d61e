package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockBankAPI mimics the account records service: account lookups and
// recent transactions, bearer-authenticated.
type MockBankAPI struct {
	server *httptest.Server

	mu           sync.Mutex
	accounts     map[string]map[string]any
	transactions map[string][]map[string]any
	requests     []string
}

// NewMockBankAPI starts the mock seeded with one active account.
func NewMockBankAPI() *MockBankAPI {
	m := &MockBankAPI{
		accounts: map[string]map[string]any{
			"acct-1001": {
				"id":       "acct-1001",
				"holder":   "Dana Whitfield",
				"status":   "active",
				"balance":  104217,
				"currency": "USD",
				"openedAt": "2019-03-14T00:00:00Z",
			},
		},
		transactions: map[string][]map[string]any{
			"acct-1001": {
				{
					"id":           "tx-1",
					"amount":       -980000,
					"currency":     "USD",
					"counterparty": "Meridian Holdings Ltd",
					"reference":    "WIRE-7731",
					"bookedAt":     time.Now().UTC().Format(time.RFC3339),
				},
				{
					"id":           "tx-2",
					"amount":       250000,
					"currency":     "USD",
					"counterparty": "Payroll Inc",
					"reference":    "",
					"bookedAt":     time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC3339),
				},
			},
		},
	}

	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the mock server's URL.
func (m *MockBankAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBankAPI) Close() {
	m.server.Close()
}

// Requests returns the paths of every call received so far.
func (m *MockBankAPI) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

func (m *MockBankAPI) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.Path)
	m.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "accounts" {
		writeBankError(w, http.StatusNotFound, "unknown resource")
		return
	}
	accountID := parts[1]

	m.mu.Lock()
	acct, ok := m.accounts[accountID]
	txns := m.transactions[accountID]
	m.mu.Unlock()

	if !ok {
		writeBankError(w, http.StatusNotFound, "account not on record")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if len(parts) == 3 && parts[2] == "transactions" {
		json.NewEncoder(w).Encode(txns)
		return
	}
	json.NewEncoder(w).Encode(acct)
}

func writeBankError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": http.StatusText(status), "message": message},
	})
}
