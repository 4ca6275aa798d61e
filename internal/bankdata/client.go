// Package bankdata queries the core banking records API for the account
// evidence behind a fraud alert. All calls route through the resilience
// layer under the target "bankdata".
package bankdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fraudlens-ai/fraudlens/internal/fault"
	"github.com/fraudlens-ai/fraudlens/internal/httpclient"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// target is the breaker identity shared by every records call.
const target = "bankdata"

// DefaultTransactionLimit bounds a transaction listing when the caller
// does not say how many it wants.
const DefaultTransactionLimit = 20

// Account is a core banking account record. Balance is in minor units.
type Account struct {
	ID       string    `json:"id"`
	Holder   string    `json:"holder"`
	Status   string    `json:"status"`
	Balance  int64     `json:"balance"`
	Currency string    `json:"currency"`
	OpenedAt time.Time `json:"openedAt"`
}

// Transaction is a booked ledger entry. Amount is in minor units,
// negative for debits.
type Transaction struct {
	ID           string    `json:"id"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	Counterparty string    `json:"counterparty"`
	Reference    string    `json:"reference"`
	BookedAt     time.Time `json:"bookedAt"`
}

// Client is the records API client.
type Client struct {
	baseURL           string
	apiKey            string
	notFoundTransient bool
	client            *http.Client
	invoker           *resilience.Invoker
}

// NewClient creates a records client from configuration. The base URL is
// required; the API key is optional for unauthenticated deployments.
func NewClient(cfg types.BankDataConfig, invoker *resilience.Invoker, factory *httpclient.Factory) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("bankdata base URL not set")
	}
	return &Client{
		baseURL:           baseURL,
		apiKey:            cfg.APIKey,
		notFoundTransient: cfg.NotFoundTransient,
		client:            factory.CreateClientWithTimeout(cfg.Timeout),
		invoker:           invoker,
	}, nil
}

// Account fetches a single account record.
func (c *Client) Account(ctx context.Context, accountID string) (*Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fault.Terminal(target, "account id must be non-empty", nil)
	}
	var acct Account
	if err := c.get(ctx, "/accounts/"+accountID, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// Transactions fetches the account's most recent booked transactions,
// newest first. A non-positive limit falls back to the default.
func (c *Client) Transactions(ctx context.Context, accountID string, limit int) ([]Transaction, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fault.Terminal(target, "account id must be non-empty", nil)
	}
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	var txns []Transaction
	path := "/accounts/" + accountID + "/transactions?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, path, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// Evidence fetches the account and its recent transactions in one call.
func (c *Client) Evidence(ctx context.Context, accountID string, limit int) (*Account, []Transaction, error) {
	acct, err := c.Account(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	txns, err := c.Transactions(ctx, accountID, limit)
	if err != nil {
		return nil, nil, err
	}
	return acct, txns, nil
}

// get performs one GET exchange through the full retry policy and
// decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.invoker.Do(ctx, target, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fault.Terminal(target, "build request", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// Network-level failure; the invoker classifies it.
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			fe := fault.FromStatus(target, resp.StatusCode, c.notFoundTransient)
			var apiErr errorBody
			if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
				fe.Message = fmt.Sprintf("%s: %s", fe.Message, apiErr.Error.Message)
			}
			return fe
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fault.Terminal(target, "decode response", err)
		}
		return nil
	})
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
