package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
)

// EscrowGateway is the mock chain collaborator: addresses are synthetic and
// deposits only exist after a test calls Deposit. Mirrors how the real
// gateway reports a balance check, minus the network.
type EscrowGateway struct {
	mu        sync.RWMutex
	addresses map[string]string          // deal id -> address
	balances  map[string]decimal.Decimal // address -> balance
	released  map[string]bool
	down      bool
}

func NewEscrowGateway() *EscrowGateway {
	return &EscrowGateway{
		addresses: make(map[string]string),
		balances:  make(map[string]decimal.Decimal),
		released:  make(map[string]bool),
	}
}

func (g *EscrowGateway) GenerateAddress(_ context.Context, dealID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.addresses[dealID]; ok {
		return existing, nil
	}
	address := fmt.Sprintf("0:%s", strings.ReplaceAll(uuid.NewString(), "-", ""))
	g.addresses[dealID] = address
	g.balances[address] = decimal.Zero
	return address, nil
}

func (g *EscrowGateway) VerifyDeposit(_ context.Context, address string, amount decimal.Decimal) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.down {
		return false, fmt.Errorf("%w: escrow balance check failed", domainerrors.ErrExternalService)
	}
	return g.balances[address].GreaterThanOrEqual(amount), nil
}

func (g *EscrowGateway) RecordRelease(_ context.Context, dealID string, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released[dealID] = true
	return nil
}

// SetDown toggles an outage so payment tests can exercise the failure
// path the way PostPublisher.Delete does for verification.
func (g *EscrowGateway) SetDown(down bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.down = down
}

// Deposit credits the address as if the advertiser had paid on chain.
func (g *EscrowGateway) Deposit(address string, amount decimal.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balances[address] = g.balances[address].Add(amount)
}

func (g *EscrowGateway) Released(dealID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.released[dealID]
}
