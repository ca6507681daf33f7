// Package providers implements the provider-manager abstraction: an
// ordered list of RPC endpoints per chain ID, with cached, lazily-dialed
// clients reused across calls.
package providers

import (
	"context"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/nucypher/condition-lingo-go/pkg/lingoerr"
)

// Manager caches one ethclient.Client per endpoint URL and knows the
// ordered endpoint list configured for each chain ID: one client per URL,
// dialed once and cached forever.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*ethclient.Client
	chains  map[int64][]string
}

// NewManager builds a Manager from a chainID -> ordered endpoint list map.
func NewManager(chains map[int64][]string) *Manager {
	cp := make(map[int64][]string, len(chains))
	for id, endpoints := range chains {
		cp[id] = append([]string(nil), endpoints...)
	}
	return &Manager{
		clients: make(map[string]*ethclient.Client),
		chains:  cp,
	}
}

// Endpoints returns the configured, ordered endpoint list for chainID.
// A nil/empty result means the chain has no configured endpoints.
func (m *Manager) Endpoints(chainID int64) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chains[chainID]
}

// ClientFor returns the cached client for rpcURL, dialing and caching a
// new one on first use.
func (m *Manager) ClientFor(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	m.mu.RLock()
	client, ok := m.clients[rpcURL]
	m.mu.RUnlock()
	if ok {
		return client, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if client, ok := m.clients[rpcURL]; ok {
		return client, nil
	}

	dialed, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, lingoerr.Newf(lingoerr.KindNoConnectionToChain, err,
			"could not connect to endpoint %s", rpcURL)
	}
	m.clients[rpcURL] = dialed
	return dialed, nil
}

// RegisterClient injects a pre-built client for rpcURL, bypassing dialing.
func (m *Manager) RegisterClient(rpcURL string, client *ethclient.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[rpcURL] = client
}

// ForEachEndpoint runs fn against each configured endpoint for chainID in
// order, stopping at the first call that succeeds, grounded on evm.py's
// RPCCondition.execute_call failover loop. Every non-nil err is treated
// as "try the next endpoint"; if every endpoint is exhausted without
// success, the last error is wrapped as RPCExecutionFailed.
func (m *Manager) ForEachEndpoint(chainID int64, fn func(rpcURL string) error) error {
	endpoints := m.Endpoints(chainID)
	if len(endpoints) == 0 {
		return lingoerr.Newf(lingoerr.KindNoConnectionToChain, nil,
			"no RPC endpoints configured for chain %d", chainID)
	}

	var lastErr error
	for i, endpoint := range endpoints {
		if err := fn(endpoint); err != nil {
			lastErr = err
			if i < len(endpoints)-1 {
				endpointFailoversTotal.WithLabelValues(strconv.FormatInt(chainID, 10)).Inc()
			}
			continue
		}
		return nil
	}
	return lingoerr.Newf(lingoerr.KindRPCExecutionFailed, lastErr,
		"all %d endpoint(s) for chain %d failed: %s", len(endpoints), chainID, errString(lastErr))
}

func errString(err error) string {
	if err == nil {
		return "no endpoints configured"
	}
	return err.Error()
}

// Close closes every cached client.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for url, client := range m.clients {
		client.Close()
		delete(m.clients, url)
	}
}
