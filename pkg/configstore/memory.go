package configstore

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory credential store. It is used in tests and in
// single-node deployments where credentials arrive from the environment.
type Memory struct {
	mu   sync.RWMutex
	rows map[string]map[string]CredentialRow // tenant id -> provider id -> row
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		rows: make(map[string]map[string]CredentialRow),
	}
}

// ListCredentials implements the Store interface. Rows are returned in
// provider id order so initialization is deterministic.
func (m *Memory) ListCredentials(ctx context.Context, tenantID string) ([]CredentialRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tenant, ok := m.rows[tenantID]
	if !ok || len(tenant) == 0 {
		return nil, ErrTenantNotFound
	}

	out := make([]CredentialRow, 0, len(tenant))
	for _, row := range tenant {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProviderID < out[j].ProviderID
	})
	return out, nil
}

// UpsertCredential implements the Store interface.
func (m *Memory) UpsertCredential(ctx context.Context, row CredentialRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := row.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tenant, ok := m.rows[row.TenantID]
	if !ok {
		tenant = make(map[string]CredentialRow)
		m.rows[row.TenantID] = tenant
	}
	tenant[row.ProviderID] = row
	return nil
}

// DeleteCredential implements the Store interface. Deleting a missing row
// is not an error.
func (m *Memory) DeleteCredential(ctx context.Context, tenantID, providerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tenant, ok := m.rows[tenantID]; ok {
		delete(tenant, providerID)
		if len(tenant) == 0 {
			delete(m.rows, tenantID)
		}
	}
	return nil
}

// Close implements the Store interface.
func (m *Memory) Close() error {
	return nil
}
