// Package configstore persists per-tenant provider credentials.
//
// The router reads credential rows during initialization; only rows marked
// active arm a provider. Two backends are provided: SQLite for deployments
// and an in-memory store for tests.
package configstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrTenantNotFound is returned when a tenant has no credential rows.
var ErrTenantNotFound = errors.New("configstore: tenant not found")

// CredentialRow is one stored provider credential for a tenant.
type CredentialRow struct {
	// TenantID identifies the tenant the credential belongs to.
	TenantID string `json:"tenant_id"`

	// ProviderID is the backend the credential authenticates against.
	ProviderID string `json:"provider_id"`

	// Credential is the opaque credential blob (API key or token).
	// It must never be logged.
	Credential string `json:"-"`

	// Active reports whether the credential should be used. Inactive rows
	// are retained for audit but skipped during initialization.
	Active bool `json:"active"`
}

// Store is the credential persistence contract consumed by the router.
type Store interface {
	// ListCredentials returns every credential row for a tenant, active or
	// not. A tenant with no rows yields ErrTenantNotFound.
	ListCredentials(ctx context.Context, tenantID string) ([]CredentialRow, error)

	// UpsertCredential inserts or replaces a credential row.
	UpsertCredential(ctx context.Context, row CredentialRow) error

	// DeleteCredential removes a credential row.
	DeleteCredential(ctx context.Context, tenantID, providerID string) error

	// Close releases backend resources.
	Close() error
}

// Validate checks that a row is storable.
func (r CredentialRow) Validate() error {
	if r.TenantID == "" {
		return fmt.Errorf("configstore: tenant id cannot be empty")
	}
	if r.ProviderID == "" {
		return fmt.Errorf("configstore: provider id cannot be empty")
	}
	return nil
}
