package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymtracker/backend/internal/domain"
)

// ServiceAccountRepository is the credential store for machine principals.
type ServiceAccountRepository interface {
	GetByClientID(ctx context.Context, clientID string) (*domain.ServiceAccount, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

type serviceAccountRepository struct {
	pool *pgxpool.Pool
}

// NewServiceAccountRepository returns a Postgres-backed implementation.
func NewServiceAccountRepository(pool *pgxpool.Pool) ServiceAccountRepository {
	return &serviceAccountRepository{pool: pool}
}

func (r *serviceAccountRepository) GetByClientID(ctx context.Context, clientID string) (*domain.ServiceAccount, error) {
	const query = `
        SELECT id, service_name, client_id, client_secret_hash, is_active, expires_at, last_used_at, created_at, updated_at
        FROM service_accounts WHERE client_id=$1`

	var account domain.ServiceAccount
	if err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&account.ID,
		&account.ServiceName,
		&account.ClientID,
		&account.ClientSecretHash,
		&account.Active,
		&account.ExpiresAt,
		&account.LastUsedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}

	scopes, err := r.loadScopes(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	account.Scopes = scopes
	return &account, nil
}

func (r *serviceAccountRepository) loadScopes(ctx context.Context, accountID string) ([]domain.Scope, error) {
	rows, err := r.pool.Query(ctx, `SELECT scope FROM service_account_scopes WHERE service_account_id=$1`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scopes []domain.Scope
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		scope, err := domain.ParseScope(raw)
		if err != nil {
			// A stored scope outside the vocabulary is a data fault.
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return scopes, rows.Err()
}

// TouchLastUsed records exchange activity, last writer wins.
func (r *serviceAccountRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE service_accounts SET last_used_at=$1, updated_at=NOW() WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
