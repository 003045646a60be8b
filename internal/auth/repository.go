package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var roleTables = map[Role]string{
	RolePatient:  "patients",
	RoleDoctor:   "doctors",
	RoleEmployee: "employees",
}

// Repository loads credential records from the role tables.
type Repository struct {
	db rowQuerier
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("auth: pgx pool required")
	}
	return &Repository{db: pool}
}

func newRepositoryWithQuerier(db rowQuerier) *Repository {
	if db == nil {
		panic("auth: querier required")
	}
	return &Repository{db: db}
}

// GetByEmail loads the account for a role by email. Emails are matched
// case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, role Role, email string) (*Account, error) {
	table, ok := roleTables[role]
	if !ok {
		return nil, fmt.Errorf("auth: unknown role %q", role)
	}
	query := fmt.Sprintf(`
		SELECT id, email, full_name, password_hash, active, approved, deleted_at, created_at
		FROM %s
		WHERE lower(email) = lower($1)`, table)
	var a Account
	a.Role = role
	err := r.db.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash,
		&a.Active, &a.Approved, &a.DeletedAt, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: load %s account: %w", role, err)
	}
	return &a, nil
}
