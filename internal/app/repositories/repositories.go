package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations the repositories run against.
// Both *pgxpool.Pool and pgx.Tx satisfy it, so the same repository method
// can execute standalone or inside a caller-owned transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository     *StudentRepository
	CertificateRepository *CertificateRepository
	PackageRepository     *PackageRepository
	MagicTokenRepository  *MagicTokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:     NewStudentRepository(db),
		CertificateRepository: NewCertificateRepository(db),
		PackageRepository:     NewPackageRepository(db),
		MagicTokenRepository:  NewMagicTokenRepository(db),
	}
}
