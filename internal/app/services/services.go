package services

import (
	"context"
	"time"

	"github.com/mkaya/certportal/internal/app/models"
	"github.com/mkaya/certportal/internal/app/repositories"
	"github.com/mkaya/certportal/internal/db"
)

// The services depend on these narrow interfaces instead of the concrete
// repositories so the flows can be exercised with fakes in tests. The
// concrete types in internal/app/repositories satisfy them.

// StudentRegistry resolves submitted identities to canonical student rows
type StudentRegistry interface {
	Resolve(ctx context.Context, q repositories.Querier, student *models.Student) (int64, error)
	FindByEmail(ctx context.Context, email string) ([]models.Student, error)
}

// CertificateSet reconciles and lists a student's certificate rows
type CertificateSet interface {
	Reconcile(ctx context.Context, q repositories.Querier, studentID int64, certs []models.Certificate) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.Certificate, error)
}

// PackageLedger records and serves generation events
type PackageLedger interface {
	Append(ctx context.Context, q repositories.Querier, pkg *models.Package, document []byte) (int64, error)
	HistoryByStudent(ctx context.Context, studentID int64) ([]models.Package, error)
	FetchPayload(ctx context.Context, packageID int64) ([]byte, string, error)
	OwnerOf(ctx context.Context, packageID int64) (int64, error)
}

// MagicTokenStore issues and consumes single-use access tokens
type MagicTokenStore interface {
	InvalidateActiveByEmail(ctx context.Context, email string) error
	Create(ctx context.Context, email, token string, expiresAt time.Time) error
	Consume(ctx context.Context, token string) (string, error)
}

// TxRunner executes a function inside one database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
