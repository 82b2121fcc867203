package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mkaya/certportal/internal/app/models"
	"github.com/mkaya/certportal/internal/app/repositories"
	"github.com/mkaya/certportal/internal/db"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
)

// In-memory fakes implementing the repository interfaces from services.go.

type fakeTxRunner struct {
	calls int
	err   error
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx, pgx.Tx(nil))
}

type fakeStudentRegistry struct {
	byEmail    map[string][]models.Student
	resolveID  int64
	resolved   []models.Student
	resolveErr error
	findErr    error
}

func (f *fakeStudentRegistry) Resolve(ctx context.Context, q repositories.Querier, student *models.Student) (int64, error) {
	if f.resolveErr != nil {
		return 0, f.resolveErr
	}
	f.resolved = append(f.resolved, *student)
	return f.resolveID, nil
}

func (f *fakeStudentRegistry) FindByEmail(ctx context.Context, email string) ([]models.Student, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byEmail[strings.ToLower(email)], nil
}

type fakeCertificateSet struct {
	reconciled   map[int64][]models.Certificate
	lists        map[int64][]models.Certificate
	reconcileErr error
}

func (f *fakeCertificateSet) Reconcile(ctx context.Context, q repositories.Querier, studentID int64, certs []models.Certificate) error {
	if f.reconcileErr != nil {
		return f.reconcileErr
	}
	if f.reconciled == nil {
		f.reconciled = make(map[int64][]models.Certificate)
	}
	f.reconciled[studentID] = certs
	return nil
}

func (f *fakeCertificateSet) ListByStudent(ctx context.Context, studentID int64) ([]models.Certificate, error) {
	return f.lists[studentID], nil
}

type appendedPackage struct {
	pkg      models.Package
	document []byte
}

type payload struct {
	document []byte
	filename string
}

type fakePackageLedger struct {
	nextID    int64
	appended  []appendedPackage
	histories map[int64][]models.Package
	payloads  map[int64]payload
	owners    map[int64]int64
	appendErr error
}

func (f *fakePackageLedger) Append(ctx context.Context, q repositories.Querier, pkg *models.Package, document []byte) (int64, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	f.nextID++
	pkg.ID = f.nextID
	f.appended = append(f.appended, appendedPackage{pkg: *pkg, document: document})
	return f.nextID, nil
}

func (f *fakePackageLedger) HistoryByStudent(ctx context.Context, studentID int64) ([]models.Package, error) {
	return f.histories[studentID], nil
}

func (f *fakePackageLedger) FetchPayload(ctx context.Context, packageID int64) ([]byte, string, error) {
	p, ok := f.payloads[packageID]
	if !ok || len(p.document) == 0 {
		return nil, "", apperrors.ErrPackageNotFound
	}
	return p.document, p.filename, nil
}

func (f *fakePackageLedger) OwnerOf(ctx context.Context, packageID int64) (int64, error) {
	owner, ok := f.owners[packageID]
	if !ok {
		return 0, apperrors.ErrPackageNotFound
	}
	return owner, nil
}

// fakeTokenStore mirrors the conditional-write semantics of the real
// repository: consuming is valid only for an unused, unexpired token, and
// invalidation marks every unused token for the email as used.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens []*models.MagicToken
}

func (f *fakeTokenStore) InvalidateActiveByEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if strings.EqualFold(t.Email, email) && !t.Used {
			t.Used = true
		}
	}
	return nil
}

func (f *fakeTokenStore) Create(ctx context.Context, email, tok string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, &models.MagicToken{
		ID:        int64(len(f.tokens) + 1),
		Email:     email,
		Token:     tok,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeTokenStore) Consume(ctx context.Context, tok string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.Token == tok && !t.Used && t.ExpiresAt.After(time.Now()) {
			t.Used = true
			return t.Email, nil
		}
	}
	return "", apperrors.ErrInvalidToken
}

func (f *fakeTokenStore) active() []*models.MagicToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []*models.MagicToken
	for _, t := range f.tokens {
		if !t.Used {
			active = append(active, t)
		}
	}
	return active
}

func (f *fakeTokenStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type sentMail struct {
	toEmail string
	toName  string
	token   string
}

// fakeMailer records sends on a channel since delivery runs asynchronously
type fakeMailer struct {
	sent chan sentMail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentMail, 8)}
}

func (f *fakeMailer) SendAccessLinkEmail(toEmail, toName, token string) error {
	f.sent <- sentMail{toEmail: toEmail, toName: toName, token: token}
	return nil
}
