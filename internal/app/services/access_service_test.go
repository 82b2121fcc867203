package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaya/certportal/internal/pkg/apperrors"
)

func newAccessService(ledger *fakePackageLedger) AccessService {
	return NewAccessService(enrolledRegistry(), ledger, zerolog.Nop())
}

func TestAuthorizeDownload_OwnerAllowed(t *testing.T) {
	ledger := &fakePackageLedger{owners: map[int64]int64{42: 1}}
	svc := newAccessService(ledger)

	err := svc.AuthorizeDownload(context.Background(), "jane@example.com", 42)
	assert.NoError(t, err)
}

func TestAuthorizeDownload_OtherOwnerDenied(t *testing.T) {
	// Package 42 belongs to student 9, which jane's email does not own
	ledger := &fakePackageLedger{owners: map[int64]int64{42: 9}}
	svc := newAccessService(ledger)

	err := svc.AuthorizeDownload(context.Background(), "jane@example.com", 42)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAuthorizeDownload_UnknownPackageSameDeny(t *testing.T) {
	ledger := &fakePackageLedger{owners: map[int64]int64{42: 9}}
	svc := newAccessService(ledger)

	notOwned := svc.AuthorizeDownload(context.Background(), "jane@example.com", 42)
	unknown := svc.AuthorizeDownload(context.Background(), "jane@example.com", 404)

	require.Error(t, notOwned)
	require.Error(t, unknown)
	assert.Equal(t, notOwned.Error(), unknown.Error(), "unknown and not-owned must be indistinguishable")
}

func TestAuthorizeDownload_UnknownEmailDenied(t *testing.T) {
	ledger := &fakePackageLedger{owners: map[int64]int64{42: 1}}
	svc := newAccessService(ledger)

	err := svc.AuthorizeDownload(context.Background(), "nobody@example.com", 42)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDownload_ReturnsStoredPayload(t *testing.T) {
	ledger := &fakePackageLedger{
		owners:   map[int64]int64{42: 2},
		payloads: map[int64]payload{42: {document: []byte("%PDF-1.7"), filename: "jane_ps.pdf"}},
	}
	svc := newAccessService(ledger)

	document, filename, err := svc.Download(context.Background(), "jane@example.com", 42)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), document)
	assert.Equal(t, "jane_ps.pdf", filename)
}

func TestDownload_DeniedBeforePayloadFetch(t *testing.T) {
	ledger := &fakePackageLedger{
		owners:   map[int64]int64{42: 9},
		payloads: map[int64]payload{42: {document: []byte("secret"), filename: "other.pdf"}},
	}
	svc := newAccessService(ledger)

	document, _, err := svc.Download(context.Background(), "jane@example.com", 42)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Nil(t, document)
}

func TestDownload_MissingDocumentIsNotFound(t *testing.T) {
	ledger := &fakePackageLedger{
		owners:   map[int64]int64{42: 1},
		payloads: map[int64]payload{},
	}
	svc := newAccessService(ledger)

	_, _, err := svc.Download(context.Background(), "jane@example.com", 42)
	assert.ErrorIs(t, err, apperrors.ErrPackageNotFound)
}
