package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaya/certportal/internal/app/models"
	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
	"github.com/mkaya/certportal/internal/pkg/render"
)

func validGenerateRequest() *dto.GenerateRequest {
	return &dto.GenerateRequest{
		Name:         "Jane Doe",
		TrainingPath: "INFANT_TODDLER",
		Email:        strPtr("jane@example.com"),
		Courses: []dto.CourseEntry{
			{Course: "CPR and First Aid", SubjectArea: "Health & Safety", Date: "2026-03-14"},
			{Course: "Child Nutrition", SubjectArea: "Health & Safety", Date: "2026-04-02", Status: "Pass"},
		},
		Filename: "jane_doe_it.pdf",
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	tx := &fakeTxRunner{}
	registry := &fakeStudentRegistry{resolveID: 7}
	certs := &fakeCertificateSet{}
	ledger := &fakePackageLedger{}
	svc := NewGenerationService(tx, registry, certs, ledger, render.NewNoopRenderer(), nil, zerolog.Nop())

	resp, err := svc.Generate(context.Background(), validGenerateRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.StudentID)
	assert.Equal(t, int64(1), resp.PackageID)
	assert.Equal(t, 1, tx.calls, "resolve, reconcile and append share one transaction")

	require.Len(t, registry.resolved, 1)
	resolved := registry.resolved[0]
	assert.Equal(t, "Jane Doe", resolved.Name)
	assert.Equal(t, models.TrainingPathInfantToddler, resolved.TrainingPath)
	assert.Equal(t, "Infant & Toddler", resolved.PathLabel)
	assert.Equal(t, 2, resolved.CourseCount)

	reconciled := certs.reconciled[7]
	require.Len(t, reconciled, 2)
	assert.Equal(t, int64(7), reconciled[0].StudentID)
	assert.Equal(t, "Pass", reconciled[0].Status, "missing status defaults to Pass")
	assert.Equal(t, "2026-03-14", reconciled[0].CertDate.Format("2006-01-02"))

	require.Len(t, ledger.appended, 1)
	assert.Equal(t, "jane_doe_it.pdf", ledger.appended[0].pkg.Filename)
	assert.Equal(t, models.TrainingPathInfantToddler, ledger.appended[0].pkg.TrainingPath)
}

func TestGenerate_UnknownTrainingPath(t *testing.T) {
	tx := &fakeTxRunner{}
	svc := NewGenerationService(tx, &fakeStudentRegistry{}, &fakeCertificateSet{}, &fakePackageLedger{}, render.NewNoopRenderer(), nil, zerolog.Nop())

	req := validGenerateRequest()
	req.TrainingPath = "GRADUATE"

	_, err := svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Zero(t, tx.calls, "nothing may touch storage on a rejected submission")
}

func TestGenerate_InvalidCourseDate(t *testing.T) {
	svc := NewGenerationService(&fakeTxRunner{}, &fakeStudentRegistry{}, &fakeCertificateSet{}, &fakePackageLedger{}, render.NewNoopRenderer(), nil, zerolog.Nop())

	req := validGenerateRequest()
	req.Courses[1].Date = "04/02/2026"

	_, err := svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGenerate_EmptyCourses(t *testing.T) {
	svc := NewGenerationService(&fakeTxRunner{}, &fakeStudentRegistry{}, &fakeCertificateSet{}, &fakePackageLedger{}, render.NewNoopRenderer(), nil, zerolog.Nop())

	req := validGenerateRequest()
	req.Courses = nil

	_, err := svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGenerate_SubmittedDocumentStoredVerbatim(t *testing.T) {
	ledger := &fakePackageLedger{}
	svc := NewGenerationService(&fakeTxRunner{}, &fakeStudentRegistry{resolveID: 3}, &fakeCertificateSet{}, ledger, render.NewNoopRenderer(), nil, zerolog.Nop())

	req := validGenerateRequest()
	raw := []byte("%PDF-1.7 test payload")
	req.DocumentBase64 = base64.StdEncoding.EncodeToString(raw)

	_, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, ledger.appended, 1)
	assert.Equal(t, raw, ledger.appended[0].document)
}

func TestGenerate_MalformedDocumentRejected(t *testing.T) {
	svc := NewGenerationService(&fakeTxRunner{}, &fakeStudentRegistry{}, &fakeCertificateSet{}, &fakePackageLedger{}, render.NewNoopRenderer(), nil, zerolog.Nop())

	req := validGenerateRequest()
	req.DocumentBase64 = "not!!base64"

	_, err := svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

type fakeArchiver struct {
	storedID   int64
	storedName string
	storedDoc  []byte
}

func (f *fakeArchiver) Store(packageID int64, filename string, document []byte) (string, error) {
	f.storedID = packageID
	f.storedName = filename
	f.storedDoc = document
	return "/archive/" + filename, nil
}

func TestGenerate_ArchivesDocumentCopy(t *testing.T) {
	archive := &fakeArchiver{}
	svc := NewGenerationService(&fakeTxRunner{}, &fakeStudentRegistry{resolveID: 3}, &fakeCertificateSet{}, &fakePackageLedger{}, render.NewNoopRenderer(), archive, zerolog.Nop())

	req := validGenerateRequest()
	raw := []byte("%PDF-1.7 archived")
	req.DocumentBase64 = base64.StdEncoding.EncodeToString(raw)

	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, resp.PackageID, archive.storedID)
	assert.Equal(t, "jane_doe_it.pdf", archive.storedName)
	assert.Equal(t, raw, archive.storedDoc)
}

func TestGenerate_StorageFailureWrapped(t *testing.T) {
	boom := errors.New("duplicate key value violates unique constraint")
	svc := NewGenerationService(&fakeTxRunner{}, &fakeStudentRegistry{resolveID: 1}, &fakeCertificateSet{}, &fakePackageLedger{appendErr: boom}, render.NewNoopRenderer(), nil, zerolog.Nop())

	_, err := svc.Generate(context.Background(), validGenerateRequest())
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.NotContains(t, err.Error(), boom.Error(), "raw database detail must not leak to callers")
}
