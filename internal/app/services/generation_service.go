package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/mkaya/certportal/internal/app/models"
	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
	"github.com/mkaya/certportal/internal/pkg/filestorage"
	"github.com/mkaya/certportal/internal/pkg/render"
)

const courseDateFormat = "2006-01-02"

// GenerationService defines the interface for certificate package generation
type GenerationService interface {
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
}

// generationServiceImpl implements GenerationService
type generationServiceImpl struct {
	tx       TxRunner
	students StudentRegistry
	certs    CertificateSet
	packages PackageLedger
	renderer render.Renderer
	archive  filestorage.Archiver
	logger   zerolog.Logger
}

// NewGenerationService creates a new GenerationService. archive may be nil
// when no archive directory is configured.
func NewGenerationService(
	tx TxRunner,
	students StudentRegistry,
	certs CertificateSet,
	packages PackageLedger,
	renderer render.Renderer,
	archive filestorage.Archiver,
	logger zerolog.Logger,
) GenerationService {
	return &generationServiceImpl{
		tx:       tx,
		students: students,
		certs:    certs,
		packages: packages,
		renderer: renderer,
		archive:  archive,
		logger:   logger,
	}
}

// Generate runs one certificate package generation. The student identity is
// resolved, the certificate set reconciled and the ledger entry appended
// inside a single transaction: any failure rolls back all three, leaving no
// partially-applied state. Re-running an identical submission touches no
// certificate rows and only appends a new ledger entry.
func (s *generationServiceImpl) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	student, certificates, err := buildSubmission(req)
	if err != nil {
		return nil, err
	}

	document, err := s.resolveDocument(ctx, req, student, certificates)
	if err != nil {
		return nil, err
	}

	var resp dto.GenerateResponse
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		studentID, err := s.students.Resolve(ctx, tx, student)
		if err != nil {
			return err
		}

		for i := range certificates {
			certificates[i].StudentID = studentID
		}
		if err := s.certs.Reconcile(ctx, tx, studentID, certificates); err != nil {
			return err
		}

		packageID, err := s.packages.Append(ctx, tx, &models.Package{
			StudentID:    studentID,
			Filename:     req.Filename,
			TrainingPath: student.TrainingPath,
			GeneratedBy:  req.GeneratedBy,
		}, document)
		if err != nil {
			return err
		}

		resp = dto.GenerateResponse{StudentID: studentID, PackageID: packageID}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Str("trainingPath", req.TrainingPath).Msg("Generation transaction failed")
		return nil, apperrors.NewStorageError(err, "generation failed")
	}

	if s.archive != nil && len(document) > 0 {
		// Best-effort copy on disk; the ledger row already committed
		if _, err := s.archive.Store(resp.PackageID, req.Filename, document); err != nil {
			s.logger.Error().Err(err).Int64("packageID", resp.PackageID).Msg("Failed to archive document copy")
		}
	}

	s.logger.Info().
		Int64("studentID", resp.StudentID).
		Int64("packageID", resp.PackageID).
		Int("courses", len(certificates)).
		Msg("Certificate package generated")
	return &resp, nil
}

// buildSubmission validates the request and maps it onto domain models
func buildSubmission(req *dto.GenerateRequest) (*models.Student, []models.Certificate, error) {
	path := models.TrainingPath(req.TrainingPath)
	if !path.Valid() {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("unknown training path %q", req.TrainingPath))
	}
	if len(req.Courses) == 0 {
		return nil, nil, apperrors.NewValidationError("courses must not be empty")
	}

	pathLabel := req.PathLabel
	if pathLabel == "" {
		pathLabel = path.DefaultLabel()
	}

	student := &models.Student{
		Name:         req.Name,
		Email:        req.Email,
		Center:       req.Center,
		TrainingPath: path,
		PathLabel:    pathLabel,
		CourseCount:  len(req.Courses),
	}

	certificates := make([]models.Certificate, 0, len(req.Courses))
	for _, course := range req.Courses {
		certDate, err := time.Parse(courseDateFormat, course.Date)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("invalid course date %q", course.Date))
		}
		status := course.Status
		if status == "" {
			status = "Pass"
		}
		certificates = append(certificates, models.Certificate{
			CourseName:  course.Course,
			SubjectArea: course.SubjectArea,
			CertDate:    certDate,
			Status:      status,
			AreaIndex:   course.AreaIndex,
		})
	}

	return student, certificates, nil
}

// resolveDocument returns the submitted document bytes, or asks the
// rendering collaborator for them when the submission carries none. The
// bytes are opaque to this service either way.
func (s *generationServiceImpl) resolveDocument(ctx context.Context, req *dto.GenerateRequest, student *models.Student, certificates []models.Certificate) ([]byte, error) {
	if req.DocumentBase64 != "" {
		document, err := base64.StdEncoding.DecodeString(req.DocumentBase64)
		if err != nil {
			return nil, apperrors.NewValidationError("document is not valid base64")
		}
		return document, nil
	}

	if s.renderer == nil {
		return nil, nil
	}
	document, err := s.renderer.RenderCertificates(ctx, student, certificates)
	if err != nil {
		s.logger.Error().Err(err).Str("name", student.Name).Msg("Document rendering failed")
		return nil, fmt.Errorf("error rendering document: %w", err)
	}
	return document, nil
}
