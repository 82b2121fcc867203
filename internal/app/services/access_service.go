package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mkaya/certportal/internal/pkg/apperrors"
)

// AccessService authorizes a verified email to fetch a specific package
type AccessService interface {
	AuthorizeDownload(ctx context.Context, email string, packageID int64) error
	Download(ctx context.Context, email string, packageID int64) ([]byte, string, error)
}

// accessServiceImpl implements AccessService
type accessServiceImpl struct {
	students StudentRegistry
	packages PackageLedger
	logger   zerolog.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(students StudentRegistry, packages PackageLedger, logger zerolog.Logger) AccessService {
	return &accessServiceImpl{
		students: students,
		packages: packages,
		logger:   logger,
	}
}

// AuthorizeDownload re-derives ownership on every access instead of
// trusting a previously issued token or a client-supplied identifier: the
// package's owning student must be among the students the email owns.
// Unknown packages, unknown emails and ownership mismatches all produce the
// same deny with no further detail.
func (s *accessServiceImpl) AuthorizeDownload(ctx context.Context, email string, packageID int64) error {
	owner, err := s.packages.OwnerOf(ctx, packageID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPackageNotFound) {
			return apperrors.ErrPermissionDenied
		}
		return fmt.Errorf("error resolving package owner: %w", err)
	}

	students, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error resolving students for email: %w", err)
	}
	for _, student := range students {
		if student.ID == owner {
			return nil
		}
	}

	s.logger.Warn().Int64("packageID", packageID).Msg("Download denied: package not owned by requesting email")
	return apperrors.ErrPermissionDenied
}

// Download authorizes the request and returns the stored document bytes
// with their suggested filename
func (s *accessServiceImpl) Download(ctx context.Context, email string, packageID int64) ([]byte, string, error) {
	if err := s.AuthorizeDownload(ctx, email, packageID); err != nil {
		return nil, "", err
	}

	document, filename, err := s.packages.FetchPayload(ctx, packageID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("packageID", packageID).Int("bytes", len(document)).Msg("Package downloaded")
	return document, filename, nil
}
