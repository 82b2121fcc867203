package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/pkg/email"
	"github.com/mkaya/certportal/internal/pkg/token"
	"github.com/mkaya/certportal/internal/pkg/validation"
)

// PortalService defines the passwordless access flow: requesting a magic
// link and redeeming it
type PortalService interface {
	RequestAccess(ctx context.Context, req *dto.RequestAccessRequest) error
	VerifyToken(ctx context.Context, tok string) (*dto.VerifyTokenResponse, error)
}

// portalServiceImpl implements PortalService
type portalServiceImpl struct {
	students StudentRegistry
	certs    CertificateSet
	packages PackageLedger
	tokens   MagicTokenStore
	mailer   email.EmailService
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewPortalService creates a new PortalService
func NewPortalService(
	students StudentRegistry,
	certs CertificateSet,
	packages PackageLedger,
	tokens MagicTokenStore,
	mailer email.EmailService,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) PortalService {
	return &portalServiceImpl{
		students: students,
		certs:    certs,
		packages: packages,
		tokens:   tokens,
		mailer:   mailer,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// RequestAccess issues a fresh single-use access token and mails the link,
// but only when the email resolves to at least one student and the supplied
// name loosely matches one of them. When the gate fails, nothing is issued
// or sent and the caller still receives nil: the acknowledgement must be
// indistinguishable from the true-success path, so responses never reveal
// whether an email is enrolled.
func (s *portalServiceImpl) RequestAccess(ctx context.Context, req *dto.RequestAccessRequest) error {
	if !validation.ValidName(strings.TrimSpace(req.Name)) {
		s.logger.Debug().Msg("Access request rejected on name length")
		return nil
	}

	students, err := s.students.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error looking up students for access request: %w", err)
	}

	matched := ""
	for _, student := range students {
		if nameMatches(req.Name, student.Name) {
			matched = student.Name
			break
		}
	}
	if matched == "" {
		// Unknown email or name mismatch: silent no-op
		s.logger.Debug().Msg("Access request did not resolve to an enrolled student")
		return nil
	}

	tok, err := token.Generate()
	if err != nil {
		return fmt.Errorf("error generating access token: %w", err)
	}

	// Invalidate-then-insert bounds the number of live links to one per
	// email. The two statements need not be atomic across concurrent
	// issuances; verification is single-use regardless.
	if err := s.tokens.InvalidateActiveByEmail(ctx, req.Email); err != nil {
		return fmt.Errorf("error superseding previous tokens: %w", err)
	}
	if err := s.tokens.Create(ctx, req.Email, tok, time.Now().Add(s.tokenTTL)); err != nil {
		return fmt.Errorf("error storing access token: %w", err)
	}

	// Mail delivery must not delay or vary the acknowledgement; failures
	// are only logged.
	go func(toEmail, toName, tok string) {
		if err := s.mailer.SendAccessLinkEmail(toEmail, toName, tok); err != nil {
			s.logger.Error().Err(err).Msg("Failed to send access link email")
		}
	}(req.Email, matched, tok)

	return nil
}

// VerifyToken redeems an access token. The token is consumed in the same
// conditional write that validates it, so it can verify at most once. On
// success the verified email's full holdings are returned: every student
// record it owns, each with its certificates and package history.
func (s *portalServiceImpl) VerifyToken(ctx context.Context, tok string) (*dto.VerifyTokenResponse, error) {
	verifiedEmail, err := s.tokens.Consume(ctx, tok)
	if err != nil {
		return nil, err
	}

	students, err := s.students.FindByEmail(ctx, verifiedEmail)
	if err != nil {
		return nil, fmt.Errorf("error loading students for verified email: %w", err)
	}

	resp := &dto.VerifyTokenResponse{
		Email:    verifiedEmail,
		Students: make([]dto.StudentBundle, 0, len(students)),
	}
	for _, student := range students {
		certificates, err := s.certs.ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading certificates: %w", err)
		}
		packages, err := s.packages.HistoryByStudent(ctx, student.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading package history: %w", err)
		}
		resp.Students = append(resp.Students, dto.StudentBundle{
			Student:      student,
			Certificates: certificates,
			Packages:     packages,
		})
	}

	s.logger.Info().Int("students", len(resp.Students)).Msg("Access token verified")
	return resp, nil
}
