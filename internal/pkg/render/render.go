package render

import (
	"context"

	"github.com/mkaya/certportal/internal/app/models"
)

// Renderer produces the document bytes for a certificate bundle. The core
// never inspects the output; it stores and serves it as an opaque blob.
type Renderer interface {
	RenderCertificates(ctx context.Context, student *models.Student, certificates []models.Certificate) ([]byte, error)
}

// NoopRenderer is the default when no rendering backend is wired in. It
// returns no bytes, so packages created without an uploaded document carry
// no payload and downloads for them report not found.
type NoopRenderer struct{}

// NewNoopRenderer creates a NoopRenderer
func NewNoopRenderer() *NoopRenderer {
	return &NoopRenderer{}
}

// RenderCertificates returns no document
func (r *NoopRenderer) RenderCertificates(ctx context.Context, student *models.Student, certificates []models.Certificate) ([]byte, error) {
	return nil, nil
}
