package seed

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/app/services"
)

// CreateSampleData runs a few generation submissions so a development
// database has students, certificates and ledger entries to look at.
// Submissions go through the regular generation service, so re-running is
// harmless: identities resolve to the existing rows and the certificate sets
// are already in place.
func CreateSampleData(ctx context.Context, generation services.GenerationService, lgr zerolog.Logger) error {
	lgr.Info().Msg("Seeding sample data...")

	janeEmail := "jane.doe@example.com"
	samples := []dto.GenerateRequest{
		{
			Name:         "Jane Doe",
			TrainingPath: "PRESCHOOL",
			Email:        &janeEmail,
			Courses: []dto.CourseEntry{
				{Course: "Child Development Basics", SubjectArea: "Development", Date: "2026-01-12"},
				{Course: "CPR and First Aid", SubjectArea: "Health & Safety", Date: "2026-02-03"},
				{Course: "Classroom Management", SubjectArea: "Environment", Date: "2026-03-21"},
			},
			Filename: "jane_doe_preschool.pdf",
			// A placeholder document so the portal download path is usable in dev
			DocumentBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 certportal sample document\n")),
		},
		{
			Name:         "Jane Doe",
			TrainingPath: "INFANT_TODDLER",
			Email:        &janeEmail,
			Courses: []dto.CourseEntry{
				{Course: "Infant Nutrition", SubjectArea: "Health & Safety", Date: "2026-04-02"},
				{Course: "Responsive Caregiving", SubjectArea: "Development", Date: "2026-05-15"},
			},
			Filename: "jane_doe_infant_toddler.pdf",
		},
		{
			Name:         "Marcus Webb",
			TrainingPath: "PRESCHOOL",
			Courses: []dto.CourseEntry{
				{Course: "Early Literacy", SubjectArea: "Curriculum", Date: "2026-06-09"},
			},
			Filename: "marcus_webb_preschool.pdf",
		},
	}

	var finalErr error
	for i := range samples {
		resp, err := generation.Generate(ctx, &samples[i])
		if err != nil {
			lgr.Error().Err(err).Str("name", samples[i].Name).Msg("Error seeding sample submission")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Int64("studentID", resp.StudentID).Int64("packageID", resp.PackageID).Msg("Sample submission seeded")
	}

	if finalErr == nil {
		lgr.Info().Msg("Sample data seeding complete.")
	}
	return finalErr
}
