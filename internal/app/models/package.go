package models

import "time"

// Package defines one generation event based on the 'packages' table. Rows
// are append-only: never updated, deleted only when the owning Student is
// deleted. The rendered document bytes are stored alongside so a later
// download does not need to regenerate the document; they are kept out of
// this metadata struct and fetched separately.
type Package struct {
	ID           int64        `json:"id" db:"id" example:"1"`                              // Unique identifier for the generation event
	StudentID    int64        `json:"studentId" db:"student_id" example:"1"`               // Owning student
	Filename     string       `json:"filename" db:"filename" example:"jane_doe_preschool.pdf"` // Suggested filename for the document
	TrainingPath TrainingPath `json:"trainingPath" db:"training_path" example:"PRESCHOOL"` // Curriculum this package was generated for
	GeneratedAt  time.Time    `json:"generatedAt" db:"generated_at"`                       // When the generation ran
	GeneratedBy  *string      `json:"generatedBy,omitempty" db:"generated_by"`             // Administrator who ran the generation, if recorded
	HasDocument  bool         `json:"hasDocument" db:"has_document"`                       // Whether document bytes are stored for this package
}
