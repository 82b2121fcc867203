package models

import "time"

// Student defines the student model based on the 'students' table.
// At most one row exists per (name, training_path); this is enforced by a
// unique index, not by application-level checks. A Student exclusively owns
// its Certificates and Packages: deleting it deletes both child sets.
type Student struct {
	ID           int64        `json:"id" db:"id" example:"1"`                                // Unique identifier for the student record
	Name         string       `json:"name" db:"name" example:"Jane Doe"`                     // Full name as submitted; identity key together with training path
	Email        *string      `json:"email,omitempty" db:"email"`                            // Contact email, if known
	Center       *string      `json:"center,omitempty" db:"center"`                          // Training center, if known
	TrainingPath TrainingPath `json:"trainingPath" db:"training_path" example:"PRESCHOOL"`   // Curriculum the record belongs to
	PathLabel    string       `json:"pathLabel" db:"path_label" example:"Preschool"`         // Display label for the training path
	CourseCount  int          `json:"courseCount" db:"course_count" example:"12"`            // Number of courses on the latest submission
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`                             // First submission time
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`                             // Latest submission time
}
