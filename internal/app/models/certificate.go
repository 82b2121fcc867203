package models

import "time"

// Certificate defines one course certificate row based on the 'certificates'
// table. Certificates are owned exclusively by one Student and the full set
// for a student is always replaced together, never patched field by field.
type Certificate struct {
	ID          int64     `json:"id" db:"id" example:"1"`                       // Unique identifier for the certificate row
	StudentID   int64     `json:"studentId" db:"student_id" example:"1"`        // Owning student
	CourseName  string    `json:"courseName" db:"course_name" example:"CPR"`    // Course the certificate was earned for
	SubjectArea string    `json:"subjectArea" db:"subject_area" example:"Health"` // Subject area grouping
	CertDate    time.Time `json:"certDate" db:"cert_date"`                      // Date of certification
	Status      string    `json:"status" db:"status" example:"Pass"`            // Outcome, defaults to "Pass"
	AreaIndex   int       `json:"areaIndex" db:"area_index" example:"1"`        // Position of the subject area on the rendered document
}
