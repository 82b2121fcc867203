package dto

// CourseEntry is one course row of a generation submission
type CourseEntry struct {
	Course      string `json:"course" binding:"required" example:"CPR"`          // Course name
	SubjectArea string `json:"subjectArea" example:"Health"`                     // Subject area grouping
	Date        string `json:"date" binding:"required" example:"2024-01-10"`     // Certification date (YYYY-MM-DD)
	Status      string `json:"status" example:"Pass"`                            // Outcome; defaults to "Pass" when empty
	AreaIndex   int    `json:"areaIndex" example:"1"`                            // Position of the subject area on the document
}

// GenerateRequest is the payload for a certificate package generation run
type GenerateRequest struct {
	Name           string        `json:"name" binding:"required" example:"Jane Doe"`
	TrainingPath   string        `json:"trainingPath" binding:"required,training_path" example:"PRESCHOOL" enums:"PRESCHOOL,INFANT_TODDLER"`
	PathLabel      string        `json:"pathLabel" example:"Preschool"`
	Center         *string       `json:"center,omitempty" example:"Downtown Center"`
	Email          *string       `json:"email,omitempty" example:"jane@example.com"`
	Courses        []CourseEntry `json:"courses" binding:"required,min=1,dive"`
	Filename       string        `json:"filename" binding:"required" example:"jane_doe_preschool.pdf"`
	GeneratedBy    *string       `json:"generatedBy,omitempty" example:"admin@center.org"`
	DocumentBase64 string        `json:"document,omitempty"` // Optional rendered document, base64-encoded
}

// GenerateResponse reports the canonical student and the new ledger entry
type GenerateResponse struct {
	StudentID int64 `json:"studentId" example:"1"`
	PackageID int64 `json:"packageId" example:"1"`
}
