package dto

import "github.com/mkaya/certportal/internal/app/models"

// RequestAccessRequest is the payload for requesting a portal access link
type RequestAccessRequest struct {
	Name  string `json:"name" binding:"required" example:"Jane Doe"`
	Email string `json:"email" binding:"required,email" example:"jane@example.com"`
}

// AccessRequestedMessage is the acknowledgement returned for every
// request-access call. It is identical whether or not a link was actually
// sent, so a caller cannot learn whether an email is enrolled.
const AccessRequestedMessage = "If your email is registered, an access link has been sent."

// VerifyTokenRequest is the payload for redeeming an access token
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// StudentBundle groups one student record with everything it owns
type StudentBundle struct {
	Student      models.Student       `json:"student"`
	Certificates []models.Certificate `json:"certificates"`
	Packages     []models.Package     `json:"packages"`
}

// VerifyTokenResponse is returned on successful token verification. One
// email may own records under multiple training paths, so the bundle list
// can hold more than one student.
type VerifyTokenResponse struct {
	Email    string          `json:"email" example:"jane@example.com"`
	Students []StudentBundle `json:"students"`
}
