package dto

import "github.com/mkaya/certportal/internal/app/models"

// StudentListResponse is one page of student records
type StudentListResponse struct {
	Students   []models.Student `json:"students"`
	Pagination PaginationInfo   `json:"pagination"`
}
