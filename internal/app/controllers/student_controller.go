package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/app/repositories"
	"github.com/mkaya/certportal/internal/middleware"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
	"github.com/mkaya/certportal/internal/pkg/helpers"
	"github.com/mkaya/certportal/internal/pkg/logger"
)

// StudentController handles administrative student record operations
type StudentController struct {
	studentRepo     *repositories.StudentRepository
	certificateRepo *repositories.CertificateRepository
	packageRepo     *repositories.PackageRepository
}

// NewStudentController creates a new StudentController
func NewStudentController(
	studentRepo *repositories.StudentRepository,
	certificateRepo *repositories.CertificateRepository,
	packageRepo *repositories.PackageRepository,
) *StudentController {
	return &StudentController{
		studentRepo:     studentRepo,
		certificateRepo: certificateRepo,
		packageRepo:     packageRepo,
	}
}

// List returns student records, either every record owned by an email
// address or a page of all records
// @Summary List students
// @Tags students
// @Produce json
// @Param email query string false "Filter by email address"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	if email := ctx.Query("email"); email != "" {
		students, err := c.studentRepo.FindByEmail(ctx.Request.Context(), email)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.StudentListResponse{
			Students:   students,
			Pagination: helpers.NewPaginationInfo(int64(len(students)), 1, len(students)),
		}})
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	total, err := c.studentRepo.CountAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	students, err := c.studentRepo.List(ctx.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}})
}

// GetCertificates lists a student's certificates by certification date
// @Summary List a student's certificates
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Certificate} "Certificates"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/certificates [get]
func (c *StudentController) GetCertificates(ctx *gin.Context) {
	studentID, ok := c.studentIDParam(ctx)
	if !ok {
		return
	}

	certificates, err := c.certificateRepo.ListByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: certificates})
}

// GetPackages lists a student's generation history, newest first
// @Summary List a student's packages
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Package} "Generation history"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/packages [get]
func (c *StudentController) GetPackages(ctx *gin.Context) {
	studentID, ok := c.studentIDParam(ctx)
	if !ok {
		return
	}

	packages, err := c.packageRepo.HistoryByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: packages})
}

// Delete removes a student record together with its certificates and packages
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	studentID, ok := c.studentIDParam(ctx)
	if !ok {
		return
	}

	if err := c.studentRepo.Delete(ctx.Request.Context(), studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Int64("studentID", studentID).Msg("Student deleted by administrator")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Student deleted"}})
}

// studentIDParam parses and validates the student id path parameter. The
// caller must also verify the student exists when the operation would
// otherwise silently succeed.
func (c *StudentController) studentIDParam(ctx *gin.Context) (int64, bool) {
	studentID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || studentID <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid student id"))
		return 0, false
	}

	if _, err := c.studentRepo.GetByID(ctx.Request.Context(), studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return studentID, true
}
