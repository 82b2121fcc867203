package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/app/services"
	"github.com/mkaya/certportal/internal/middleware"
)

// GenerationController handles certificate package generation requests
type GenerationController struct {
	generationService services.GenerationService
}

// NewGenerationController creates a new GenerationController
func NewGenerationController(generationService services.GenerationService) *GenerationController {
	return &GenerationController{
		generationService: generationService,
	}
}

// Generate handles a certificate package generation submission
// @Summary Generate a certificate package
// @Description Resolves the student identity, reconciles the certificate set and appends a ledger entry in one transaction
// @Tags certificates
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Generation submission"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateResponse} "Package generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /certificates/generate [post]
func (c *GenerationController) Generate(ctx *gin.Context) {
	var req dto.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{Error: middleware.BindingErrorDetail(err)})
		return
	}

	resp, err := c.generationService.Generate(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
