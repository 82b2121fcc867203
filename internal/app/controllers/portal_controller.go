package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/app/services"
	"github.com/mkaya/certportal/internal/middleware"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
)

// PortalController handles the passwordless student portal flow
type PortalController struct {
	portalService services.PortalService
	accessService services.AccessService
}

// NewPortalController creates a new PortalController
func NewPortalController(portalService services.PortalService, accessService services.AccessService) *PortalController {
	return &PortalController{
		portalService: portalService,
		accessService: accessService,
	}
}

// RequestAccess handles a request for a portal access link
// @Summary Request a portal access link
// @Description Always acknowledges; whether a link was actually sent is never revealed
// @Tags portal
// @Accept json
// @Produce json
// @Param request body dto.RequestAccessRequest true "Name and email"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Acknowledged"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /portal/request-access [post]
func (c *PortalController) RequestAccess(ctx *gin.Context) {
	var req dto.RequestAccessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{Error: middleware.BindingErrorDetail(err)})
		return
	}

	if err := c.portalService.RequestAccess(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: dto.AccessRequestedMessage},
	})
}

// VerifyToken handles redemption of a portal access token
// @Summary Verify a portal access token
// @Description Consumes the single-use token and returns the verified email's students, certificates and packages
// @Tags portal
// @Accept json
// @Produce json
// @Param request body dto.VerifyTokenRequest true "Opaque token"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyTokenResponse} "Token verified"
// @Failure 401 {object} dto.ErrorResponse "Expired or invalid"
// @Router /portal/verify [post]
func (c *PortalController) VerifyToken(ctx *gin.Context) {
	var req dto.VerifyTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// Missing token reads the same as a bad one
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidToken)
		return
	}

	resp, err := c.portalService.VerifyToken(ctx.Request.Context(), req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Download streams a package's stored document to its owner
// @Summary Download a generated document
// @Description Ownership is re-derived from the email on every call; denials read exactly like a missing resource
// @Tags portal
// @Produce application/octet-stream
// @Param id path int true "Package ID"
// @Param email query string true "Verified email"
// @Success 200 {file} binary "Document bytes"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /portal/packages/{id}/download [get]
func (c *PortalController) Download(ctx *gin.Context) {
	packageID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}
	email := ctx.Query("email")
	if email == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	document, filename, err := c.accessService.Download(ctx.Request.Context(), email, packageID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/octet-stream", document)
}
