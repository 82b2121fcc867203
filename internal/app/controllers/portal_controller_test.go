package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkaya/certportal/internal/app/models/dto"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
)

type stubPortalService struct {
	requestErr error
	verifyResp *dto.VerifyTokenResponse
	verifyErr  error
}

func (s *stubPortalService) RequestAccess(ctx context.Context, req *dto.RequestAccessRequest) error {
	return s.requestErr
}

func (s *stubPortalService) VerifyToken(ctx context.Context, tok string) (*dto.VerifyTokenResponse, error) {
	return s.verifyResp, s.verifyErr
}

type stubAccessService struct {
	document []byte
	filename string
	err      error
}

func (s *stubAccessService) AuthorizeDownload(ctx context.Context, email string, packageID int64) error {
	return s.err
}

func (s *stubAccessService) Download(ctx context.Context, email string, packageID int64) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.document, s.filename, nil
}

func portalRouter(portal *stubPortalService, access *stubAccessService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewPortalController(portal, access)
	router := gin.New()
	router.POST("/portal/request-access", controller.RequestAccess)
	router.POST("/portal/verify", controller.VerifyToken)
	router.GET("/portal/packages/:id/download", controller.Download)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestAccess_AckIsIdenticalEitherWay(t *testing.T) {
	// The stub always returns nil like the real service does for both the
	// sent and silently-dropped paths; the HTTP ack must be byte-identical.
	router := portalRouter(&stubPortalService{}, &stubAccessService{})

	enrolled := postJSON(t, router, "/portal/request-access", dto.RequestAccessRequest{
		Name: "Jane Doe", Email: "jane@example.com",
	})
	unknown := postJSON(t, router, "/portal/request-access", dto.RequestAccessRequest{
		Name: "Nobody", Email: "nobody@example.com",
	})

	assert.Equal(t, http.StatusOK, enrolled.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, enrolled.Body.String(), unknown.Body.String())
	assert.Contains(t, enrolled.Body.String(), dto.AccessRequestedMessage)
}

func TestRequestAccess_RejectsMalformedEmail(t *testing.T) {
	router := portalRouter(&stubPortalService{}, &stubAccessService{})

	w := postJSON(t, router, "/portal/request-access", dto.RequestAccessRequest{
		Name: "Jane Doe", Email: "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
}

func TestVerifyToken_GenericRejection(t *testing.T) {
	router := portalRouter(&stubPortalService{verifyErr: apperrors.ErrInvalidToken}, &stubAccessService{})

	bad := postJSON(t, router, "/portal/verify", dto.VerifyTokenRequest{Token: "stale"})
	missing := postJSON(t, router, "/portal/verify", map[string]string{})

	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, bad.Body.String(), missing.Body.String(), "missing and invalid tokens read the same")
	assert.Contains(t, bad.Body.String(), string(dto.ErrorCodeInvalidToken))
}

func TestVerifyToken_ReturnsBundles(t *testing.T) {
	router := portalRouter(&stubPortalService{
		verifyResp: &dto.VerifyTokenResponse{Email: "jane@example.com"},
	}, &stubAccessService{})

	w := postJSON(t, router, "/portal/verify", dto.VerifyTokenRequest{Token: "tok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")
}

func TestDownload_StreamsAttachment(t *testing.T) {
	router := portalRouter(&stubPortalService{}, &stubAccessService{
		document: []byte("%PDF-1.7"),
		filename: "jane_ps.pdf",
	})

	req := httptest.NewRequest(http.MethodGet, "/portal/packages/42/download?email=jane@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="jane_ps.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", w.Body.String())
}

func TestDownload_DenialLooksLikeMissingResource(t *testing.T) {
	denied := portalRouter(&stubPortalService{}, &stubAccessService{err: apperrors.ErrPermissionDenied})
	missing := portalRouter(&stubPortalService{}, &stubAccessService{err: apperrors.ErrPackageNotFound})

	get := func(router *gin.Engine, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	deniedResp := get(denied, "/portal/packages/42/download?email=other@example.com")
	missingResp := get(missing, "/portal/packages/404/download?email=jane@example.com")

	assert.Equal(t, http.StatusNotFound, deniedResp.Code)
	assert.Equal(t, http.StatusNotFound, missingResp.Code)
	assert.Equal(t, deniedResp.Body.String(), missingResp.Body.String(), "denial must not confirm the package exists")
}

func TestDownload_MissingEmailDenied(t *testing.T) {
	router := portalRouter(&stubPortalService{}, &stubAccessService{document: []byte("x"), filename: "x.pdf"})

	req := httptest.NewRequest(http.MethodGet, "/portal/packages/42/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
