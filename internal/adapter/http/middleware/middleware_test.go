package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockToken := mocks.NewMockTokenService(ctrl)
	userID := uuid.New()
	businessID := uuid.New()
	mockToken.EXPECT().Validate("valid-token").Return(&ports.TokenClaims{
		UserID:     userID,
		BusinessID: businessID,
	}, nil)

	r := gin.New()
	r.Use(JWTAuth(mockToken, zerolog.Nop()))
	r.GET("/protected", func(c *gin.Context) {
		gotBusiness, _ := c.Get(CtxBusinessID)
		assert.Equal(t, businessID, gotBusiness)
		gotUser, _ := c.Get(CtxUserID)
		assert.Equal(t, userID, gotUser)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := gin.New()
	r.Use(JWTAuth(mocks.NewMockTokenService(ctrl), zerolog.Nop()))
	r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_003")
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := gin.New()
	r.Use(JWTAuth(mocks.NewMockTokenService(ctrl), zerolog.Nop()))
	r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockToken := mocks.NewMockTokenService(ctrl)
	mockToken.EXPECT().Validate("expired-token").Return(nil, errors.New("token is expired"))

	r := gin.New()
	r.Use(JWTAuth(mockToken, zerolog.Nop()))
	r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecovery_PanicReturns500(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_001")
}

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	out := buf.String()
	assert.Contains(t, out, `"path":"/ok"`)
	assert.Contains(t, out, `"status":200`)
}

func TestMaxBodySize_RejectsOversizedBody(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(16))
	r.POST("/small", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	big := strings.NewReader(`{"payload":"` + strings.Repeat("x", 64) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/small", big)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
