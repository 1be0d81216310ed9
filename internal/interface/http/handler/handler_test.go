package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/middleware"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func withActor(actor valueobject.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	healthy := &mockPinger{}
	healthy.On("Ping", mock.Anything).Return(nil)
	r := gin.New()
	r.GET("/health", NewHealthHandler(healthy).Health)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	healthy.AssertExpectations(t)

	down := &mockPinger{}
	down.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	r = gin.New()
	r.GET("/health", NewHealthHandler(down).Health)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"unavailable"`)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestContractHandler_Get_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ContractHandler{}
	r.GET("/contracts/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/contracts/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContractHandler_UpdateStatus_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ContractHandler{}
	r.PUT("/contracts/:id/status", withActor(valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleEmployer}), handler.UpdateStatus)

	req, _ := http.NewRequest("PUT", "/contracts/invalid-uuid/status", bytes.NewBufferString(`{"status":"completed"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_Record_BadContractID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{}
	r.POST("/payments", withActor(valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleStaff}), handler.Record)

	req, _ := http.NewRequest("POST", "/payments", bytes.NewBufferString(`{"contract_id":"nope","amount":100,"payment_method":"bank_transfer"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "некорректный ID контракта")
}

func TestApplicationHandler_Apply_MalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ApplicationHandler{}
	r.POST("/jobs/:id/applications", withActor(valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleTalent}), handler.Apply)

	req, _ := http.NewRequest("POST", "/jobs/"+uuid.NewString()+"/applications", bytes.NewBufferString(`{"cover_letter":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_Get_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{}
	r.GET("/jobs/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/jobs/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQueryHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?limit=abc&offset=10&salary_min=1500.5&salary_max=x", nil)

	assert.Equal(t, 20, parseIntQuery(c, "limit", 20))
	assert.Equal(t, 10, parseIntQuery(c, "offset", 0))
	if assert.NotNil(t, parseFloatQuery(c, "salary_min")) {
		assert.Equal(t, 1500.5, *parseFloatQuery(c, "salary_min"))
	}
	assert.Nil(t, parseFloatQuery(c, "salary_max"))
	assert.Nil(t, parseFloatQuery(c, "missing"))
}
