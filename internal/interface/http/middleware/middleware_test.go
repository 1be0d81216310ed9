package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/pkg/apperror"
)

type stubTokens map[string]valueobject.Actor

func (s stubTokens) ParseAccess(token string) (valueobject.Actor, error) {
	actor, ok := s[token]
	if !ok {
		return valueobject.Actor{}, errors.New("invalid")
	}
	return actor, nil
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employer := valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleEmployer}
	tokens := stubTokens{"good": employer}

	r := gin.New()
	r.GET("/me", Auth(tokens), func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.String(http.StatusOK, actor.ID.String())
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/me", map[string]string{"Authorization": "Bearer bad"}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/me", map[string]string{"Authorization": "Basic good"}).Code)

	w := serve(r, "GET", "/me", map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, employer.ID.String(), w.Body.String())
}

func TestAuth_QueryTokenOnlyForWebsocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := stubTokens{"good": {ID: uuid.New(), Role: valueobject.RoleTalent}}
	r := gin.New()
	r.GET("/ws", Auth(tokens), ok)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/ws?token=good", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/ws?token=good", map[string]string{"Upgrade": "websocket"}).Code)
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/jobs", OptionalAuth(stubTokens{}), func(c *gin.Context) {
		_, found := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"actor": found})
	})

	w := serve(r, "GET", "/jobs", map[string]string{"Authorization": "Bearer expired"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"actor":false}`, w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	admin := valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleAdmin}
	talent := valueobject.Actor{ID: uuid.New(), Role: valueobject.RoleTalent}
	tokens := stubTokens{"admin": admin, "talent": talent}

	r := gin.New()
	r.POST("/payments", Auth(tokens), RequireRoles(valueobject.RoleStaff, valueobject.RoleAdmin), ok)

	assert.Equal(t, http.StatusOK, serve(r, "POST", "/payments", map[string]string{"Authorization": "Bearer admin"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "POST", "/payments", map[string]string{"Authorization": "Bearer talent"}).Code)

	bare := gin.New()
	bare.POST("/payments", RequireRoles(valueobject.RoleStaff), ok)
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "POST", "/payments", nil).Code)
}

func TestRateLimit_OnlyMutating(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limit := RateLimit(2, time.Minute)
	r.GET("/jobs", limit, ok)
	r.POST("/jobs", limit, ok)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, "GET", "/jobs", nil).Code)
	}
	assert.Equal(t, http.StatusOK, serve(r, "POST", "/jobs", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, "POST", "/jobs", nil).Code)

	w := serve(r, "POST", "/jobs", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.uz"}))
	r.GET("/jobs", ok)

	w := serve(r, "GET", "/jobs", map[string]string{"Origin": "https://app.example.uz"})
	assert.Equal(t, "https://app.example.uz", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, "GET", "/jobs", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, "OPTIONS", "/jobs", map[string]string{"Origin": "https://app.example.uz"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUUIDValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/jobs/:id", UUIDValidator("id"), ok)

	assert.Equal(t, http.StatusBadRequest, serve(r, "GET", "/jobs/123", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/jobs/"+uuid.NewString(), nil).Code)
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/error", func(c *gin.Context) { _ = c.Error(apperror.ErrContractNotFound) })

	w := serve(r, "GET", "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	w = serve(r, "GET", "/error", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "контракт не найден")
}

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/slow", RequestTimeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.Status(http.StatusGatewayTimeout)
	})
	assert.Equal(t, http.StatusGatewayTimeout, serve(r, "GET", "/slow", nil).Code)
}
