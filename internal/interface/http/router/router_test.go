package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/engagement-backend/internal/auth"
	"github.com/ignatzorin/engagement-backend/internal/cache"
	"github.com/ignatzorin/engagement-backend/internal/config"
	"github.com/ignatzorin/engagement-backend/internal/domain/event"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/handler"
	"github.com/ignatzorin/engagement-backend/internal/storage"
	"github.com/ignatzorin/engagement-backend/internal/usecase/application"
	"github.com/ignatzorin/engagement-backend/internal/usecase/contract"
	"github.com/ignatzorin/engagement-backend/internal/usecase/job"
	"github.com/ignatzorin/engagement-backend/internal/usecase/payment"
	"github.com/ignatzorin/engagement-backend/internal/usecase/usecasetest"
	"github.com/ignatzorin/engagement-backend/internal/ws"
)

type testServer struct {
	*usecasetest.Fixture
	engine *gin.Engine
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := usecasetest.New(t)
	var events event.Publisher = f.Events
	statsCache := cache.New()
	files, err := storage.NewDocumentStorage(t.TempDir(), 1)
	require.NoError(t, err)
	updateContract := contract.NewUpdateContractUseCase(f.Store, events)

	h := Handlers{
		Jobs: handler.NewJobHandler(handler.JobUseCases{
			Create:    job.NewCreateJobUseCase(f.Store, events),
			Update:    job.NewUpdateJobUseCase(f.Store, events),
			SetStatus: job.NewSetJobStatusUseCase(f.Store, events),
			Get:       job.NewGetJobUseCase(f.Store),
			ListMine:  job.NewListEmployerJobsUseCase(f.Store),
			Search:    job.NewSearchJobsUseCase(f.Store),
		}),
		Applications: handler.NewApplicationHandler(handler.ApplicationUseCases{
			Apply:          application.NewApplyUseCase(f.Store, events),
			UpdateStatus:   application.NewUpdateApplicationStatusUseCase(f.Store, events),
			Withdraw:       application.NewWithdrawApplicationUseCase(f.Store, events),
			Recommend:      application.NewToggleRecommendationUseCase(f.Store, events),
			Get:            application.NewGetApplicationUseCase(f.Store),
			ListForJob:     application.NewListJobApplicationsUseCase(f.Store),
			ListForTalent:  application.NewListTalentApplicationsUseCase(f.Store),
			StatusCounters: application.NewStatusCountsUseCase(f.Store),
		}),
		Contracts: handler.NewContractHandler(handler.ContractUseCases{
			Create:       contract.NewCreateContractUseCase(f.Store, events, 15),
			Update:       updateContract,
			UpdateStatus: contract.NewUpdateContractStatusUseCase(f.Store, events),
			Attach:       contract.NewAttachDocumentUseCase(f.Store, files, updateContract),
			Get:          contract.NewGetContractUseCase(f.Store),
			List:         contract.NewListContractsUseCase(f.Store),
			Stats:        contract.NewContractStatsUseCase(f.Store),
		}),
		Payments: handler.NewPaymentHandler(handler.PaymentUseCases{
			Record:          payment.NewRecordPaymentUseCase(f.Store, events, statsCache, cache.PaymentsPrefix),
			UpdateStatus:    payment.NewUpdatePaymentStatusUseCase(f.Store, events, statsCache, cache.PaymentsPrefix),
			Refund:          payment.NewRefundPaymentUseCase(f.Store, events, statsCache, cache.PaymentsPrefix),
			Get:             payment.NewGetPaymentUseCase(f.Store),
			ListForContract: payment.NewListContractPaymentsUseCase(f.Store),
			Stats:           payment.NewStats(f.Store, statsCache, time.Minute),
		}),
		Health: handler.NewHealthHandler(f.Store),
		WS:     handler.NewWSHandler(ws.NewHub()),
	}

	cfg := &config.Config{
		Env:             "test",
		RateLimitLimit:  1000,
		RateLimitPeriod: time.Minute,
		RequestTimeout:  5 * time.Second,
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return &testServer{Fixture: f, engine: SetupRouter(cfg, h, tokens), tokens: tokens}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Pagination *struct {
		Total int `json:"total"`
	} `json:"pagination"`
}

func (s *testServer) do(t *testing.T, actor *valueobject.Actor, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		token, err := s.tokens.Issue(*actor)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, nil, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestPublicSearch(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, nil, http.MethodGet, "/api/v1/jobs?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Total)

	w, _ = s.do(t, nil, http.MethodGet, "/api/v1/jobs?skills=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	jobPath := "/api/v1/jobs/" + s.Job.ID.String()

	w, _ := s.do(t, nil, http.MethodPost, "/api/v1/jobs", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, &s.TalentActor, http.MethodPost, "/api/v1/jobs", map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, &s.EmployerActor, http.MethodPost, jobPath+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, &s.EmployerActor, http.MethodPost, "/api/v1/payments", map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, &s.EmployerActor, http.MethodGet, "/api/v1/applications/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHiringFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	jobPath := "/api/v1/jobs/" + s.Job.ID.String()

	w, env := s.do(t, &s.TalentActor, http.MethodPost, jobPath+"/applications", map[string]any{"cover_letter": "Здравствуйте"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appID := dataID(t, env)

	w, _ = s.do(t, &s.TalentActor, http.MethodPost, jobPath+"/applications", map[string]any{})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = s.do(t, &s.EmployerActor, http.MethodPost, "/api/v1/contracts", map[string]any{
		"job_id":         s.Job.ID.String(),
		"talent_id":      s.Talent.ID.String(),
		"application_id": appID,
		"start_date":     time.Now().Format(time.DateOnly),
		"rate":           100,
		"rate_type":      "fixed",
		"total_amount":   1_000_000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contractID := dataID(t, env)
	var created struct {
		CommissionAmount float64 `json:"commission_amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 150_000.0, created.CommissionAmount)

	w, env = s.do(t, &s.Staff, http.MethodPost, "/api/v1/payments", map[string]any{
		"contract_id":    contractID,
		"amount":         1000,
		"payment_method": "card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	paymentID := dataID(t, env)

	w, _ = s.do(t, &s.TalentActor, http.MethodGet, "/api/v1/contracts/"+contractID+"/payments", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, &s.Staff, http.MethodPost, "/api/v1/payments/"+paymentID+"/refund", map[string]any{"reason": "ошибка"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, &s.Staff, http.MethodPost, "/api/v1/payments/"+paymentID+"/refund", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	w, _ = s.do(t, &s.TalentActor, http.MethodPut, "/api/v1/contracts/"+contractID+"/status", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, &s.EmployerActor, http.MethodPut, "/api/v1/contracts/"+contractID+"/status", map[string]any{"status": "terminated"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	talent, err := s.Store.Talents().FindByID(context.Background(), s.Talent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, talent.TotalJobsCompleted)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, &s.EmployerActor, http.MethodPost, "/api/v1/jobs", map[string]any{
		"title":         "",
		"description":   "описание",
		"job_type":      "gig",
		"location_type": "remote",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "title")
	assert.Contains(t, env.Error.Fields, "job_type")
}

func TestWithdrawReturnsNoContent(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, &s.TalentActor, http.MethodPost, "/api/v1/jobs/"+s.Job.ID.String()+"/applications", map[string]any{})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, &s.TalentActor, http.MethodDelete, "/api/v1/applications/"+dataID(t, env), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = s.do(t, &s.TalentActor, http.MethodDelete, "/api/v1/applications/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
