package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/engagement-backend/internal/interface/http/dto"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/response"
	"github.com/ignatzorin/engagement-backend/internal/usecase/application"
)

type ApplicationUseCases struct {
	Apply          *application.ApplyUseCase
	UpdateStatus   *application.UpdateApplicationStatusUseCase
	Withdraw       *application.WithdrawApplicationUseCase
	Recommend      *application.ToggleRecommendationUseCase
	Get            *application.GetApplicationUseCase
	ListForJob     *application.ListJobApplicationsUseCase
	ListForTalent  *application.ListTalentApplicationsUseCase
	StatusCounters *application.StatusCountsUseCase
}

type ApplicationHandler struct {
	uc ApplicationUseCases
}

func NewApplicationHandler(uc ApplicationUseCases) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// Apply обслуживает POST /jobs/:id/applications.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}
	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	app, err := h.uc.Apply.Execute(c.Request.Context(), actor, application.ApplyInput{
		JobID:        jobID,
		CoverLetter:  req.CoverLetter,
		ProposedRate: req.ProposedRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToApplicationResponse(app))
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}
	apps, err := h.uc.ListForJob.Execute(c.Request.Context(), actor, jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToApplicationResponses(apps))
}

func (h *ApplicationHandler) JobStats(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobID, ok := parseID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}
	counts, err := h.uc.StatusCounters.ForJob(c.Request.Context(), actor, jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"total": counts.Total(), "by_status": counts})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	apps, err := h.uc.ListForTalent.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToApplicationResponses(apps))
}

func (h *ApplicationHandler) MyStats(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	counts, err := h.uc.StatusCounters.ForTalent(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"total": counts.Total(), "by_status": counts})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID отклика")
	if !ok {
		return
	}
	app, err := h.uc.Get.Execute(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToApplicationResponse(app))
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID отклика")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "статус обязателен")
		return
	}
	app, err := h.uc.UpdateStatus.Execute(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToApplicationResponse(app))
}

func (h *ApplicationHandler) Recommend(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID отклика")
	if !ok {
		return
	}
	app, err := h.uc.Recommend.Execute(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToApplicationResponse(app))
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID отклика")
	if !ok {
		return
	}
	if err := h.uc.Withdraw.Execute(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
