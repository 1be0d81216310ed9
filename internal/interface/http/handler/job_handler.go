package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/dto"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/middleware"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/response"
	"github.com/ignatzorin/engagement-backend/internal/usecase/job"
)

type JobUseCases struct {
	Create    *job.CreateJobUseCase
	Update    *job.UpdateJobUseCase
	SetStatus *job.SetJobStatusUseCase
	Get       *job.GetJobUseCase
	ListMine  *job.ListEmployerJobsUseCase
	Search    *job.SearchJobsUseCase
}

type JobHandler struct {
	uc JobUseCases
}

func NewJobHandler(uc JobUseCases) *JobHandler {
	return &JobHandler{uc: uc}
}

// Search обслуживает публичный поиск GET /jobs.
func (h *JobHandler) Search(c *gin.Context) {
	filter := repository.JobFilter{
		Keyword:      c.Query("q"),
		JobType:      c.Query("job_type"),
		LocationType: c.Query("location_type"),
		Location:     c.Query("location"),
		SalaryMin:    parseFloatQuery(c, "salary_min"),
		SalaryMax:    parseFloatQuery(c, "salary_max"),
		Sort:         c.DefaultQuery("sort", repository.JobSortNewest),
		Limit:        parseIntQuery(c, "limit", 20),
		Offset:       parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("experience_max"); v != "" {
		exp := parseIntQuery(c, "experience_max", -1)
		if exp < 0 {
			response.BadRequest(c, "некорректный experience_max")
			return
		}
		filter.ExperienceMax = &exp
	}
	if v := c.Query("skills"); v != "" {
		ids, err := dto.ParseUUIDs(strings.Split(v, ","))
		if err != nil {
			response.BadRequest(c, "некорректный список навыков")
			return
		}
		filter.SkillIDs = ids
	}
	filter.Normalize()

	jobs, total, err := h.uc.Search.Execute(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dto.ToJobResponses(jobs), total, filter.Limit, filter.Offset)
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}
	var viewer *valueobject.Actor
	if actor, ok := middleware.ActorFrom(c); ok {
		viewer = &actor
	}

	j, err := h.uc.Get.Execute(c.Request.Context(), viewer, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToJobResponse(j))
}

func (h *JobHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	input, err := req.ToInput()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	j, err := h.uc.Create.Execute(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToJobResponse(j))
}

func (h *JobHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}
	var req dto.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	input, err := req.ToInput()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	j, err := h.uc.Update.Execute(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToJobResponse(j))
}

func (h *JobHandler) Approve(c *gin.Context) { h.setStatus(c, valueobject.JobStatusActive) }
func (h *JobHandler) Reject(c *gin.Context)  { h.setStatus(c, valueobject.JobStatusRejected) }
func (h *JobHandler) Close(c *gin.Context)   { h.setStatus(c, valueobject.JobStatusClosed) }
func (h *JobHandler) Delete(c *gin.Context)  { h.setStatus(c, valueobject.JobStatusDeleted) }

func (h *JobHandler) setStatus(c *gin.Context, target valueobject.JobStatus) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}

	j, err := h.uc.SetStatus.Execute(c.Request.Context(), actor, id, string(target))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToJobResponse(j))
}

func (h *JobHandler) ListMine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	jobs, err := h.uc.ListMine.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToJobResponses(jobs))
}
