package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/engagement-backend/internal/interface/http/dto"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/response"
	"github.com/ignatzorin/engagement-backend/internal/usecase/contract"
)

type ContractUseCases struct {
	Create       *contract.CreateContractUseCase
	Update       *contract.UpdateContractUseCase
	UpdateStatus *contract.UpdateContractStatusUseCase
	Attach       *contract.AttachDocumentUseCase
	Get          *contract.GetContractUseCase
	List         *contract.ListContractsUseCase
	Stats        *contract.ContractStatsUseCase
}

type ContractHandler struct {
	uc ContractUseCases
}

func NewContractHandler(uc ContractUseCases) *ContractHandler {
	return &ContractHandler{uc: uc}
}

// Create обслуживает POST /contracts: нанимает исполнителя на вакансию.
func (h *ContractHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	fields, err := req.ToFields()
	if err != nil {
		response.BadRequest(c, "некорректные идентификаторы или даты")
		return
	}

	created, err := h.uc.Create.Execute(c.Request.Context(), actor, fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToContractResponse(created))
}

func (h *ContractHandler) ListMine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	contracts, err := h.uc.List.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToContractResponses(contracts))
}

func (h *ContractHandler) Stats(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	stats, err := h.uc.Stats.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *ContractHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID контракта")
	if !ok {
		return
	}
	found, err := h.uc.Get.Execute(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToContractResponse(found))
}

func (h *ContractHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID контракта")
	if !ok {
		return
	}
	var req dto.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	changes, err := req.ToChanges()
	if err != nil {
		response.BadRequest(c, "некорректная дата окончания")
		return
	}

	updated, err := h.uc.Update.Execute(c.Request.Context(), actor, id, changes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToContractResponse(updated))
}

func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID контракта")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "статус обязателен")
		return
	}

	updated, err := h.uc.UpdateStatus.Execute(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToContractResponse(updated))
}

// AttachDocument принимает multipart-поле "file".
func (h *ContractHandler) AttachDocument(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID контракта")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "файл не передан")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	updated, err := h.uc.Attach.Execute(c.Request.Context(), actor, id, header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToContractResponse(updated))
}
