package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/interface/http/dto"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/response"
	"github.com/ignatzorin/engagement-backend/internal/usecase/payment"
)

type PaymentUseCases struct {
	Record          *payment.RecordPaymentUseCase
	UpdateStatus    *payment.UpdatePaymentStatusUseCase
	Refund          *payment.RefundPaymentUseCase
	Get             *payment.GetPaymentUseCase
	ListForContract *payment.ListContractPaymentsUseCase
	Stats           *payment.Stats
}

type PaymentHandler struct {
	uc PaymentUseCases
}

func NewPaymentHandler(uc PaymentUseCases) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) Record(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		response.BadRequest(c, "некорректный ID контракта")
		return
	}

	p, err := h.uc.Record.Execute(c.Request.Context(), actor, payment.RecordPaymentInput{
		ContractID:       contractID,
		Amount:           req.Amount,
		CommissionAmount: req.CommissionAmount,
		PaymentMethod:    req.PaymentMethod,
		Notes:            req.Notes,
		Status:           req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToPaymentResponse(p))
}

func (h *PaymentHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID платежа")
	if !ok {
		return
	}
	p, err := h.uc.Get.Execute(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPaymentResponse(p))
}

func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID платежа")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "статус обязателен")
		return
	}
	p, err := h.uc.UpdateStatus.Execute(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPaymentResponse(p))
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "некорректный ID платежа")
	if !ok {
		return
	}
	var req dto.RefundRequest
	// тело необязательно
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "некорректные данные запроса")
			return
		}
	}
	p, err := h.uc.Refund.Execute(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPaymentResponse(p))
}

func (h *PaymentHandler) ListForContract(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	contractID, ok := parseID(c, "id", "некорректный ID контракта")
	if !ok {
		return
	}
	payments, err := h.uc.ListForContract.Execute(c.Request.Context(), actor, contractID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPaymentResponses(payments))
}

func (h *PaymentHandler) Stats(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	stats, err := h.uc.Stats.Totals(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// Revenue: ?months=N, по умолчанию 12.
func (h *PaymentHandler) Revenue(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	months := parseIntQuery(c, "months", payment.DefaultRevenueMonths)
	revenue, err := h.uc.Stats.MonthlyRevenue(c.Request.Context(), actor, months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, revenue)
}
