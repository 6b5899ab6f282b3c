package handler

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mercadolink/mercado_api/internal/middleware"
	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/service"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// PaymentHandler exposes payment recording and listing.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type paymentRequest struct {
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

func (r paymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Required, validation.Min(1)),
		validation.Field(&r.Method, validation.Required, validation.In("cash", "transfer", "card")),
	)
}

// ListPayments returns payments across all clients.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	page, limit := pageParams(c)

	payments, total, err := h.paymentService.ListPayments(0, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	utils.SuccessWithPagination(c, 200, "Payments retrieved successfully", gin.H{
		"payments": payments,
	}, page, limit, total)
}

// ListClientPayments returns payments for one cartera client.
func (h *PaymentHandler) ListClientPayments(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid client id")
		return
	}
	page, limit := pageParams(c)

	payments, total, err := h.paymentService.ListPayments(clientID, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	utils.SuccessWithPagination(c, 200, "Payments retrieved successfully", gin.H{
		"payments": payments,
	}, page, limit, total)
}

// CreatePayment records a payment for a client and settles it against the
// client's balance.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid client id")
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	profile := middleware.GetProfile(c)
	payment := &models.Payment{
		ClientID:  clientID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
		CreatedBy: profile.ID,
	}
	if err := h.paymentService.CreatePayment(payment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "CLIENT_NOT_FOUND", "Client not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to record payment")
		return
	}
	utils.Success(c, 201, "Payment recorded successfully", gin.H{"payment": payment})
}
