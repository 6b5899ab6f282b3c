package handler

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/service"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// ClientHandler exposes cartera client management.
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler constructs a ClientHandler.
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type clientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
	IsActive bool   `json:"isActive"`
}

func (r clientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, is.Email),
	)
}

// ListClients returns cartera clients with optional search.
func (h *ClientHandler) ListClients(c *gin.Context) {
	search := c.Query("search")
	page, limit := pageParams(c)

	clients, total, err := h.clientService.ListClients(search, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list clients")
		return
	}

	utils.SuccessWithPagination(c, 200, "Clients retrieved successfully", gin.H{
		"clients": clients,
	}, page, limit, total)
}

// GetClient returns one client by id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid client id")
		return
	}

	client, err := h.clientService.GetClient(id)
	if err != nil {
		utils.Error(c, 404, "CLIENT_NOT_FOUND", "Client not found")
		return
	}
	utils.Success(c, 200, "Client retrieved successfully", gin.H{"client": client})
}

// CreateClient registers a new cartera client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	client := &models.Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
		IsActive: true,
	}
	if err := h.clientService.CreateClient(client); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create client")
		return
	}
	utils.Success(c, 201, "Client created successfully", gin.H{"client": client})
}

// UpdateClient modifies an existing client. Balance only moves through
// payments, never here.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid client id")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	client := &models.Client{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
		IsActive: req.IsActive,
	}
	if err := h.clientService.UpdateClient(client); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "CLIENT_NOT_FOUND", "Client not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update client")
		return
	}
	utils.Success(c, 200, "Client updated successfully", gin.H{"client": client})
}
