package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/service"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// AdminUserHandler exposes administrator account management. All routes
// are superadmin-gated.
type AdminUserHandler struct {
	adminUserService *service.AdminUserService
}

// NewAdminUserHandler constructs an AdminUserHandler.
func NewAdminUserHandler(adminUserService *service.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminUserService: adminUserService}
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (r createAdminRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Role, validation.Required, validation.In(models.RoleSuperadmin, models.RoleAdminFull)),
	)
}

// ListAdmins returns all admin profiles.
func (h *AdminUserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminUserService.ListAdmins()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list admins")
		return
	}
	utils.Success(c, 200, "Admins retrieved successfully", gin.H{"admins": admins})
}

// CreateAdmin creates a new administrator account.
func (h *AdminUserHandler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	profile, err := h.adminUserService.CreateAdmin(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create admin")
		return
	}
	utils.Success(c, 201, "Admin created successfully", gin.H{"admin": profile})
}

// SetActive activates or deactivates an admin.
func (h *AdminUserHandler) SetActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid admin id")
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.adminUserService.SetActive(id, req.Active); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update admin")
		return
	}
	utils.Success(c, 200, "Admin updated successfully", nil)
}

// Block blocks an admin, optionally until a timestamp.
func (h *AdminUserHandler) Block(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid admin id")
		return
	}

	var req struct {
		BlockedUntil *time.Time `json:"blockedUntil"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.adminUserService.Block(id, req.BlockedUntil); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to block admin")
		return
	}
	utils.Success(c, 200, "Admin blocked successfully", nil)
}

// Unblock lifts an admin block.
func (h *AdminUserHandler) Unblock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid admin id")
		return
	}

	if err := h.adminUserService.Unblock(id); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to unblock admin")
		return
	}
	utils.Success(c, 200, "Admin unblocked successfully", nil)
}
