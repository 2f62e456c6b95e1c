package admin

import (
	"net/http"
	"strconv"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/middleware"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves user administration and the dashboard stats endpoint.
type Handler struct {
	userService  service.UserServiceInterface
	statsService *service.StatsService
	errorMonitor *middleware.ErrorMonitor
}

func NewHandler(userService service.UserServiceInterface, statsService *service.StatsService, errorMonitor *middleware.ErrorMonitor) *Handler {
	return &Handler{userService, statsService, errorMonitor}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var input createUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email, role and a password of at least 8 characters are required"})
		return
	}

	u := &model.User{Username: input.Username, Email: input.Email, Role: input.Role}
	if err := h.userService.Register(u, input.Password); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var input updateRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}

	if err := h.userService.UpdateUserRole(id, input.Role); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "role": input.Role})
}

// GetSystemStats returns the dashboard counters.
func (h *Handler) GetSystemStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	stats["error_counts"] = h.errorMonitor.GetErrorCounts()
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
