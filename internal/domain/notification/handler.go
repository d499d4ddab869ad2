package notification

import (
	"log/slog"
	"net/http"

	"seatswap/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the notification domain. The API is
// service-to-service: callers pass the target user explicitly.
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/v1/notifications.
// Responds 201 with the record, or 200 with null data when the request was
// blocked by the user's preferences.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.HandleError(c, common.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	rec, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("create notification failed",
			"error", err,
			"user_id", req.UserID,
			"type", req.Type,
		)
		common.HandleError(c, err)
		return
	}

	if rec == nil {
		common.Success(c, http.StatusOK, nil)
		return
	}
	common.Success(c, http.StatusCreated, rec)
}

// bulkRequest wraps the payload for a bulk create.
type bulkRequest struct {
	Requests []*CreateRequest `json:"requests" binding:"required,min=1,dive"`
}

// CreateBulk handles POST /api/v1/notifications/bulk.
func (h *Handler) CreateBulk(c *gin.Context) {
	var body bulkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		common.HandleError(c, common.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	result := h.service.CreateBulk(c.Request.Context(), body.Requests)
	common.Success(c, http.StatusOK, result)
}

// List handles GET /api/v1/notifications.
func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.HandleError(c, common.NewValidationError("invalid query parameters: "+err.Error()))
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// UnreadCount handles GET /api/v1/notifications/unread-count.
func (h *Handler) UnreadCount(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		common.HandleError(c, common.NewValidationError("user_id is required"))
		return
	}

	n, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"unread": n})
}

// MarkRead handles POST /api/v1/notifications/:id/read.
func (h *Handler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	userID := c.Query("user_id")
	if userID == "" {
		common.HandleError(c, common.NewValidationError("user_id is required"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"status": "read"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		common.HandleError(c, common.NewValidationError("user_id is required"))
		return
	}

	n, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"marked": n})
}

// RegisterRoutes registers notification routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notifications", h.Create)
	rg.POST("/notifications/bulk", h.CreateBulk)
	rg.GET("/notifications", h.List)
	rg.GET("/notifications/unread-count", h.UnreadCount)
	rg.POST("/notifications/:id/read", h.MarkRead)
	rg.POST("/notifications/read-all", h.MarkAllRead)
}
