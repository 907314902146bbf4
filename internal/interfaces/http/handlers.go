package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deskhq/memoflow/internal/application/service"
	"github.com/deskhq/memoflow/internal/application/workflow"
	"github.com/deskhq/memoflow/internal/domain/entity"
	domainwf "github.com/deskhq/memoflow/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine       workflow.Engine
	notification service.NotificationService
	logger       Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(engine workflow.Engine, notification service.NotificationService, logger Logger) *Handlers {
	return &Handlers{
		engine:       engine,
		notification: notification,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateMemoRequest is the payload for creating a draft
type CreateMemoRequest struct {
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body"`
	Recipients string `json:"recipients"`
	Department string `json:"department"`
	Priority   string `json:"priority"`
	IssuedAt   string `json:"issued_at"`
	AuthorID   string `json:"author_id" binding:"required"`
}

// ApplyActionRequest is the payload for one workflow transition. The actor
// identity and role arrive pre-authenticated from the fronting auth layer.
type ApplyActionRequest struct {
	Action          string `json:"action" binding:"required"`
	ActorID         string `json:"actor_id" binding:"required"`
	ActorRole       string `json:"actor_role" binding:"required"`
	Comment         string `json:"comment"`
	ExpectedVersion int64  `json:"expected_version"`
}

// ListMemosRequest represents query parameters for listing memos
type ListMemosRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateMemo handles POST /api/v1/memos
func (h *Handlers) CreateMemo(c *gin.Context) {
	var req CreateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	issuedAt := time.Now().UTC()
	if req.IssuedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.IssuedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "issued_at must be RFC3339"})
			return
		}
		issuedAt = parsed.UTC()
	}

	memo, err := h.engine.CreateDraft(c.Request.Context(), &entity.MemoContent{
		Title:      req.Title,
		Body:       req.Body,
		Recipients: req.Recipients,
		Department: req.Department,
		Priority:   req.Priority,
		IssuedAt:   issuedAt,
		AuthorID:   req.AuthorID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: memo})
}

// ApplyAction handles POST /api/v1/memos/:id/actions
func (h *Handlers) ApplyAction(c *gin.Context) {
	var req ApplyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	memo, err := h.engine.Apply(c.Request.Context(), workflow.ApplyRequest{
		MemoID:          c.Param("id"),
		Action:          domainwf.Action(req.Action),
		ActorID:         req.ActorID,
		ActorRole:       domainwf.Role(req.ActorRole),
		Comment:         req.Comment,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: memo})
}

// GetMemo handles GET /api/v1/memos/:id
func (h *Handlers) GetMemo(c *gin.Context) {
	memo, err := h.engine.GetMemo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: memo})
}

// GetHistory handles GET /api/v1/memos/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	history, err := h.engine.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// GetPermittedActions handles GET /api/v1/memos/:id/actions. With a role
// query parameter it returns only the actions that role may perform, so
// clients can render exactly the buttons the engine would accept.
func (h *Handlers) GetPermittedActions(c *gin.Context) {
	memo, err := h.engine.GetMemo(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	state := domainwf.State(memo.Status)
	var actions []domainwf.Action
	if role := c.Query("role"); role != "" {
		actions = domainwf.PermittedActionsForRole(state, domainwf.Role(role))
	} else {
		actions = domainwf.PermittedActions(state)
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"status":  memo.Status,
		"actions": actions,
	}})
}

// GetNotifications handles GET /api/v1/memos/:id/notifications
func (h *Handlers) GetNotifications(c *gin.Context) {
	notifications, err := h.notification.GetByMemoID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: notifications})
}

// ListMemos handles GET /api/v1/memos
func (h *Handlers) ListMemos(c *gin.Context) {
	var req ListMemosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	memos, err := h.engine.ListMemos(c.Request.Context(), req.Status, req.Limit, req.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: memos})
}

// respondError maps workflow error kinds to HTTP statuses
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrMemoNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainwf.ErrIllegalTransition):
		status = http.StatusConflict
	case errors.Is(err, domainwf.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domainwf.ErrMissingJustification):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrPersistence):
		status = http.StatusInternalServerError
		h.logger.Error("Request failed on persistence", "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}
