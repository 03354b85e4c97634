package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ghostplan/matrix/internal/domain/models"
	"github.com/ghostplan/matrix/internal/service/editor"
	"github.com/ghostplan/matrix/internal/service/grid"
)

// MatrixHandler serves the budget grid and its edit-session operations.
type MatrixHandler struct {
	svc    *grid.Service
	logger *zap.Logger
}

// NewMatrixHandler constructs the HTTP handler adapter.
func NewMatrixHandler(svc *grid.Service, logger *zap.Logger) *MatrixHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatrixHandler{svc: svc, logger: logger}
}

// GetMatrix renders the aggregated grid for a job from server-sourced data.
func (h *MatrixHandler) GetMatrix(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), c.Param("pid"), c.Param("jid"))
	if err != nil {
		h.fail(c, err, "failed building matrix view")
		return
	}
	c.JSON(http.StatusOK, view)
}

// StartEdit opens an edit session and returns its id plus the draft.
func (h *MatrixHandler) StartEdit(c *gin.Context) {
	sess, err := h.svc.StartEdit(c.Request.Context(), c.Param("pid"), c.Param("jid"))
	if err != nil {
		h.fail(c, err, "failed starting edit session")
		return
	}

	draft, err := sess.Draft()
	if err != nil {
		h.fail(c, err, "failed reading draft")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"months":     sess.Months(),
		"items":      draft,
	})
}

// SetCell applies one cell edit to the session draft.
func (h *MatrixHandler) SetCell(c *gin.Context) {
	var req models.SetCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SetCell(c.Param("sid"), req); err != nil {
		h.fail(c, err, "failed applying cell edit")
		return
	}
	c.Status(http.StatusNoContent)
}

// Paste applies a clipboard block to the session draft.
func (h *MatrixHandler) Paste(c *gin.Context) {
	var req models.PasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.Paste(c.Param("sid"), req); err != nil {
		h.fail(c, err, "failed applying paste")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSessionView aggregates the draft so the client can re-render totals.
func (h *MatrixHandler) GetSessionView(c *gin.Context) {
	view, err := h.svc.SessionView(c.Request.Context(), c.Param("sid"))
	if err != nil {
		h.fail(c, err, "failed building session view")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Save flushes the draft upstream. A partial failure keeps the session
// editing and names the failed items instead of silently dropping them.
func (h *MatrixHandler) Save(c *gin.Context) {
	result, err := h.svc.Save(c.Request.Context(), c.Param("sid"))
	if err != nil {
		h.fail(c, err, "failed saving draft")
		return
	}

	if !result.Complete() {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel discards the draft without touching upstream.
func (h *MatrixHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Param("sid")); err != nil {
		h.fail(c, err, "failed cancelling session")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateItem forwards an item creation to the upstream API.
func (h *MatrixHandler) CreateItem(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), c.Param("pid"), c.Param("jid"), req)
	if err != nil {
		h.fail(c, err, "failed creating item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// fail maps service errors onto HTTP statuses and logs the rest.
func (h *MatrixHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "edit session not found"})
	case errors.Is(err, editor.ErrEditInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "an edit session is already active for this job"})
	case errors.Is(err, editor.ErrNotEditing):
		c.JSON(http.StatusConflict, gin.H{"error": "session is no longer editing"})
	case errors.Is(err, editor.ErrCellOutOfRange), errors.Is(err, editor.ErrUnknownMonth):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, grid.ErrMastersUnavailable):
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "master data unavailable"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
	}
}
