package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"ytbulkedit/domain/model"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/usecase"
)

// IBulkHandler defines the HTTP surface of the batch engine.
type IBulkHandler interface {
	ListItems(ctx *gin.Context)
	GetItem(ctx *gin.Context)
	Preview(ctx *gin.Context)
	DryRun(ctx *gin.Context)
	Execute(ctx *gin.Context)
	Backup(ctx *gin.Context)
	Restore(ctx *gin.Context)
	Quota(ctx *gin.Context)
}

// SelectionRequest names the items to act on and the rules to apply.
type SelectionRequest struct {
	IDs   []string      `json:"ids"`
	All   bool          `json:"all"`
	Rules model.RuleSet `json:"rules"`
}

type RestoreRequest struct {
	Path string `json:"path"`
}

type BulkHandler struct {
	engine usecase.IBatchEngine
	// base outlives the request so background batches survive the 202 response.
	base    context.Context
	pending atomic.Bool
}

func NewBulkHandler(base context.Context, engine usecase.IBatchEngine) *BulkHandler {
	return &BulkHandler{engine: engine, base: base}
}

// ListItems handles GET /api/items?refresh=&q=
func (h *BulkHandler) ListItems(ctx *gin.Context) {
	refresh, _ := strconv.ParseBool(ctx.Query("refresh"))
	items, err := h.engine.ListItems(ctx.Request.Context(), refresh)
	if err != nil {
		respondError(ctx, "Failed to list items", err)
		return
	}
	if q := ctx.Query("q"); q != "" {
		items = usecase.Search(items, q)
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

// GetItem handles GET /api/items/:id
func (h *BulkHandler) GetItem(ctx *gin.Context) {
	items, err := h.engine.Select([]string{ctx.Param("id")})
	if err != nil {
		respondError(ctx, "Failed to get item", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": items[0]})
}

// Preview handles POST /api/preview
func (h *BulkHandler) Preview(ctx *gin.Context) {
	req, items, ok := h.bindSelection(ctx)
	if !ok {
		return
	}
	lines, err := h.engine.Preview(items, req.Rules)
	if err != nil {
		respondError(ctx, "Failed to build preview", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": lines})
}

// DryRun handles POST /api/dry-run
func (h *BulkHandler) DryRun(ctx *gin.Context) {
	req, items, ok := h.bindSelection(ctx)
	if !ok {
		return
	}
	path, err := h.engine.DryRun(items, req.Rules)
	if err != nil {
		respondError(ctx, "Failed to write dry run", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "path": path, "count": len(items)})
}

// Execute handles POST /api/execute. The batch runs in the background; progress goes to /api/events.
func (h *BulkHandler) Execute(ctx *gin.Context) {
	req, items, ok := h.bindSelection(ctx)
	if !ok {
		return
	}
	if err := h.engine.Validate(req.Rules); err != nil {
		respondError(ctx, "Invalid rules", err)
		return
	}
	h.start(ctx, "execute", len(items), func(c context.Context) (*usecase.BatchResult, error) {
		return h.engine.Execute(c, items, req.Rules)
	})
}

// Backup handles POST /api/backup
func (h *BulkHandler) Backup(ctx *gin.Context) {
	_, items, ok := h.bindSelection(ctx)
	if !ok {
		return
	}
	path, err := h.engine.Backup(ctx.Request.Context(), items)
	if err != nil {
		respondError(ctx, "Failed to back up items", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "path": path, "count": len(items)})
}

// Restore handles POST /api/restore
func (h *BulkHandler) Restore(ctx *gin.Context) {
	var req RestoreRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
			return
		}
	}
	h.start(ctx, "restore", 0, func(c context.Context) (*usecase.BatchResult, error) {
		return h.engine.Restore(c, req.Path)
	})
}

// Quota handles GET /api/quota
func (h *BulkHandler) Quota(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.engine.Quota()})
}

func (h *BulkHandler) start(ctx *gin.Context, op string, count int,
	run func(context.Context) (*usecase.BatchResult, error)) {
	if h.engine.Busy() || !h.pending.CompareAndSwap(false, true) {
		respondError(ctx, "Batch not started", model.ErrBusy)
		return
	}
	go func() {
		defer h.pending.Store(false)
		res, err := run(h.base)
		fields := map[string]interface{}{"operation": op}
		if res != nil {
			fields["batchId"] = res.BatchID
			fields["succeeded"] = res.Succeeded
			fields["failed"] = res.Failed
		}
		if err != nil {
			fields["error"] = err
			logger.GetLogger().WithFields(fields).Error("Background batch failed")
			return
		}
		logger.GetLogger().WithFields(fields).Info("Background batch finished")
	}()
	ctx.JSON(http.StatusAccepted, gin.H{"success": true, "operation": op, "count": count, "events": "/api/events"})
}

func (h *BulkHandler) bindSelection(ctx *gin.Context) (*SelectionRequest, []*model.Item, bool) {
	var req SelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return nil, nil, false
	}
	var items []*model.Item
	if req.All {
		items = h.engine.Items()
	} else {
		var err error
		if items, err = h.engine.Select(req.IDs); err != nil {
			respondError(ctx, "Invalid selection", err)
			return nil, nil, false
		}
	}
	if len(items) == 0 {
		respondError(ctx, "Invalid selection", model.ErrNoSelection)
		return nil, nil, false
	}
	return &req, items, true
}

func respondError(ctx *gin.Context, message string, err error) {
	ctx.JSON(statusFor(err), gin.H{"error": message, "message": err.Error()})
}

func statusFor(err error) int {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, model.ErrNoSelection):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, model.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
