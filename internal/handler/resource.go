package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/internal/dto"
	"github.com/Payphone-Digital/jury/internal/service"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// resourceService is the shape shared by the soft-deletable resources.
type resourceService[C, U, R any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*R, error)
	Create(ctx context.Context, req *C) (*R, error)
	Update(ctx context.Context, id uuid.UUID, req *U) error
	Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}

// ResourceHandler serves the CRUD and restore endpoints of one resource.
// list is supplied per resource because filters differ.
type ResourceHandler[C, U, R any] struct {
	name    string
	service resourceService[C, U, R]
	list    func(ctx context.Context, c *gin.Context) (dto.PagedResponse[R], bool, error)
}

func (h *ResourceHandler[C, U, R]) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetAll"+h.name)

	page, ok, err := h.list(ctx, c)
	if !ok {
		return
	}
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ResourceHandler[C, U, R]) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Get"+h.name)

	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[C, U, R]) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Create"+h.name)

	var req C
	if !bindJSON(ctx, c, &req) {
		return
	}

	item, err := h.service.Create(ctx, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ResourceHandler[C, U, R]) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Update"+h.name)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req U
	if !bindJSON(ctx, c, &req) {
		return
	}

	if err := h.service.Update(ctx, id, &req); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[C, U, R]) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Delete"+h.name)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id, actorID(c)); err != nil {
		respondError(ctx, c, err)
		return
	}

	logger.InfoWithContext(ctx, h.name+" deleted").
		String("id", id.String()).
		Log()

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[C, U, R]) Restore(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Restore"+h.name)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Restore(ctx, id); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgRestored))
}

type (
	PenaltyHandler  = ResourceHandler[dto.CreatePenaltyRequest, dto.UpdatePenaltyRequest, dto.PenaltyResponse]
	ExpenseHandler  = ResourceHandler[dto.CreateExpenseRequest, dto.UpdateExpenseRequest, dto.ExpenseResponse]
	LogHandler      = ResourceHandler[dto.CreateLogRequest, dto.UpdateLogRequest, dto.LogResponse]
	TierHandler     = ResourceHandler[dto.CreateTierRequest, dto.UpdateTierRequest, dto.TierResponse]
	ActivityHandler = ResourceHandler[dto.CreateActivityRequest, dto.UpdateActivityRequest, dto.ActivityResponse]
)

// ownedList lists a resource that can be filtered by ?userId=.
func ownedList[R any](list func(context.Context, *uuid.UUID, service.PageQuery) (dto.PagedResponse[R], error)) func(context.Context, *gin.Context) (dto.PagedResponse[R], bool, error) {
	return func(ctx context.Context, c *gin.Context) (dto.PagedResponse[R], bool, error) {
		userID, ok := userFilter(c)
		if !ok {
			return dto.PagedResponse[R]{}, false, nil
		}
		page, err := list(ctx, userID, pageQuery(c))
		return page, true, err
	}
}

func plainList[R any](list func(context.Context, service.PageQuery) (dto.PagedResponse[R], error)) func(context.Context, *gin.Context) (dto.PagedResponse[R], bool, error) {
	return func(ctx context.Context, c *gin.Context) (dto.PagedResponse[R], bool, error) {
		page, err := list(ctx, pageQuery(c))
		return page, true, err
	}
}

func NewPenaltyHandler(s *service.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{name: "Penalty", service: s, list: ownedList(s.List)}
}

func NewExpenseHandler(s *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{name: "Expense", service: s, list: ownedList(s.List)}
}

func NewLogHandler(s *service.AuditLogService) *LogHandler {
	return &LogHandler{name: "Log", service: s, list: ownedList(s.List)}
}

func NewTierHandler(s *service.TierService) *TierHandler {
	return &TierHandler{name: "Tier", service: s, list: plainList(s.List)}
}

func NewActivityHandler(s *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{name: "Activity", service: s, list: plainList(s.List)}
}
