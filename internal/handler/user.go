package handler

import (
	"net/http"

	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/internal/dto"
	"github.com/Payphone-Digital/jury/internal/service"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{userService: service}
}

func (h *UserHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetAllUsers")

	page, err := h.userService.List(ctx, pageQuery(c))
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetUserByID")

	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateUser")

	var req dto.CreateUserRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	user, err := h.userService.Create(ctx, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	logger.InfoWithContext(ctx, "User created").
		String("user_id", user.ID.String()).
		String("role", user.Role).
		Log()

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateUser")

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	if err := h.userService.Update(ctx, id, &req); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteUser soft deletes the user together with its expenses,
// penalties and logs.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteUser")

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(ctx, id, actorID(c)); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) RestoreUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RestoreUser")

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Restore(ctx, id); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgUserRestored))
}

func (h *UserHandler) AppointJury(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AppointJury")

	var req dto.AppointJuryRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	if err := h.userService.AppointJury(ctx, req.UserIDs); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgJuryAppointed))
}
