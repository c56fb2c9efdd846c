package handler

import (
	"errors"
	"net/http"

	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/Payphone-Digital/jury/internal/service"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	session, err := h.authService.Login(ctx, req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	logger.InfoWithContext(ctx, "User logged in successfully").
		String("user_id", session.User.ID.String()).
		Log()

	c.JSON(http.StatusOK, session)
}

// Register creates the account and logs it in. With authorization off no
// tokens can be minted, so only the user is returned.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	user, err := h.authService.Register(ctx, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	session, err := h.authService.Login(ctx, user.Email, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, apperrors.ErrAuthConfig) {
			c.JSON(http.StatusCreated, dto.SessionResponse{User: dto.NewUserResponse(user)})
			return
		}
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// RefreshToken exchanges a refresh token for a new session.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	session, err := h.authService.RefreshToken(ctx, req.RefreshToken, c.ClientIP())
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// RevokeToken retires a refresh token.
func (h *AuthHandler) RevokeToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RevokeToken")

	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	if err := h.authService.RevokeToken(ctx, req.RefreshToken, c.ClientIP()); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me returns the caller's account.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Me")

	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	user, err := h.authService.GetUserByID(ctx, principal.UserID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
