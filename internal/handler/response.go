package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/jury/internal/constants"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/Payphone-Digital/jury/internal/service"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/Payphone-Digital/jury/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes err as JSON. Anything that maps to 500 is logged
// in full and answered with the generic body.
func respondError(ctx context.Context, c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.ErrorWithContext(ctx, "Request failed").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Err(err).
			Log()
		c.JSON(http.StatusInternalServerError, constants.BuildServerErrorResponse(time.Now()))
		return
	}

	logger.WarnWithContext(ctx, "Request rejected").
		String("path", c.Request.URL.Path).
		Int("status_code", status).
		Err(err).
		Log()
	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), apperrors.GetErrorDetails(err)))
}

// bindJSON decodes the body into req. On failure it writes a 400 with
// per-field messages and returns false.
func bindJSON(ctx context.Context, c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.WarnWithContext(ctx, "Invalid request body").
			String("path", c.Request.URL.Path).
			Err(err).
			Log()
		if fields := validation.Messages(err); len(fields) > 0 {
			c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgValidationFailed, fields))
		} else {
			c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, nil))
		}
		return false
	}
	return true
}

// parseID reads the :id route parameter.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgInvalidID, "id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func pageQuery(c *gin.Context) service.PageQuery {
	p := constants.ParsePaginationParams(c)
	return service.PageQuery{Page: p.Page, PageSize: p.Limit}
}

// userFilter reads the optional userId query filter.
func userFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query(constants.QueryParamUserID)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgInvalidID, "userId must be a UUID"))
		return nil, false
	}
	return &id, true
}

// actorID is the caller stamped on soft deletes. It is nil when
// authorization is off.
func actorID(c *gin.Context) *uuid.UUID {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		return nil
	}
	id := principal.UserID
	return &id
}
