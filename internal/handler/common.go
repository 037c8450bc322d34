package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrms/internal/middleware"
	"hrms/pkg/apperrors"
	"hrms/pkg/response"
)

// IDParams is the shared path-params payload for /:id routes.
type IDParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.CtxUserID).(uuid.UUID)
}

func currentCompanyID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(middleware.CtxCompanyID)
	if !ok {
		return nil
	}
	id := v.(uuid.UUID)
	return &id
}

// requireCompany aborts with 400 when the caller's token carries no company
// context. Company-scoped routes call this first.
func requireCompany(c *gin.Context) (uuid.UUID, bool) {
	id := currentCompanyID(c)
	if id == nil {
		c.JSON(http.StatusBadRequest, response.ErrorCode(http.StatusBadRequest,
			string(apperrors.CodeValidation), "no company selected"))
		return uuid.Nil, false
	}
	return *id, true
}

func actorID(c *gin.Context) *uuid.UUID {
	id := currentUserID(c)
	return &id
}

// idParam parses the validated :id path parameter.
func idParam(c *gin.Context) (uuid.UUID, bool) {
	p := middleware.ParamsFrom[IDParams](c)
	if p == nil {
		c.JSON(http.StatusBadRequest, response.ErrorCode(http.StatusBadRequest,
			string(apperrors.CodeValidation), "invalid id"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorCode(http.StatusBadRequest,
			string(apperrors.CodeValidation), "invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps any service error onto the envelope with its HTTP status
// and stable code.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Status, response.FromAppError(appErr))
}

// listEnvelope pairs rows with their pagination block.
type listEnvelope struct {
	Items interface{} `json:"items"`
	Meta  interface{} `json:"meta"`
}

func validateID() gin.HandlerFunc {
	return middleware.ValidateParams(func() interface{} { return &IDParams{} })
}
