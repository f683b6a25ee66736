package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
)

// RespondWithError writes err as an error envelope. AppErrors anywhere in
// the chain keep their status and code; anything else becomes a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Get("server").WithContext(c.Request.Context()).Error("Request failed", logger.Fields(
			logger.FieldError, err.Error(),
			"code", string(appErr.Code),
		))
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
