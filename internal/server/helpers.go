package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"go.uber.org/zap"
)

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, message and field.
// Otherwise it logs the unexpected error and returns a generic internal error.
func (h *handler) respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			h.logger.Error("app error",
				zap.String("code", appErr.Code),
				zap.Error(appErr.Internal),
				zap.String("path", c.Request.URL.Path),
			)
		}
		body := gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		c.JSON(appErr.StatusCode, gin.H{"error": body})
		return
	}

	h.logger.Error("unexpected error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// pathID returns a UUID path parameter. Malformed ids cannot name a stored
// record, so they are reported with the resource's not-found error.
func pathID(c *gin.Context, param string, notFound *apperrors.AppError) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", notFound
	}
	return id.String(), nil
}

// bindJSON decodes the request body into req and maps failures to API errors.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindError(err)
	}
	return nil
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
func bindOptionalJSON(c *gin.Context, req interface{}) error {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return bindError(err)
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.ErrPayloadTooLarge
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.Validation(fe.Field(), "failed on the '"+fe.Tag()+"' rule")
	}
	return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
}
