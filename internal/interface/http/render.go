package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/pkg/response"
)

// renderError maps the application error taxonomy onto HTTP statuses.
// Services raise typed errors and never deal in status codes; this is
// the single place the translation happens.
func renderError(c *gin.Context, err error) {
	var nf *application.NotFoundError
	var cf *application.ConflictError
	var ve *application.ValidationError
	switch {
	case errors.As(err, &nf):
		response.Error[any](c, http.StatusNotFound, nf.Error(), nil)
	case errors.As(err, &cf):
		response.Error[any](c, http.StatusConflict, cf.Error(), nil)
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, "validation failed", ve.Fields)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "access denied", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
	}
}
