package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinica/prontuario-client/pkg/apperror"
)

// Response wraps all bridge responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents a bridge error
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// respondWithSuccess sends a success response
func respondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// respondWithError maps the error taxonomy onto HTTP statuses for the
// local UI: validation and auth problems are the caller's to fix,
// everything else is the backend's.
func respondWithError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)

	status := http.StatusBadGateway
	switch kind {
	case apperror.KindValidation:
		status = http.StatusUnprocessableEntity
	case apperror.KindAuth:
		status = http.StatusUnauthorized
	}

	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Kind:    kind.String(),
			Message: apperror.MessageOf(err),
		},
	})
}
