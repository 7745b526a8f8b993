package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string         `json:"error"`
	Kind    string         `json:"kind,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation:    http.StatusUnprocessableEntity,
	domain.KindConflict:      http.StatusConflict,
	domain.KindState:         http.StatusUnprocessableEntity,
	domain.KindNotFound:      http.StatusNotFound,
	domain.KindAuthorization: http.StatusForbidden,
	domain.KindPersistence:   http.StatusInternalServerError,
}

// writeError renders a service error. Persistence failures are logged and
// hidden from the client.
func writeError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind == domain.KindPersistence {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error.", Kind: string(domain.KindPersistence)})
		return
	}

	status, ok := statusByKind[derr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, errorResponse{Error: derr.Message, Kind: string(derr.Kind), Details: derr.Fields})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}
