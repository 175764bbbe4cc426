package httpserver

import (
	"errors"
	"net/http"

	"aurora-commerce/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (h *handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *handlers) badRequest(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
}
