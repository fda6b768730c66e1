package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/models"
)

// fail translates a typed error into the uniform error envelope. Validation
// failures echo their message to the caller; store failures are logged with
// the wrapped driver error and report only a minimal diagnostic.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	var app *models.AppError
	if !errors.As(err, &app) {
		app = models.StoreFailure("internal server error", err)
	}

	switch app.Kind {
	case models.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": app.Message})
	default:
		log.Error().Err(app.Err).Str("path", c.FullPath()).Msg(app.Message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"message": app.Message,
		})
	}
}
