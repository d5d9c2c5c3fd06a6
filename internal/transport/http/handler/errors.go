package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"carrental/internal/app"
	"carrental/internal/transport/http/response"
)

// writeError maps an app error kind to a status. Internal errors are logged
// and answered with internalMessage only.
func writeError(c *gin.Context, err error, conflictStatus int, internalMessage string) {
	kind, ok := app.KindOf(err)
	if !ok {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, internalMessage)
		return
	}

	status := http.StatusBadRequest
	switch kind {
	case app.KindConflict:
		status = conflictStatus
	case app.KindNotFound:
		status = http.StatusNotFound
	}
	response.Error(c, status, err.Error())
}
