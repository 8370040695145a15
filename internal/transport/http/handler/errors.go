package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"conduit-api/internal/app"
	"conduit-api/internal/transport/http/response"
)

// writeError maps service errors onto the wire taxonomy.
func writeError(c *gin.Context, err error) {
	if verr, ok := app.AsValidationError(err); ok {
		response.Errors(c, http.StatusUnprocessableEntity, verr.Fields)
		return
	}
	switch {
	case errors.Is(err, app.ErrNotFound):
		response.Empty(c, http.StatusNotFound)
	case errors.Is(err, app.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "user", app.ErrUnauthorized.Error())
	default:
		_ = c.Error(err)
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		response.Error(c, http.StatusInternalServerError, "server", err.Error())
	}
}

// writeBindError reports a body that could not be decoded or failed its
// binding rules.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			fields[name] = append(fields[name], bindMessage(fe))
		}
		response.Errors(c, http.StatusUnprocessableEntity, fields)
		return
	}
	response.Error(c, http.StatusUnprocessableEntity, "body", "invalid request payload")
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return "is too long (maximum is " + fe.Param() + " characters)"
	default:
		return "is invalid"
	}
}
