package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/gin-gonic/gin"
)

var errMalformedBody = common.NewValidationError("malformed request body")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors to an HTTP status and a message safe to show
// to the caller.
func statusFor(err error) (int, string) {
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrorConflict):
		return http.StatusUnauthorized, common.ErrorConflict.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, common.ErrorUnauthorized.Error()
	case errors.Is(err, common.ErrorExportDisabled):
		return http.StatusServiceUnavailable, common.ErrorExportDisabled.Error()
	case errors.Is(err, common.ErrorUnavailable):
		return http.StatusServiceUnavailable, common.ErrorUnavailable.Error()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	code, msg := statusFor(err)

	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	} else {
		s.logger.Debug(c.Request.Context(), "request rejected", "path", c.Request.URL.Path, "error", err)
	}

	c.AbortWithStatusJSON(code, errorResponse{Error: msg})
}
