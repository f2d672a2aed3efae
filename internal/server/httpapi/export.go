package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) export(c *gin.Context) {
	resource := c.Param("resource")

	res, err := s.services.Export.Export(c.Request.Context(), resource)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "snapshot exported", "resource", resource, "key", res.Key, "by", c.GetString(userIDKey))
	c.JSON(http.StatusOK, res)
}
