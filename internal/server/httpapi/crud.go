package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type deleteRequest struct {
	ID string `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// registerCRUD mounts list, create and delete for one resource. Delete takes
// the id either from the path or from a JSON body {"id": ...}.
func registerCRUD[In any, Out any, Row any](s *Server, g gin.IRouter, path, label string, svc CRUD[In, Out, Row]) {
	g.GET(path, listHandler(s, svc))
	g.POST(path, createHandler(s, svc))
	g.DELETE(path, deleteHandler(s, label, svc))
	g.DELETE(path+"/:id", deleteHandler(s, label, svc))
}

func listHandler[In any, Out any, Row any](s *Server, svc CRUD[In, Out, Row]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.List(c.Request.Context())
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func createHandler[In any, Out any, Row any](s *Server, svc CRUD[In, Out, Row]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			s.writeError(c, errMalformedBody)
			return
		}

		out, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			s.writeError(c, err)
			return
		}

		s.logger.Info(c.Request.Context(), "record created", "path", c.FullPath(), "by", c.GetString(userIDKey))
		c.JSON(http.StatusCreated, out)
	}
}

func deleteHandler[In any, Out any, Row any](s *Server, label string, svc CRUD[In, Out, Row]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			var req deleteRequest
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				s.writeError(c, errMalformedBody)
				return
			}
			id = req.ID
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			s.writeError(c, err)
			return
		}

		s.logger.Info(c.Request.Context(), "record deleted", "path", c.FullPath(), "id", id, "by", c.GetString(userIDKey))
		c.JSON(http.StatusOK, messageResponse{Message: label + " deleted"})
	}
}
