package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/dmitrijs2005/collectadmin/internal/server/auth"
	"github.com/dmitrijs2005/collectadmin/internal/server/gate"
	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	userIDKey  = "userID"
)

// tokenFromRequest reads the session cookie, falling back to a bearer
// Authorization header.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(common.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get(common.AuthorizationHeaderName)
	if len(header) > len(common.BearerPrefix) && strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(header[len(common.BearerPrefix):])
	}
	return ""
}

// session returns the validated session of the request, computing it once.
func (s *Server) session(c *gin.Context) auth.SessionState {
	if v, ok := c.Get(sessionKey); ok {
		return v.(auth.SessionState)
	}
	st := s.services.Users.Authenticate(tokenFromRequest(c.Request))
	c.Set(sessionKey, st)
	return st
}

func (s *Server) sessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// Ignored paths skip token validation entirely.
		authenticated := false
		if !s.ignored(path) {
			authenticated = s.session(c).Authenticated()
		}

		d := s.rules.Decide(path, authenticated)
		s.metrics.ObserveGateDecision(d.Action.String())

		if d.Action == gate.Allow {
			c.Next()
			return
		}

		code := http.StatusFound
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			code = http.StatusTemporaryRedirect
		}
		c.Redirect(code, d.Location)
		c.Abort()
	}
}

func (s *Server) ignored(path string) bool {
	for _, p := range s.rules.IgnoredPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return gate.HasFileExtension(path)
}

// requireSession guards API routes: anything but a valid session is a 401.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := s.session(c)
		if !st.Authenticated() {
			s.logger.Debug(c.Request.Context(), "api request without session", "path", c.Request.URL.Path, "session", st.Status.String())
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: common.ErrorUnauthorized.Error()})
			return
		}
		c.Set(userIDKey, st.UserID)
		c.Next()
	}
}

// requestLogger logs each request once it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(ctx, "request completed with server error", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(ctx, "request completed with client error", args...)
		default:
			s.logger.Info(ctx, "request completed", args...)
		}
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	})
}
