package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

const invalidCredentials = "invalid credentials"

func (s *Server) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
}

func (s *Server) apiLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errMalformedBody)
		return
	}
	if req.Email == "" || req.Password == "" {
		fields := []string{}
		if req.Email == "" {
			fields = append(fields, "email")
		}
		if req.Password == "" {
			fields = append(fields, "password")
		}
		s.writeError(c, common.NewValidationError("missing required fields", fields...))
		return
	}

	sess, err := s.services.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(c.Request.Context(), "login failed", "email", req.Email)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: invalidCredentials})
			return
		}
		s.writeError(c, err)
		return
	}

	s.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusOK, sess)
}

func (s *Server) apiLogout(c *gin.Context) {
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, messageResponse{Message: "signed out"})
}

func (s *Server) apiSession(c *gin.Context) {
	st := s.session(c)
	c.JSON(http.StatusOK, gin.H{"userId": st.UserID, "email": st.Email})
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{"Error": c.Query("error")})
}

// loginForm handles the browser login form.
func (s *Server) loginForm(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" || req.Password == "" {
		s.logger.Warn(c.Request.Context(), "malformed login form", "error", err)
		c.Redirect(http.StatusSeeOther, s.rules.LoginPath+"?error=CredentialsSignin")
		return
	}

	sess, err := s.services.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		reason := "CredentialsSignin"
		if !errors.Is(err, common.ErrorUnauthorized) {
			reason = "Unavailable"
			s.logger.Error(c.Request.Context(), "form login failed", "error", err)
		} else {
			s.logger.Warn(c.Request.Context(), "login failed", "email", req.Email)
		}
		c.Redirect(http.StatusSeeOther, s.rules.LoginPath+"?error="+url.QueryEscape(reason))
		return
	}

	s.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	c.Redirect(http.StatusSeeOther, s.rules.HomePath)
}

func (s *Server) logoutForm(c *gin.Context) {
	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, s.rules.LoginPath)
}

func (s *Server) homePage(c *gin.Context) {
	c.HTML(http.StatusOK, "home", gin.H{
		"Email":     s.session(c).Email,
		"Resources": []string{"users", "companies", "vehicles", "collection-point"},
	})
}
