package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/auth"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
	httptransport "github.com/ghelioth/les-bons-artisants-test/internal/transport/http"
)

// AuthService exposes registration, login and logout.
type AuthService struct {
	sessions *auth.Service
	logger   *logging.Logger
}

func NewAuthService(sessions *auth.Service, logger *logging.Logger) *AuthService {
	return &AuthService{
		sessions: sessions,
		logger:   logger,
	}
}

// Register wires the auth routes onto the API groups.
func (s *AuthService) Register(api, secured *gin.RouterGroup) {
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	secured.POST("/auth/logout", s.handleLogout)

	s.logger.InfoTag("HTTP", "auth routes registered")
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialResponse struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

func (s *AuthService) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	token, identity, err := s.sessions.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusCreated, credentialResponse{Token: token, User: identity}, "registered")
}

func (s *AuthService) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	token, identity, err := s.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, credentialResponse{Token: token, User: identity}, "logged in")
}

func (s *AuthService) handleLogout(c *gin.Context) {
	token := c.GetString(ctxToken)
	if err := s.sessions.Logout(c.Request.Context(), token); err != nil {
		httptransport.RespondWithError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "logged out")
}
