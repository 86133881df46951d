package handler

import (
	"Cipherchat/internal/api/dto"
	"Cipherchat/internal/pkg/consts"
	"Cipherchat/internal/pkg/response"
	"Cipherchat/internal/pkg/security"
	"Cipherchat/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userSvc      service.UserService
	cookieSecure bool
}

func NewAuthHandler(userSvc service.UserService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		userSvc:      userSvc,
		cookieSecure: cookieSecure,
	}
}

func (s *AuthHandler) Signup(c *gin.Context) {
	var signupDTO dto.SignupDTO
	if !bindAndValidate(c, &signupDTO) {
		return
	}
	res, err := s.userSvc.Signup(c.Request.Context(), &signupDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.setAuthCookie(c, res.Token)
	response.Success(c, res)
}

func (s *AuthHandler) Login(c *gin.Context) {
	var loginDTO dto.LoginDTO
	if !bindAndValidate(c, &loginDTO) {
		return
	}
	res, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.setAuthCookie(c, res.Token)
	response.Success(c, res)
}

func (s *AuthHandler) Logout(c *gin.Context) {
	err := s.userSvc.Logout(c.Request.Context(), c.GetString(consts.AuthTokenKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	s.clearAuthCookie(c)
	response.Success(c, nil)
}

func (s *AuthHandler) Check(c *gin.Context) {
	user, err := s.userSvc.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AuthHandler) UpdateProfile(c *gin.Context) {
	var profileDTO dto.UpdateProfileDTO
	if !bindAndValidate(c, &profileDTO) {
		return
	}
	user, err := s.userSvc.UpdateProfile(c.Request.Context(), currentUserID(c), &profileDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AuthHandler) UpdatePublicKey(c *gin.Context) {
	var keyDTO dto.PublicKeyDTO
	if !bindAndValidate(c, &keyDTO) {
		return
	}
	user, err := s.userSvc.UpdatePublicKey(c.Request.Context(), currentUserID(c), &keyDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AuthHandler) UpdatePreferences(c *gin.Context) {
	var prefDTO dto.PreferencesDTO
	if !bindAndValidate(c, &prefDTO) {
		return
	}
	user, err := s.userSvc.UpdatePreferences(c.Request.Context(), currentUserID(c), &prefDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AuthHandler) DeleteAccount(c *gin.Context) {
	err := s.userSvc.DeleteAccount(c.Request.Context(), currentUserID(c), c.GetString(consts.AuthTokenKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	s.clearAuthCookie(c)
	response.Success(c, nil)
}

func (s *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(consts.AuthCookieName, token, int(security.TokenTTL().Seconds()), "/", "", s.cookieSecure, true)
}

func (s *AuthHandler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(consts.AuthCookieName, "", -1, "/", "", s.cookieSecure, true)
}
