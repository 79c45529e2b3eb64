package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/server/biz"
	"github.com/looplj/orghub/internal/server/middleware"
)

type AuthHandlersParams struct {
	fx.In

	AuthService   *biz.AuthService
	ClaimsService *biz.ClaimsService
}

func NewAuthHandlers(params AuthHandlersParams) *AuthHandlers {
	return &AuthHandlers{
		AuthService:   params.AuthService,
		ClaimsService: params.ClaimsService,
	}
}

type AuthHandlers struct {
	AuthService   *biz.AuthService
	ClaimsService *biz.ClaimsService
}

type SignInRequest struct {
	WorkOSUserID string `json:"workos_user_id" binding:"required"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

// SignIn issues a session for a known identity-provider user. The identity
// provider must return claims for the user; nothing else is verified here,
// the upstream provider owns credential checks.
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		req SignInRequest
	)

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	claims, err := h.ClaimsService.GetClaims(ctx, req.WorkOSUserID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, errors.New("failed to verify user"))
		return
	}

	if claims == nil {
		JSONError(c, http.StatusUnauthorized, errors.New("unknown user"))
		return
	}

	token, err := h.AuthService.GenerateSessionToken(req.WorkOSUserID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, errors.New("failed to issue session"))
		return
	}

	c.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, SignInResponse{Token: token})
}

// SignOut clears the session cookies and drops any cached claims.
func (h *AuthHandlers) SignOut(c *gin.Context) {
	if workosUserID, ok := middleware.SessionUserID(c, h.AuthService); ok {
		_ = h.ClaimsService.Invalidate(c.Request.Context(), workosUserID)
	}

	middleware.ClearSessionCookies(c)
	c.Status(http.StatusNoContent)
}
