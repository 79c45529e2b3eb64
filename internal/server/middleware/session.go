package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/looplj/orghub/internal/server/biz"
)

// Session cookie names. All three identify a session and all three are
// cleared together when a deactivated account is rejected.
const (
	SessionCookie    = "orghub_session"
	RefreshCookie    = "orghub_refresh"
	CurrentOrgCookie = "orghub_current_org"
)

// SessionUserID reads the session cookie and returns the identity-provider
// user id it was issued for. A missing or invalid cookie yields ok=false.
func SessionUserID(c *gin.Context, auth *biz.AuthService) (string, bool) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return "", false
	}

	workosUserID, err := auth.ParseSessionToken(token)
	if err != nil {
		return "", false
	}

	return workosUserID, true
}

// CurrentOrganizationID reads the selected tenant id cookie.
func CurrentOrganizationID(c *gin.Context) (int64, bool) {
	raw, err := c.Cookie(CurrentOrgCookie)
	if err != nil || raw == "" {
		return 0, false
	}

	orgID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return orgID, true
}

// ClearSessionCookies expires every session-identifying cookie.
func ClearSessionCookies(c *gin.Context) {
	for _, name := range []string{SessionCookie, RefreshCookie, CurrentOrgCookie} {
		c.SetCookie(name, "", -1, "/", "", false, true)
	}
}
