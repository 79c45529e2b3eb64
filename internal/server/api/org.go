package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/contexts"
	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/server/biz"
	"github.com/looplj/orghub/internal/server/middleware"
)

type OrgHandlersParams struct {
	fx.In

	OrgService *biz.OrgService
}

func NewOrgHandlers(params OrgHandlersParams) *OrgHandlers {
	return &OrgHandlers{
		OrgService: params.OrgService,
	}
}

type OrgHandlers struct {
	OrgService *biz.OrgService
}

// ListMyOrganizations returns every organization the session claims name a
// membership in. Mounted under the optional-org gate so it works before any
// organization is selected.
func (h *OrgHandlers) ListMyOrganizations(c *gin.Context) {
	ctx := c.Request.Context()

	claims, ok := contexts.GetClaims(ctx)
	if !ok {
		Error(c, objects.E(objects.KindUnauthorized, "session claims unavailable"))
		return
	}

	orgs, err := h.OrgService.ListOrganizations(ctx, claims)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// SelectOrganization validates membership in the requested organization and
// persists the selection in the current-org cookie.
func (h *OrgHandlers) SelectOrganization(c *gin.Context) {
	ctx := c.Request.Context()

	claims, ok := contexts.GetClaims(ctx)
	if !ok {
		Error(c, objects.E(objects.KindUnauthorized, "session claims unavailable"))
		return
	}

	var req struct {
		OrganizationID int64 `json:"organization_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	orgCtx, err := h.OrgService.GetOrganizationContext(ctx, claims, req.OrganizationID)
	if err != nil {
		Error(c, err)
		return
	}

	c.SetCookie(middleware.CurrentOrgCookie, strconv.FormatInt(req.OrganizationID, 10), 0, "/", "", false, true)
	c.JSON(http.StatusOK, orgCtx)
}

// CurrentOrganizationContext returns the authorization context the gate built
// for this request.
func (h *OrgHandlers) CurrentOrganizationContext(c *gin.Context) {
	orgCtx, ok := contexts.GetOrgContext(c.Request.Context())
	if !ok {
		Error(c, objects.E(objects.KindNoOrganization, "no organization selected"))
		return
	}

	c.JSON(http.StatusOK, orgCtx)
}
