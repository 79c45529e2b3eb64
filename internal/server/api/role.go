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
)

type RoleHandlersParams struct {
	fx.In

	RoleService *biz.RoleService
}

func NewRoleHandlers(params RoleHandlersParams) *RoleHandlers {
	return &RoleHandlers{
		RoleService: params.RoleService,
	}
}

// RoleHandlers manage application roles and per-organization permission
// overrides. All routes are mounted behind the admin gate.
type RoleHandlers struct {
	RoleService *biz.RoleService
}

func (h *RoleHandlers) ListRoles(c *gin.Context) {
	roles, err := h.RoleService.ListRoles(c.Request.Context())
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func roleID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("roleId"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid role id")
	}

	return id, nil
}

func (h *RoleHandlers) ListOverrides(c *gin.Context) {
	ctx := c.Request.Context()

	orgCtx, ok := contexts.GetOrgContext(ctx)
	if !ok {
		Error(c, objects.E(objects.KindNoOrganization, "no organization selected"))
		return
	}

	id, err := roleID(c)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	overrides, err := h.RoleService.ListOverrides(ctx, orgCtx.OrganizationID, id)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

type SetOverrideRequest struct {
	PermissionKey string `json:"permission_key" binding:"required"`
	Enabled       *bool  `json:"enabled"        binding:"required"`
}

func (h *RoleHandlers) SetOverride(c *gin.Context) {
	ctx := c.Request.Context()

	orgCtx, ok := contexts.GetOrgContext(ctx)
	if !ok {
		Error(c, objects.E(objects.KindNoOrganization, "no organization selected"))
		return
	}

	id, err := roleID(c)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	if err := h.RoleService.SetOverride(ctx, orgCtx.OrganizationID, id, req.PermissionKey, *req.Enabled); err != nil {
		Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RoleHandlers) RemoveOverride(c *gin.Context) {
	ctx := c.Request.Context()

	orgCtx, ok := contexts.GetOrgContext(ctx)
	if !ok {
		Error(c, objects.E(objects.KindNoOrganization, "no organization selected"))
		return
	}

	id, err := roleID(c)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	key := c.Query("permission_key")
	if key == "" {
		JSONError(c, http.StatusBadRequest, errors.New("permission_key is required"))
		return
	}

	if err := h.RoleService.RemoveOverride(ctx, orgCtx.OrganizationID, id, key); err != nil {
		Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
