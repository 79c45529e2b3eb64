package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/orghub/internal/scopes"
	"github.com/looplj/orghub/internal/server/biz"
)

type ProjectHandlersParams struct {
	fx.In

	ProjectService *biz.ProjectService
}

func NewProjectHandlers(params ProjectHandlersParams) *ProjectHandlers {
	return &ProjectHandlers{
		ProjectService: params.ProjectService,
	}
}

type ProjectHandlers struct {
	ProjectService *biz.ProjectService
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id")
	}

	return id, nil
}

func (h *ProjectHandlers) List(c *gin.Context) {
	var query scopes.Query

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			JSONError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}

		query.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			JSONError(c, http.StatusBadRequest, errors.New("invalid offset"))
			return
		}

		query.Offset = offset
	}

	query.OrderBy = c.DefaultQuery("order_by", "id")

	projects, err := h.ProjectService.ListProjects(c.Request.Context(), query)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandlers) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	project, err := h.ProjectService.GetProject(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}

	if project == nil {
		JSONError(c, http.StatusNotFound, errors.New("project not found"))
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) Create(c *gin.Context) {
	var data scopes.Record
	if err := c.ShouldBindJSON(&data); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	project, err := h.ProjectService.CreateProject(c.Request.Context(), data)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandlers) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	var data scopes.Record
	if err := c.ShouldBindJSON(&data); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	project, err := h.ProjectService.UpdateProject(c.Request.Context(), id, data)
	if err != nil {
		Error(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := h.ProjectService.DeleteProject(c.Request.Context(), id); err != nil {
		Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
