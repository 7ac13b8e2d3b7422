package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mdesign/internal/pkg/response"
	"github.com/xxxsen/mdesign/internal/repo"
	"github.com/xxxsen/mdesign/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type projectRequest struct {
	Name    string          `json:"name"`
	Data    json.RawMessage `json:"data"`
	OwnerID string          `json:"owner_id"`
}

func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context(), repo.ProjectFilter{OwnerID: c.Query("owner_id")})
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	project, err := h.projects.Create(c.Request.Context(), service.ProjectCreateInput{
		Name:    req.Name,
		Data:    req.Data,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project)
}
