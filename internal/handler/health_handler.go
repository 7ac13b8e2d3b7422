package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mdesign/internal/pkg/response"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}
