package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Projects *ProjectHandler
	Files    *FileHandler
	Health   *HealthHandler
	Realtime http.Handler
	Metrics  http.Handler
}

// RegisterRoutes mounts everything on api, which the engine roots at /api.
func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	api.GET("/projects", deps.Projects.List)
	api.POST("/projects", deps.Projects.Create)
	api.GET("/projects/:id", deps.Projects.Get)

	api.POST("/files/upload", deps.Files.Upload)
	api.GET("/files/:key", deps.Files.Get)

	api.GET("/ws", gin.WrapH(deps.Realtime))
	api.GET("/metrics", gin.WrapH(deps.Metrics))
	api.GET("/healthz", deps.Health.Check)
}
