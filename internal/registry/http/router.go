package http

import "github.com/gin-gonic/gin"

// Register registers the registry routes. Static paths take precedence over
// the project parameter.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/projects", h.ListProjects)
	r.GET("/resources", h.ListResources)
	r.DELETE("/teardown", h.Teardown)

	r.POST("/:project", h.ApplyResource)
	r.GET("/:project", h.GetResource)
	r.DELETE("/:project", h.DeleteResource)
	r.GET("/:project/list", h.ListResource)
	r.GET("/:project/last_updated", h.GetLastUpdated)
	r.POST("/:project/user_metadata", h.ApplyUserMetadata)
	r.GET("/:project/user_metadata", h.GetUserMetadata)
	r.GET("/:project/feast_metadata", h.ListProjectMetadata)
}
