package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/payload"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/service"
)

// ListProjects returns every project holding at least one resource
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.registry.ListProjects(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stringListResponse{Strings: projects})
}

// ListResources returns name, type and project of matching resources
func (h *Handler) ListResources(c *gin.Context) {
	var filter service.ResourceFilter
	if raw, ok := c.GetQuery("resource"); ok && raw != "" {
		kind, err := domain.ParseKind(raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		filter.Kind = &kind
	}
	filter.NameContains = c.Query("name")

	refs, err := h.registry.ListResources(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resourceListResponse{Resources: refs})
}

// Teardown deletes every resource of every project
func (h *Handler) Teardown(c *gin.Context) {
	if err := h.registry.Teardown(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ApplyResource creates or updates one resource
func (h *Handler) ApplyResource(c *gin.Context) {
	req, ok := h.bindApply(c)
	if !ok {
		return
	}
	if err := h.registry.Apply(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// GetResource returns one resource payload
func (h *Handler) GetResource(c *gin.Context) {
	kind, name, ok := h.resourceRef(c)
	if !ok {
		return
	}
	b, err := h.registry.Get(c.Request.Context(), kind, c.Param("project"), name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, objectResponse{ProtoString: payload.Encode(b)})
}

// DeleteResource removes one resource
func (h *Handler) DeleteResource(c *gin.Context) {
	kind, name, ok := h.resourceRef(c)
	if !ok {
		return
	}
	n, err := h.registry.Delete(c.Request.Context(), kind, c.Param("project"), name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, deletionCountResponse{Count: n})
}

// ListResource returns every payload of one kind in the project
func (h *Handler) ListResource(c *gin.Context) {
	kind, ok := h.resourceKind(c)
	if !ok {
		return
	}
	items, err := h.registry.List(c.Request.Context(), kind, c.Param("project"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, objectListResponse{ProtoStrings: payload.EncodeAll(items)})
}

// GetLastUpdated returns when the project was last mutated
func (h *Handler) GetLastUpdated(c *gin.Context) {
	project := c.Param("project")
	at, found, err := h.registry.GetLastUpdated(c.Request.Context(), project)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Detail: "project " + project + " has no recorded updates"})
		return
	}
	c.JSON(http.StatusOK, datetimeResponse{Datetime: domain.FormatDatetime(at)})
}

// ApplyUserMetadata stores user metadata on an existing view
func (h *Handler) ApplyUserMetadata(c *gin.Context) {
	req, ok := h.bindApply(c)
	if !ok {
		return
	}
	if err := h.registry.ApplyUserMetadata(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// GetUserMetadata returns the user metadata of a view
func (h *Handler) GetUserMetadata(c *gin.Context) {
	kind, name, ok := h.resourceRef(c)
	if !ok {
		return
	}
	b, err := h.registry.GetUserMetadata(c.Request.Context(), kind, c.Param("project"), name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, objectResponse{ProtoString: payload.Encode(b)})
}

// ListProjectMetadata returns the project's identity record as serialized
// ProjectMetadata messages
func (h *Handler) ListProjectMetadata(c *gin.Context) {
	records, err := h.registry.ListProjectMetadata(c.Request.Context(), c.Param("project"))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]string, 0, len(records))
	for _, m := range records {
		out = append(out, payload.Encode(payload.MarshalProjectMetadata(m)))
	}
	c.JSON(http.StatusOK, objectListResponse{ProtoStrings: out})
}

func (h *Handler) resourceKind(c *gin.Context) (domain.Kind, bool) {
	raw := c.Query("resource")
	if raw == "" {
		h.fail(c, domain.InvalidInput("query parameter resource is required"))
		return 0, false
	}
	kind, err := domain.ParseKind(raw)
	if err != nil {
		h.fail(c, err)
		return 0, false
	}
	return kind, true
}

func (h *Handler) resourceRef(c *gin.Context) (domain.Kind, string, bool) {
	kind, ok := h.resourceKind(c)
	if !ok {
		return 0, "", false
	}
	name := c.Query("name")
	if name == "" {
		h.fail(c, domain.InvalidInput("query parameter name is required"))
		return 0, "", false
	}
	return kind, name, true
}

func (h *Handler) bindApply(c *gin.Context) (domain.ApplyRequest, bool) {
	kind, name, ok := h.resourceRef(c)
	if !ok {
		return domain.ApplyRequest{}, false
	}

	var body applicationObject
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, domain.InvalidInput("invalid request body: %v", err))
		return domain.ApplyRequest{}, false
	}
	b, err := payload.Decode(body.Proto)
	if err != nil {
		h.fail(c, err)
		return domain.ApplyRequest{}, false
	}
	at, err := domain.ParseTimestamp(body.LastUpdatedTimestamp)
	if err != nil {
		h.fail(c, err)
		return domain.ApplyRequest{}, false
	}

	return domain.ApplyRequest{
		Kind:      kind,
		Project:   c.Param("project"),
		Name:      name,
		Payload:   b,
		UpdatedAt: at,
	}, true
}
