package http

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/service"
)

// Registry is the set of registry operations served over HTTP.
type Registry interface {
	Apply(ctx context.Context, req domain.ApplyRequest) error
	Get(ctx context.Context, kind domain.Kind, project, name string) ([]byte, error)
	List(ctx context.Context, kind domain.Kind, project string) ([][]byte, error)
	Delete(ctx context.Context, kind domain.Kind, project, name string) (int64, error)
	ListResources(ctx context.Context, filter service.ResourceFilter) ([]domain.ResourceRef, error)
	ListProjects(ctx context.Context) ([]string, error)
	GetLastUpdated(ctx context.Context, project string) (time.Time, bool, error)
	ListProjectMetadata(ctx context.Context, project string) ([]domain.ProjectMetadata, error)
	ApplyUserMetadata(ctx context.Context, req domain.ApplyRequest) error
	GetUserMetadata(ctx context.Context, kind domain.Kind, project, name string) ([]byte, error)
	Teardown(ctx context.Context) error
}

// Handler serves the registry REST API
type Handler struct {
	registry Registry
	log      *zap.Logger
}

// New creates a new Handler
func New(registry Registry, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{registry: registry, log: log}
}

// applicationObject is the body of apply and user metadata requests.
type applicationObject struct {
	Proto                string `json:"proto"`
	LastUpdatedTimestamp string `json:"last_updated_timestamp"`
}

type objectResponse struct {
	ProtoString string `json:"protostring"`
}

type objectListResponse struct {
	ProtoStrings []string `json:"protostrings"`
}

type stringListResponse struct {
	Strings []string `json:"strings"`
}

type resourceListResponse struct {
	Resources []domain.ResourceRef `json:"resources"`
}

type deletionCountResponse struct {
	Count int64 `json:"count"`
}

type datetimeResponse struct {
	Datetime string `json:"datetime"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
