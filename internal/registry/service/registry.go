// Package service is the registry handle shared by every transport. It
// validates requests, runs each mutation in one transaction and announces
// committed changes.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/catalog"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/events"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/payload"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/repository"
)

// Registry serves resources out of a Store.
type Registry struct {
	store  *repository.Store
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the clock used for deletes and project initialization.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithPublisher announces committed mutations through p.
func WithPublisher(p events.Publisher) Option {
	return func(r *Registry) { r.events = p }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// NewRegistry creates a Registry over store.
func NewRegistry(store *repository.Store, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		events: events.Nop{},
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks the backing store.
func (r *Registry) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Apply creates or replaces a resource. A new row gets its creation time
// stamped into the payload where the kind has one; an existing row keeps it.
func (r *Registry) Apply(ctx context.Context, req domain.ApplyRequest) error {
	if err := domain.Postable.Require(req.Kind); err != nil {
		return err
	}
	if err := validateRef(req.Project, req.Name); err != nil {
		return err
	}
	if req.UpdatedAt.IsZero() {
		return domain.InvalidInput("last_updated_timestamp is required")
	}

	d := catalog.MustLookup(req.Kind)
	insertPayload := req.Payload
	if d.CreatedTimestamp != nil {
		insertPayload, _ = payload.StampCreated(req.Payload, d.CreatedTimestamp, req.UpdatedAt)
	}
	at := domain.EpochSeconds(req.UpdatedAt)

	err := r.store.InTx(ctx, func(tx *repository.Tx) error {
		if err := tx.UpsertResource(ctx, d, req.Project, req.Name, insertPayload, req.Payload, at); err != nil {
			return err
		}
		if _, err := tx.EnsureProject(ctx, req.Project, at); err != nil {
			return err
		}
		return tx.TouchLastUpdated(ctx, req.Project, at)
	})
	if err != nil {
		return err
	}

	r.log.Debug("applied resource",
		zap.Stringer("kind", req.Kind),
		zap.String("project", req.Project),
		zap.String("name", req.Name),
		zap.Int("bytes", len(req.Payload)))
	r.publish(ctx, events.Event{Action: events.ActionApply, Kind: req.Kind.String(), Project: req.Project, Name: req.Name, Timestamp: req.UpdatedAt})
	return nil
}

// Get returns the payload of one resource.
func (r *Registry) Get(ctx context.Context, kind domain.Kind, project, name string) ([]byte, error) {
	if err := domain.Gettable.Require(kind); err != nil {
		return nil, err
	}
	if err := validateRef(project, name); err != nil {
		return nil, err
	}
	return r.store.GetResource(ctx, catalog.MustLookup(kind), project, name)
}

// List returns every payload of kind in project, ordered by name. Listing
// initializes the project identity as a side effect.
func (r *Registry) List(ctx context.Context, kind domain.Kind, project string) ([][]byte, error) {
	if err := domain.Queryable.Require(kind); err != nil {
		return nil, err
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}
	if _, err := r.EnsureProjectInitialized(ctx, project); err != nil {
		return nil, err
	}
	return r.store.ListResources(ctx, catalog.MustLookup(kind), project)
}

// Delete removes one resource and returns the number of rows removed.
func (r *Registry) Delete(ctx context.Context, kind domain.Kind, project, name string) (int64, error) {
	if err := domain.Deletable.Require(kind); err != nil {
		return 0, err
	}
	if err := validateRef(project, name); err != nil {
		return 0, err
	}

	d := catalog.MustLookup(kind)
	now := r.now().UTC()

	var count int64
	err := r.store.InTx(ctx, func(tx *repository.Tx) error {
		n, err := tx.DeleteResource(ctx, d, project, name)
		if err != nil {
			return err
		}
		count = n
		return tx.TouchLastUpdated(ctx, project, domain.EpochSeconds(now))
	})
	if err != nil {
		return 0, err
	}

	r.log.Debug("deleted resource",
		zap.Stringer("kind", kind),
		zap.String("project", project),
		zap.String("name", name))
	r.publish(ctx, events.Event{Action: events.ActionDelete, Kind: kind.String(), Project: project, Name: name, Timestamp: now})
	return count, nil
}

// ResourceFilter narrows ListResources. The zero value matches everything.
type ResourceFilter struct {
	// Kind restricts the listing to one queryable kind when set.
	Kind *domain.Kind
	// NameContains is matched literally against resource names.
	NameContains string
}

// ListResources returns (name, kind, project) for every matching resource
// across all projects.
func (r *Registry) ListResources(ctx context.Context, filter ResourceFilter) ([]domain.ResourceRef, error) {
	kinds := domain.Queryable.Kinds()
	if filter.Kind != nil {
		if err := domain.Queryable.Require(*filter.Kind); err != nil {
			return nil, err
		}
		kinds = []domain.Kind{*filter.Kind}
	}
	return r.store.ListResourceRefs(ctx, kinds, filter.NameContains)
}

// ListProjects returns the sorted ids of every project holding a resource.
func (r *Registry) ListProjects(ctx context.Context) ([]string, error) {
	return r.store.ListProjects(ctx)
}

// GetLastUpdated returns when project was last mutated; found is false for a
// project with no recorded mutation.
func (r *Registry) GetLastUpdated(ctx context.Context, project string) (at time.Time, found bool, err error) {
	if err := validateProject(project); err != nil {
		return time.Time{}, false, err
	}
	sec, found, err := r.store.GetLastUpdated(ctx, project)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	return domain.FromEpochSeconds(sec), true, nil
}

// EnsureProjectInitialized assigns project an identity if it has none and
// returns the stored identity.
func (r *Registry) EnsureProjectInitialized(ctx context.Context, project string) (string, error) {
	if err := validateProject(project); err != nil {
		return "", err
	}
	return r.store.EnsureProject(ctx, project, domain.EpochSeconds(r.now()))
}

// ListProjectMetadata returns the identity record of project, if any.
func (r *Registry) ListProjectMetadata(ctx context.Context, project string) ([]domain.ProjectMetadata, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}
	return r.store.ListProjectMetadata(ctx, project)
}

// ApplyUserMetadata replaces the user metadata of an existing view.
func (r *Registry) ApplyUserMetadata(ctx context.Context, req domain.ApplyRequest) error {
	if err := domain.ViewLike.Require(req.Kind); err != nil {
		return err
	}
	if err := validateRef(req.Project, req.Name); err != nil {
		return err
	}
	if req.UpdatedAt.IsZero() {
		return domain.InvalidInput("last_updated_timestamp is required")
	}

	err := r.store.ApplyUserMetadata(ctx, catalog.MustLookup(req.Kind), req.Project, req.Name, req.Payload, domain.EpochSeconds(req.UpdatedAt))
	if err != nil {
		return err
	}

	r.publish(ctx, events.Event{Action: events.ActionUserMetadata, Kind: req.Kind.String(), Project: req.Project, Name: req.Name, Timestamp: req.UpdatedAt})
	return nil
}

// GetUserMetadata returns the user metadata of a view, empty when unset.
func (r *Registry) GetUserMetadata(ctx context.Context, kind domain.Kind, project, name string) ([]byte, error) {
	if err := domain.ViewLike.Require(kind); err != nil {
		return nil, err
	}
	if err := validateRef(project, name); err != nil {
		return nil, err
	}
	return r.store.GetUserMetadata(ctx, catalog.MustLookup(kind), project, name)
}

// Teardown deletes every resource of every project. Project metadata survives.
func (r *Registry) Teardown(ctx context.Context) error {
	if err := r.store.InTx(ctx, func(tx *repository.Tx) error {
		return tx.Teardown(ctx)
	}); err != nil {
		return err
	}

	r.log.Info("registry torn down")
	r.publish(ctx, events.Event{Action: events.ActionTeardown, Timestamp: r.now().UTC()})
	return nil
}

// publish never fails the mutation it reports on.
func (r *Registry) publish(ctx context.Context, ev events.Event) {
	if err := r.events.Publish(ctx, ev); err != nil {
		r.log.Warn("failed to publish registry event",
			zap.String("action", string(ev.Action)),
			zap.String("project", ev.Project),
			zap.Error(err))
	}
}

func validateProject(project string) error {
	if strings.TrimSpace(project) == "" {
		return domain.InvalidInput("project is required")
	}
	return nil
}

func validateRef(project, name string) error {
	if err := validateProject(project); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return domain.InvalidInput("name is required")
	}
	return nil
}
