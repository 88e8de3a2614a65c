package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
)

// EnsureProject creates the PROJECT_UUID row for project if missing and
// returns the stored identity. An existing identity is never replaced.
func (q *queries) EnsureProject(ctx context.Context, project string, now int64) (string, error) {
	const insert = `
INSERT INTO feast_metadata (project_id, metadata_key, metadata_value, last_updated_timestamp)
VALUES (?, ?, ?, ?)
ON CONFLICT (project_id, metadata_key) DO NOTHING`

	if _, err := q.q.ExecContext(ctx, q.rebind(insert),
		project, domain.MetadataProjectUUID, q.newUUID(), now); err != nil {
		return "", wrapf(err, "init project %q", project)
	}

	id, found, err := q.metadataValue(ctx, project, domain.MetadataProjectUUID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", Error.New("project %q has no identity after init", project)
	}
	return id, nil
}

// TouchLastUpdated records at as the project's last modification time.
func (q *queries) TouchLastUpdated(ctx context.Context, project string, at int64) error {
	query := `
INSERT INTO feast_metadata (project_id, metadata_key, metadata_value, last_updated_timestamp)
VALUES (?, ?, ?, ?)
ON CONFLICT (project_id, metadata_key) DO UPDATE SET
	metadata_value = EXCLUDED.metadata_value,
	last_updated_timestamp = EXCLUDED.last_updated_timestamp`
	if q.monotonic {
		query += `
WHERE feast_metadata.last_updated_timestamp <= EXCLUDED.last_updated_timestamp`
	}

	_, err := q.q.ExecContext(ctx, q.rebind(query),
		project, domain.MetadataLastUpdatedTS, strconv.FormatInt(at, 10), at)
	return wrapf(err, "touch last updated for %q", project)
}

// GetLastUpdated returns the project's last modification time in epoch
// seconds; found is false for a project that was never mutated.
func (q *queries) GetLastUpdated(ctx context.Context, project string) (at int64, found bool, err error) {
	const query = `
SELECT last_updated_timestamp FROM feast_metadata
WHERE project_id = ? AND metadata_key = ?`

	err = q.q.QueryRowContext(ctx, q.rebind(query), project, domain.MetadataLastUpdatedTS).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, wrapf(err, "get last updated for %q", project)
	}
	return at, true, nil
}

// ListProjectMetadata returns the identity record of project, if any.
func (q *queries) ListProjectMetadata(ctx context.Context, project string) ([]domain.ProjectMetadata, error) {
	id, found, err := q.metadataValue(ctx, project, domain.MetadataProjectUUID)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.ProjectMetadata{}, nil
	}
	return []domain.ProjectMetadata{{Project: project, ProjectUUID: id}}, nil
}

func (q *queries) metadataValue(ctx context.Context, project, key string) (string, bool, error) {
	const query = `
SELECT metadata_value FROM feast_metadata
WHERE project_id = ? AND metadata_key = ?`

	var value string
	err := q.q.QueryRowContext(ctx, q.rebind(query), project, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapf(err, "get %s for %q", key, project)
	}
	return value, true, nil
}
