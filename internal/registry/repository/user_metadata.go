package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/catalog"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
)

const userMetadataColumn = "user_metadata"

// ApplyUserMetadata overwrites the sidecar payload of an existing view row.
func (q *queries) ApplyUserMetadata(ctx context.Context, d *catalog.Descriptor, project, name string, payload []byte, updatedAt int64) error {
	if !d.UserMetadata {
		return domain.InvalidInput("resource %q does not carry user metadata", d.Kind.String())
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = ?, last_updated_timestamp = ? WHERE %s = ? AND project_id = ?`,
		ident(d.Table), ident(userMetadataColumn), ident(d.IDColumn))

	result, err := q.q.ExecContext(ctx, q.rebind(query), nonNil(payload), updatedAt, name, project)
	if err != nil {
		return wrapf(err, "apply user metadata %s %q", d.Kind, name)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrapf(err, "apply user metadata %s %q", d.Kind, name)
	}
	if n < 1 {
		return d.NotFound(name, project)
	}
	return nil
}

// GetUserMetadata returns the sidecar payload of a view row. A row without
// user metadata yields an empty payload.
func (q *queries) GetUserMetadata(ctx context.Context, d *catalog.Descriptor, project, name string) ([]byte, error) {
	if !d.UserMetadata {
		return nil, domain.InvalidInput("resource %q does not carry user metadata", d.Kind.String())
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? AND project_id = ?`,
		ident(userMetadataColumn), ident(d.Table), ident(d.IDColumn))

	var payload []byte
	err := q.q.QueryRowContext(ctx, q.rebind(query), name, project).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, d.NotFound(name, project)
	}
	if err != nil {
		return nil, wrapf(err, "get user metadata %s %q", d.Kind, name)
	}
	return nonNil(payload), nil
}
