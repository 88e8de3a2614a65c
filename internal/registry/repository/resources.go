package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/catalog"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
)

// UpsertResource inserts the row for (name, project) or updates it in place.
// insertPayload is stored only when the row is new; updatePayload replaces
// the payload of an existing row.
func (q *queries) UpsertResource(ctx context.Context, d *catalog.Descriptor, project, name string, insertPayload, updatePayload []byte, updatedAt int64) error {
	query := fmt.Sprintf(`
INSERT INTO %[1]s (%[2]s, %[3]s, last_updated_timestamp, project_id)
VALUES (?, ?, ?, ?)
ON CONFLICT (%[2]s, project_id) DO UPDATE SET
	%[3]s = ?,
	last_updated_timestamp = EXCLUDED.last_updated_timestamp`,
		ident(d.Table), ident(d.IDColumn), ident(d.PayloadColumn))

	_, err := q.q.ExecContext(ctx, q.rebind(query),
		name, nonNil(insertPayload), updatedAt, project, nonNil(updatePayload))
	return wrapf(err, "upsert %s %q", d.Kind, name)
}

// GetResource returns the payload stored for (name, project).
func (q *queries) GetResource(ctx context.Context, d *catalog.Descriptor, project, name string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? AND project_id = ?`,
		ident(d.PayloadColumn), ident(d.Table), ident(d.IDColumn))

	var payload []byte
	err := q.q.QueryRowContext(ctx, q.rebind(query), name, project).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, d.NotFound(name, project)
	}
	if err != nil {
		return nil, wrapf(err, "get %s %q", d.Kind, name)
	}
	return nonNil(payload), nil
}

// ListResources returns every payload of a kind in a project, ordered by id.
func (q *queries) ListResources(ctx context.Context, d *catalog.Descriptor, project string) ([][]byte, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE project_id = ? ORDER BY %s`,
		ident(d.PayloadColumn), ident(d.Table), ident(d.IDColumn))

	rows, err := q.q.QueryContext(ctx, q.rebind(query), project)
	if err != nil {
		return nil, wrapf(err, "list %s", d.Kind)
	}
	defer rows.Close()

	out := make([][]byte, 0, 16)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, wrapf(err, "scan %s", d.Kind)
		}
		out = append(out, nonNil(payload))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapf(err, "list %s", d.Kind)
	}
	return out, nil
}

// DeleteResource removes (name, project) and returns the affected row count.
// Zero rows is reported as the kind's not-found error.
func (q *queries) DeleteResource(ctx context.Context, d *catalog.Descriptor, project, name string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND project_id = ?`,
		ident(d.Table), ident(d.IDColumn))

	result, err := q.q.ExecContext(ctx, q.rebind(query), name, project)
	if err != nil {
		return 0, wrapf(err, "delete %s %q", d.Kind, name)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, wrapf(err, "delete %s %q", d.Kind, name)
	}
	if n < 1 {
		return 0, d.NotFound(name, project)
	}
	return n, nil
}

// ListResourceRefs returns (name, kind, project) for each row of the given
// kinds whose id contains nameContains; an empty filter matches everything.
func (q *queries) ListResourceRefs(ctx context.Context, kinds []domain.Kind, nameContains string) ([]domain.ResourceRef, error) {
	out := make([]domain.ResourceRef, 0, 16)
	for _, k := range kinds {
		d, err := catalog.Lookup(k)
		if err != nil {
			return nil, err
		}

		query := fmt.Sprintf(`SELECT %s, project_id FROM %s`, ident(d.IDColumn), ident(d.Table))
		var args []any
		if nameContains != "" {
			query += fmt.Sprintf(` WHERE %s LIKE ? ESCAPE '\'`, ident(d.IDColumn))
			args = append(args, "%"+escapeLike(nameContains)+"%")
		}
		query += fmt.Sprintf(` ORDER BY project_id, %s`, ident(d.IDColumn))

		refs, err := q.scanRefs(ctx, k, q.rebind(query), args...)
		if err != nil {
			return nil, err
		}
		out = append(out, refs...)
	}
	return out, nil
}

func (q *queries) scanRefs(ctx context.Context, k domain.Kind, query string, args ...any) ([]domain.ResourceRef, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapf(err, "list %s names", k)
	}
	defer rows.Close()

	var out []domain.ResourceRef
	for rows.Next() {
		ref := domain.ResourceRef{Kind: k, Type: k.String()}
		if err := rows.Scan(&ref.Name, &ref.Project); err != nil {
			return nil, wrapf(err, "scan %s names", k)
		}
		out = append(out, ref)
	}
	return out, wrapf(rows.Err(), "list %s names", k)
}

// ListProjects returns the distinct project ids present in any resource table.
func (q *queries) ListProjects(ctx context.Context) ([]string, error) {
	parts := make([]string, 0, len(catalog.Tables()))
	for _, table := range catalog.Tables() {
		parts = append(parts, fmt.Sprintf(`SELECT project_id FROM %s`, ident(table)))
	}
	query := strings.Join(parts, "\nUNION\n") + "\nORDER BY project_id"

	rows, err := q.q.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapf(err, "list projects")
	}
	defer rows.Close()

	out := make([]string, 0, 8)
	for rows.Next() {
		var project string
		if err := rows.Scan(&project); err != nil {
			return nil, wrapf(err, "scan project")
		}
		out = append(out, project)
	}
	return out, wrapf(rows.Err(), "list projects")
}

// Teardown deletes every row of every resource table. Project metadata is kept.
func (q *queries) Teardown(ctx context.Context) error {
	for _, table := range catalog.Tables() {
		if _, err := q.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, ident(table))); err != nil {
			return wrapf(err, "teardown %s", table)
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
