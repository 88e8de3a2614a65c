package repository

import (
	"context"
	"embed"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EnsureSchema creates any missing registry table. It is idempotent and never
// alters existing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl, err := schemaFS.ReadFile("schema/" + string(s.dialect) + ".sql")
	if err != nil {
		return Error.New("no schema for dialect %q", s.dialect)
	}

	for _, stmt := range splitStatements(string(ddl)) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return wrapf(err, "apply schema")
		}
	}
	return nil
}

func splitStatements(ddl string) []string {
	var out []string
	for _, part := range strings.Split(ddl, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
