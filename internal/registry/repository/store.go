package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zeebo/errs"
)

// Error wraps every backing store failure with a stack trace.
var Error = errs.Class("registry store")

// Dialect selects placeholder syntax and bootstrap DDL.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Option configures a Store.
type Option func(*Store)

// WithMonotonicLastUpdated refuses to move LAST_UPDATED_TIMESTAMP backwards.
func WithMonotonicLastUpdated(enabled bool) Option {
	return func(s *Store) { s.monotonic = enabled }
}

// WithUUIDGenerator replaces the project identity generator.
func WithUUIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newUUID = fn }
}

// queries holds every statement; it runs against a pool or a transaction.
type queries struct {
	q         DBTX
	dialect   Dialect
	monotonic bool
	newUUID   func() string
}

// Store is the registry's view of the relational backing store.
type Store struct {
	queries
	db *sql.DB
}

// Tx runs statements inside one database transaction.
type Tx struct {
	queries
}

// NewStore creates a Store over db.
func NewStore(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{db: db}
	s.q = db
	s.dialect = dialect
	s.newUUID = func() string { return uuid.New().String() }
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect reports which SQL dialect the store speaks.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// InTx runs fn in a transaction, committing only when fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapf(err, "begin tx")
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	tx := &Tx{queries: s.queries}
	tx.q = sqlTx

	if err = fn(tx); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return wrapf(err, "commit tx")
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return Error.Wrap(s.db.PingContext(ctx))
}

// rebind rewrites ? placeholders for the dialect.
func (q *queries) rebind(query string) string {
	if q.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// wrapf annotates a driver error and classifies it as a store failure.
func wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Error.Wrap(fmt.Errorf(format+": %w", append(args, err)...))
}

func ident(name string) string {
	return pq.QuoteIdentifier(name)
}

// nonNil keeps empty payloads from being bound as SQL NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
