package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/catalog"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
)

func setupPostgresStore(t *testing.T, opts ...Option) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewStore(db, Postgres, opts...), mock
}

func TestRebind(t *testing.T) {
	pg := &queries{dialect: Postgres}
	lite := &queries{dialect: SQLite}

	query := `SELECT a FROM t WHERE b = ? AND c = ?`
	assert.Equal(t, `SELECT a FROM t WHERE b = $1 AND c = $2`, pg.rebind(query))
	assert.Equal(t, query, lite.rebind(query))
}

func TestStore_UpsertResource_Postgres(t *testing.T) {
	store, mock := setupPostgresStore(t)
	d := catalog.MustLookup(domain.KindEntity)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "entities" ("entity_name", "entity_proto", last_updated_timestamp, project_id) VALUES ($1, $2, $3, $4) ON CONFLICT ("entity_name", project_id) DO UPDATE SET "entity_proto" = $5`)).
		WithArgs("driver", []byte("stamped"), int64(1700000000), "p1", []byte("raw")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpsertResource(context.Background(), d, "p1", "driver", []byte("stamped"), []byte("raw"), 1700000000)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteResource_Postgres(t *testing.T) {
	d := catalog.MustLookup(domain.KindFeatureService)
	query := regexp.QuoteMeta(`DELETE FROM "feature_services" WHERE "feature_service_name" = $1 AND project_id = $2`)

	t.Run("returns affected rows", func(t *testing.T) {
		store, mock := setupPostgresStore(t)
		mock.ExpectExec(query).
			WithArgs("svc", "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		n, err := store.DeleteResource(context.Background(), d, "p1", "svc")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		store, mock := setupPostgresStore(t)
		mock.ExpectExec(query).
			WithArgs("svc", "p1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := store.DeleteResource(context.Background(), d, "p1", "svc")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, "Feature service svc does not exist in project p1", err.Error())
	})

	t.Run("driver failure is a store error", func(t *testing.T) {
		store, mock := setupPostgresStore(t)
		mock.ExpectExec(query).
			WithArgs("svc", "p1").
			WillReturnError(errors.New("connection reset"))

		_, err := store.DeleteResource(context.Background(), d, "p1", "svc")
		require.Error(t, err)
		assert.True(t, Error.Has(err))
		assert.False(t, domain.IsNotFound(err))
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestStore_TouchLastUpdated_Postgres(t *testing.T) {
	t.Run("unguarded overwrite", func(t *testing.T) {
		store, mock := setupPostgresStore(t)
		mock.ExpectExec(`INSERT INTO feast_metadata .* DO UPDATE SET metadata_value = EXCLUDED.metadata_value, last_updated_timestamp = EXCLUDED.last_updated_timestamp$`).
			WithArgs("p1", domain.MetadataLastUpdatedTS, "1700000000", int64(1700000000)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.TouchLastUpdated(context.Background(), "p1", 1700000000))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("monotonic guard", func(t *testing.T) {
		store, mock := setupPostgresStore(t, WithMonotonicLastUpdated(true))
		mock.ExpectExec(regexp.QuoteMeta(`WHERE feast_metadata.last_updated_timestamp <= EXCLUDED.last_updated_timestamp`)).
			WithArgs("p1", domain.MetadataLastUpdatedTS, "5", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, store.TouchLastUpdated(context.Background(), "p1", 5))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_GetUserMetadata_Postgres(t *testing.T) {
	store, mock := setupPostgresStore(t)
	d := catalog.MustLookup(domain.KindFeatureView)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "user_metadata" FROM "feature_views" WHERE "feature_view_name" = $1 AND project_id = $2`)).
		WithArgs("fv", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"user_metadata"}).AddRow(nil))

	got, err := store.GetUserMetadata(context.Background(), d, "p1", "fv")
	require.NoError(t, err)
	assert.Equal(t, []byte{}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		store, mock := setupPostgresStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "entities"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.InTx(context.Background(), func(tx *Tx) error {
			_, err := tx.DeleteResource(context.Background(), catalog.MustLookup(domain.KindEntity), "p1", "e")
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		store, mock := setupPostgresStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.InTx(context.Background(), func(tx *Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n-- next\nCREATE TABLE b (y INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, stmts)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\_b\%c\\d`, escapeLike(`a_b%c\d`))
}
