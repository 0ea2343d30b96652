package storage_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/niksmo/minizon/internal/adapter/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLStorage(t *testing.T) (storage.SQLStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewSQLStorage(db), mock
}

func TestSQLStorage(t *testing.T) {
	selectQuery := regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1;`)

	t.Run("Get", func(t *testing.T) {
		s, mock := newSQLStorage(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("minizon-cart").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))

		v, err := s.Get(t.Context(), "minizon-cart")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetMissing", func(t *testing.T) {
		s, mock := newSQLStorage(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("minizon-cart").
			WillReturnError(sql.ErrNoRows)

		_, err := s.Get(t.Context(), "minizon-cart")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Set", func(t *testing.T) {
		s, mock := newSQLStorage(t)
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("minizon-cart", `[]`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Set(t.Context(), "minizon-cart", []byte(`[]`)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SetFailed", func(t *testing.T) {
		s, mock := newSQLStorage(t)
		errDB := errors.New("connection refused")
		mock.ExpectExec("INSERT INTO kv_store").WillReturnError(errDB)

		err := s.Set(t.Context(), "minizon-cart", []byte(`[]`))
		assert.ErrorIs(t, err, errDB)
	})

	t.Run("Delete", func(t *testing.T) {
		s, mock := newSQLStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1;`)).
			WithArgs("minizon-cart").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(t.Context(), "minizon-cart"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
