package documentsstore

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGetByID_NotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "documentos"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := NewInstance(gormDB).GetByID(12)
	require.NoError(t, err)
	require.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OwnerScope(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM "documentos" JOIN tramites ON tramites.id = documentos.tramite_id WHERE tramites.user_id = .* AND documentos.tramite_id = .* ORDER BY documentos.uploaded_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := NewInstance(gormDB).List(ListFilter{OwnerID: 3, TramiteID: 9})
	require.NoError(t, err)
	require.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}
