package usersstore

import (
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
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

func TestCreate_NormalizesEmail(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO "usuarios"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	rec := &dbmodels.User{
		Name:   "Ana",
		Email:  "  Ana@Example.COM ",
		Role:   models.EmployeeRole,
		Status: models.StatusActive,
	}
	id, err := NewInstance(gormDB).Create(rec)
	require.NoError(t, err)
	require.Equal(t, uint(11), id)
	require.Equal(t, "ana@example.com", rec.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "usuarios"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := NewInstance(gormDB).FindByEmail("nadie@example.com")
	require.NoError(t, err)
	require.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistByEmail(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "usuarios"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exist, err := NewInstance(gormDB).ExistByEmail("ana@example.com")
	require.NoError(t, err)
	require.True(t, exist)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetList_ManagerScope(t *testing.T) {
	gormDB, mock := newMockDB(t)
	deptID := uint(4)
	mock.ExpectQuery(`SELECT \* FROM "usuarios" WHERE department_id = .* AND role = .* ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).AddRow(5, "Luis", 3))

	list, err := NewInstance(gormDB).GetList(ListFilter{DepartmentID: &deptID, Role: models.EmployeeRole})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Luis", list[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
