package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/surveyhq/survey-management-api/internal/access"
	"github.com/surveyhq/survey-management-api/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// The tenancy rule lives in the SQL the scope emits, so this test pins
// its shape: every scoped employee query joins organizations and
// filters on both the tenant id and the archived flag.
func TestEmployeeList_ScopeSQLShape(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	caller := access.Caller{AdminID: 1, OrganizationID: 7}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `employees` JOIN organizations ON organizations\\.id = employees\\.organization_id WHERE employees\\.organization_id = \\? AND organizations\\.archived = \\?").
		WithArgs(uint64(7), false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT (.+) FROM `employees` JOIN organizations ON organizations\\.id = employees\\.organization_id WHERE employees\\.organization_id = \\? AND organizations\\.archived = \\?").
		WithArgs(uint64(7), false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "organization_id"}).
			AddRow(1, "alice@acme.example", 7))

	repo := NewEmployeeRepository(db)
	employees, total, err := repo.List(access.Scope(access.EntityEmployee, caller), utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, employees, 1)
	require.Equal(t, uint64(7), employees[0].OrganizationID)

	require.NoError(t, mock.ExpectationsWereMet())
}

// Superusers bypass the scope entirely: no join, no tenant filter.
func TestEmployeeList_SuperuserScopeBypassed(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	caller := access.Caller{AdminID: 2, Superuser: true}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `employees` WHERE `employees`\\.`deleted_at` IS NULL").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery("SELECT (.+) FROM `employees` WHERE `employees`\\.`deleted_at` IS NULL").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewEmployeeRepository(db)
	_, total, err := repo.List(access.Scope(access.EntityEmployee, caller), utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Zero(t, total)

	require.NoError(t, mock.ExpectationsWereMet())
}
