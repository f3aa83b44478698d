package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openMockDB wires GORM to a sqlmock connection so aggregate queries can be
// exercised against the postgres dialect without a server.
func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormDashboardRepository_SumInvoiceTotals(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewGormDashboardRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total\), 0\) AS total FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("77500.00"))

	total, err := repo.SumInvoiceTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "77500", total.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDashboardRepository_SumOutstanding_FiltersSettled(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewGormDashboardRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(outstanding\), 0\) AS total FROM "invoices" WHERE status NOT IN`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("1200.50"))

	total, err := repo.SumOutstanding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1200.5", total.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDashboardRepository_CountOverdueInvoices(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewGormDashboardRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE due_at <`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountOverdueInvoices(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDashboardRepository_PropagatesQueryErrors(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewGormDashboardRepository(db)

	queryErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT`).WillReturnError(queryErr)

	_, err := repo.SumPaidInvoiceTotals(context.Background())
	assert.ErrorIs(t, err, queryErr)
}
