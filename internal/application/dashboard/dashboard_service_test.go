package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/expense"
	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/infrastructure/cache"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

type dashFixture struct {
	db      *gorm.DB
	svc     *Service
	client  *partner.Client
	project *project.Project
	now     time.Time
}

func newDashFixture(t *testing.T) *dashFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	ctx := context.Background()
	client, err := partner.NewClient("Constructora Norte", "12345678-9")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormClientRepository(db).Save(ctx, client))

	proj, err := project.NewProject("Edificio Central", client.ID, decimal.NewFromInt(500000))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProjectRepository(db).Save(ctx, proj))

	svc := NewService(
		persistence.NewGormDashboardRepository(db),
		persistence.NewGormClientRepository(db),
		persistence.NewGormProjectRepository(db),
		cache.NewInMemoryStore(),
		zap.NewNop(),
	)
	// Pin time so calendar-month bucketing is deterministic
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &dashFixture{db: db, svc: svc, client: client, project: proj, now: now}
}

func (f *dashFixture) seedPaidInvoice(t *testing.T, number, subtotal, tax string, issuedAt time.Time) *billing.Invoice {
	t.Helper()
	ctx := context.Background()
	invoice, err := billing.NewInvoice(number, f.project.ID, f.client.ID, billing.InvoiceTypeProgress,
		decimal.RequireFromString(subtotal), decimal.RequireFromString(tax), issuedAt, issuedAt.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, invoice.Issue())
	require.NoError(t, invoice.RegisterPayment(invoice.Total, issuedAt))
	require.NoError(t, persistence.NewGormInvoiceRepository(f.db).Save(ctx, invoice))
	return invoice
}

func (f *dashFixture) seedApprovedExpense(t *testing.T, amount string, incurredAt time.Time) {
	t.Helper()
	ctx := context.Background()
	repo := persistence.NewGormExpenseRepository(f.db)

	category, err := expense.NewCategory("Materiales")
	require.NoError(t, err)
	require.NoError(t, repo.SaveCategory(ctx, category))

	e, err := expense.NewExpense(f.project.ID, category.ID, "Cemento", decimal.RequireFromString(amount), incurredAt)
	require.NoError(t, err)
	require.NoError(t, e.Approve(uuid.New()))
	require.NoError(t, repo.Save(ctx, e))
}

func TestDashboardService_Get_AggregatesTotals(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()

	f.seedPaidInvoice(t, "FAC-0001", "50000.00", "7500.00", f.now) // total 57500, fully paid
	f.seedApprovedExpense(t, "1000.00", f.now)

	// An advance applied straight to the project counts as collected
	advance, err := billing.NewAdvance("ANT-0001", f.client.ID, f.project.ID,
		billing.AdvanceTypeWork, decimal.RequireFromString("20000.00"), f.now)
	require.NoError(t, err)
	require.NoError(t, advance.ApplyToProject(decimal.RequireFromString("20000.00"), f.now))
	require.NoError(t, persistence.NewGormAdvanceRepository(f.db).Save(ctx, advance))

	data := f.svc.Get(ctx, 6)

	assert.True(t, data.TotalInvoiced.Equal(decimal.RequireFromString("57500")), "invoiced = %s", data.TotalInvoiced)
	assert.True(t, data.TotalCollected.Equal(decimal.RequireFromString("77500")), "collected = %s", data.TotalCollected)
	assert.True(t, data.TotalOutstanding.IsZero())
	assert.Equal(t, int64(1), data.ActiveClients)
	assert.Equal(t, int64(1), data.ActiveProjects)
	assert.Equal(t, int64(0), data.OverdueInvoices)

	require.Len(t, data.Profitability, 1)
	top := data.Profitability[0]
	assert.Equal(t, "Edificio Central", top.ProjectName)
	assert.True(t, top.Profit.Equal(decimal.RequireFromString("56500")), "profit = %s", top.Profit)

	require.Len(t, data.ExpensesByCategory, 1)
	assert.Equal(t, "Materiales", data.ExpensesByCategory[0].Name)
}

func TestDashboardService_Get_AdvanceSettledInvoiceCountsAsRevenue(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()

	// Invoice fully settled by an advance application: the money sits in
	// advance_applied, not paid, and must still show up as collected revenue.
	invoice, err := billing.NewInvoice("FAC-0001", f.project.ID, f.client.ID, billing.InvoiceTypeProgress,
		decimal.RequireFromString("50000.00"), decimal.RequireFromString("7500.00"), f.now, f.now.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, invoice.Issue())

	advance, err := billing.NewAdvance("ANT-0001", f.client.ID, f.project.ID,
		billing.AdvanceTypeWork, decimal.RequireFromString("57500.00"), f.now)
	require.NoError(t, err)
	_, err = advance.ApplyToInvoice(invoice, decimal.RequireFromString("57500.00"), f.now)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormInvoiceRepository(f.db).Save(ctx, invoice))
	require.NoError(t, persistence.NewGormAdvanceRepository(f.db).Save(ctx, advance))

	data := f.svc.Get(ctx, 6)

	assert.True(t, data.TotalCollected.Equal(decimal.RequireFromString("57500")), "collected = %s", data.TotalCollected)

	require.Len(t, data.Profitability, 1)
	assert.True(t, data.Profitability[0].Revenue.Equal(decimal.RequireFromString("57500")),
		"revenue = %s", data.Profitability[0].Revenue)

	require.Len(t, data.Monthly, 6)
	current := data.Monthly[5]
	assert.True(t, current.Collected.Equal(decimal.RequireFromString("57500")), "monthly collected = %s", current.Collected)
	assert.True(t, current.Invoiced.Equal(decimal.RequireFromString("57500")))
}

func TestDashboardService_Get_BucketsCalendarMonths(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()

	f.seedPaidInvoice(t, "FAC-0001", "10000.00", "0.00", f.now)                  // March 2026
	f.seedPaidInvoice(t, "FAC-0002", "2000.00", "0.00", f.now.AddDate(0, -1, 0)) // February 2026
	f.seedApprovedExpense(t, "300.00", f.now.AddDate(0, -2, 0))                  // January 2026

	data := f.svc.Get(ctx, 3)

	require.Len(t, data.Monthly, 3)
	assert.Equal(t, "2026-01", data.Monthly[0].Month)
	assert.Equal(t, "2026-02", data.Monthly[1].Month)
	assert.Equal(t, "2026-03", data.Monthly[2].Month)

	assert.True(t, data.Monthly[0].Expenses.Equal(decimal.RequireFromString("300")))
	assert.True(t, data.Monthly[0].Invoiced.IsZero())
	assert.True(t, data.Monthly[1].Invoiced.Equal(decimal.RequireFromString("2000")))
	assert.True(t, data.Monthly[2].Invoiced.Equal(decimal.RequireFromString("10000")))
	assert.True(t, data.Monthly[2].Collected.Equal(decimal.RequireFromString("10000")))
}

func TestDashboardService_Get_UnsupportedWindowFallsBackToSix(t *testing.T) {
	f := newDashFixture(t)

	data := f.svc.Get(context.Background(), 12)
	assert.Len(t, data.Monthly, 6)
}

func TestDashboardService_Get_ServesCachedSnapshot(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()

	first := f.svc.Get(ctx, 6)
	assert.True(t, first.TotalInvoiced.IsZero())

	// New data lands after the snapshot was cached; within the TTL the
	// dashboard keeps serving the cached zeros.
	f.seedPaidInvoice(t, "FAC-0001", "10000.00", "0.00", f.now)
	second := f.svc.Get(ctx, 6)
	assert.True(t, second.TotalInvoiced.IsZero())
}

func TestDashboardService_Get_EmptySnapshotOnFailure(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()

	// Dropping the invoices table makes aggregation fail
	require.NoError(t, f.db.Migrator().DropTable(&billing.Invoice{}))

	data := f.svc.Get(ctx, 6)
	assert.True(t, data.TotalInvoiced.IsZero())
	assert.True(t, data.TotalCollected.IsZero())
	assert.Empty(t, data.Profitability)
	assert.Empty(t, data.Monthly)
}
