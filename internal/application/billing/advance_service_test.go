package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

type advanceFixture struct {
	db      *gorm.DB
	svc     *AdvanceService
	client  *partner.Client
	project *project.Project
}

func newAdvanceFixture(t *testing.T) *advanceFixture {
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

	svc := NewAdvanceService(db, persistence.NewGormAdvanceRepository(db), persistence.NewGormProjectRepository(db))
	return &advanceFixture{db: db, svc: svc, client: client, project: proj}
}

func (f *advanceFixture) createAdvance(t *testing.T, amount string) *billing.Advance {
	t.Helper()
	advance, err := f.svc.Create(context.Background(), CreateAdvanceRequest{
		ProjectID:  f.project.ID,
		Type:       string(billing.AdvanceTypeWork),
		Amount:     decimal.RequireFromString(amount),
		ReceivedAt: time.Now(),
	})
	require.NoError(t, err)
	return advance
}

func (f *advanceFixture) createIssuedInvoice(t *testing.T, subtotal, tax string) *billing.Invoice {
	t.Helper()
	now := time.Now()
	invoice, err := billing.NewInvoice("FAC-0001", f.project.ID, f.client.ID, billing.InvoiceTypeProgress,
		decimal.RequireFromString(subtotal), decimal.RequireFromString(tax), now, now.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, invoice.Issue())
	require.NoError(t, persistence.NewGormInvoiceRepository(f.db).Save(context.Background(), invoice))
	return invoice
}

func TestAdvanceService_Create_FullAmountAvailable(t *testing.T) {
	f := newAdvanceFixture(t)

	advance := f.createAdvance(t, "10000.00")
	assert.Equal(t, billing.AdvanceStatusPending, advance.Status)
	assert.NotEmpty(t, advance.Number)
	assert.Equal(t, f.client.ID, advance.ClientID)
	assert.True(t, advance.Available.Equal(decimal.RequireFromString("10000.00")))
}

func TestAdvanceService_ApplyToInvoice_UpdatesBothSidesAndRecords(t *testing.T) {
	f := newAdvanceFixture(t)
	advance := f.createAdvance(t, "10000.00")
	invoice := f.createIssuedInvoice(t, "7000.00", "500.00") // total 7500
	ctx := context.Background()

	updated, err := f.svc.ApplyToInvoice(ctx, advance.ID, invoice.ID, decimal.RequireFromString("3000.00"))
	require.NoError(t, err)
	assert.True(t, updated.Available.Equal(decimal.RequireFromString("7000")))
	assert.Equal(t, billing.AdvanceStatusPending, updated.Status)

	reloaded, err := persistence.NewGormInvoiceRepository(f.db).FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.AdvanceApplied.Equal(decimal.RequireFromString("3000")))
	assert.True(t, reloaded.Outstanding.Equal(decimal.RequireFromString("4500")))

	applications, err := f.svc.Applications(ctx, advance.ID)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, invoice.ID, applications[0].InvoiceID)
	assert.True(t, applications[0].Amount.Equal(decimal.RequireFromString("3000")))
}

func TestAdvanceService_ApplyToInvoice_RejectsOverdraw(t *testing.T) {
	f := newAdvanceFixture(t)
	advance := f.createAdvance(t, "1000.00")
	invoice := f.createIssuedInvoice(t, "7000.00", "500.00")
	ctx := context.Background()

	_, err := f.svc.ApplyToInvoice(ctx, advance.ID, invoice.ID, decimal.RequireFromString("1500.00"))
	assert.ErrorIs(t, err, shared.ErrInsufficientBalance)

	// Nothing may be written when the application fails
	reloaded, err := f.svc.Get(ctx, advance.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Available.Equal(decimal.RequireFromString("1000.00")))
	applications, err := f.svc.Applications(ctx, advance.ID)
	require.NoError(t, err)
	assert.Empty(t, applications)
}

func TestAdvanceService_ApplyToInvoice_SettlesInvoiceWhenCovered(t *testing.T) {
	f := newAdvanceFixture(t)
	advance := f.createAdvance(t, "10000.00")
	invoice := f.createIssuedInvoice(t, "7000.00", "500.00")
	ctx := context.Background()

	_, err := f.svc.ApplyToInvoice(ctx, advance.ID, invoice.ID, decimal.RequireFromString("7500.00"))
	require.NoError(t, err)

	reloaded, err := persistence.NewGormInvoiceRepository(f.db).FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, reloaded.Status)
	assert.True(t, reloaded.Outstanding.IsZero())
	assert.NotNil(t, reloaded.PaidAt)
}

func TestAdvanceService_ApplyToProject_SettlesWhenExhausted(t *testing.T) {
	f := newAdvanceFixture(t)
	advance := f.createAdvance(t, "5000.00")
	ctx := context.Background()

	updated, err := f.svc.ApplyToProject(ctx, advance.ID, decimal.RequireFromString("2000.00"))
	require.NoError(t, err)
	assert.Equal(t, billing.AdvanceStatusPending, updated.Status)
	assert.True(t, updated.ProjectApplied)
	assert.NotNil(t, updated.AppliedAt)

	updated, err = f.svc.ApplyToProject(ctx, advance.ID, decimal.RequireFromString("3000.00"))
	require.NoError(t, err)
	assert.Equal(t, billing.AdvanceStatusSettled, updated.Status)
	assert.True(t, updated.Available.IsZero())
}

func TestAdvanceService_Cancel_RefusesPartiallyApplied(t *testing.T) {
	f := newAdvanceFixture(t)
	advance := f.createAdvance(t, "5000.00")
	ctx := context.Background()

	_, err := f.svc.ApplyToProject(ctx, advance.ID, decimal.RequireFromString("1000.00"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, advance.ID)
	assert.Error(t, err)
}

func TestAdvanceService_Refund_ZeroesAvailability(t *testing.T) {
	f := newAdvanceFixture(t)
	advance := f.createAdvance(t, "5000.00")

	refunded, err := f.svc.Refund(context.Background(), advance.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.AdvanceStatusRefunded, refunded.Status)
	assert.True(t, refunded.Available.IsZero())
}
