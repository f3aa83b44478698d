package persistence

import (
	"context"
	"fmt"
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
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// Shared-cache memory DBs persist per connection; keep one per test
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedClientAndProject(t *testing.T, db *gorm.DB) (*partner.Client, *project.Project) {
	t.Helper()
	client, err := partner.NewClient("Constructora Norte", "12345678-9")
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Save(context.Background(), client))

	p, err := project.NewProject("Edificio Central", client.ID, decimal.NewFromInt(500000))
	require.NoError(t, err)
	require.NoError(t, NewGormProjectRepository(db).Save(context.Background(), p))
	return client, p
}

func TestGormClientRepository_SaveAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	client, err := partner.NewClient("Obras del Sur", "98765432-1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, client))

	found, err := repo.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obras del Sur", found.Name)
	assert.True(t, found.Active)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormClientRepository_DeleteIsSoft(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	client, err := partner.NewClient("Obras del Sur", "98765432-1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, client))
	require.NoError(t, repo.Delete(ctx, client.ID))

	found, err := repo.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormClientRepository_FindByIDNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormClientRepository(db)

	client, err := partner.NewClient("Fantasma", "00000000-0")
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), client.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_NextNumber(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	_, proj := seedClientAndProject(t, db)

	first, err := repo.NextNumber(ctx)
	require.NoError(t, err)
	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("FAC-%d-001", year), first)

	inv, err := billing.NewInvoice(first, proj.ID, proj.ClientID, billing.InvoiceTypeProgress,
		decimal.NewFromInt(1000), decimal.NewFromInt(120), time.Now(), time.Now().AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	second, err := repo.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FAC-%d-002", year), second)
}

func TestGormInvoiceRepository_FindOverdueCandidates(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	_, proj := seedClientAndProject(t, db)
	now := time.Now()

	pastDue, err := billing.NewInvoice("FAC-2026-001", proj.ID, proj.ClientID, billing.InvoiceTypeProgress,
		decimal.NewFromInt(1000), decimal.Zero, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
	require.NoError(t, err)
	require.NoError(t, pastDue.Issue())
	require.NoError(t, repo.Save(ctx, pastDue))

	current, err := billing.NewInvoice("FAC-2026-002", proj.ID, proj.ClientID, billing.InvoiceTypeProgress,
		decimal.NewFromInt(1000), decimal.Zero, now, now.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, current.Issue())
	require.NoError(t, repo.Save(ctx, current))

	draft, err := billing.NewInvoice("FAC-2026-003", proj.ID, proj.ClientID, billing.InvoiceTypeProgress,
		decimal.NewFromInt(1000), decimal.Zero, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, draft))

	candidates, err := repo.FindOverdueCandidates(ctx, now)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "FAC-2026-001", candidates[0].Number)
}

func TestGormAdvanceRepository_SaveWithApplications(t *testing.T) {
	db := openTestDB(t)
	advRepo := NewGormAdvanceRepository(db)
	invRepo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	_, proj := seedClientAndProject(t, db)
	now := time.Now()

	adv, err := billing.NewAdvance("ANT-2026-001", proj.ClientID, proj.ID, billing.AdvanceTypeWork,
		decimal.NewFromInt(10000), now)
	require.NoError(t, err)

	inv, err := billing.NewInvoice("FAC-2026-001", proj.ID, proj.ClientID, billing.InvoiceTypeProgress,
		decimal.NewFromInt(6000), decimal.Zero, now, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, inv.Issue())

	app, err := adv.ApplyToInvoice(inv, decimal.NewFromInt(6000), now)
	require.NoError(t, err)

	require.NoError(t, invRepo.Save(ctx, inv))
	require.NoError(t, advRepo.Save(ctx, adv))
	require.NoError(t, advRepo.SaveApplication(ctx, app))

	apps, err := advRepo.FindApplications(ctx, adv.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.True(t, apps[0].Amount.Equal(decimal.NewFromInt(6000)))

	reloaded, err := advRepo.FindByID(ctx, adv.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Available.Equal(decimal.NewFromInt(4000)))
}

func TestGormDashboardRepository_CollectedTotals(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	invRepo := NewGormInvoiceRepository(db)
	advRepo := NewGormAdvanceRepository(db)
	dash := NewGormDashboardRepository(db)
	_, proj := seedClientAndProject(t, db)
	now := time.Now()

	// Paid invoice worth 50000 + 7500 tax
	paid, err := billing.NewInvoice("FAC-2026-001", proj.ID, proj.ClientID, billing.InvoiceTypeProgress,
		decimal.NewFromInt(50000), decimal.NewFromInt(7500), now, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, paid.Issue())
	require.NoError(t, paid.RegisterPayment(decimal.NewFromInt(57500), now))
	require.NoError(t, invRepo.Save(ctx, paid))

	// Unpaid invoice that must not count as collected
	open, err := billing.NewInvoice("FAC-2026-002", proj.ID, proj.ClientID, billing.InvoiceTypeProgress,
		decimal.NewFromInt(10000), decimal.Zero, now, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, open.Issue())
	require.NoError(t, invRepo.Save(ctx, open))

	// Advance applied directly to the project
	adv, err := billing.NewAdvance("ANT-2026-001", proj.ClientID, proj.ID, billing.AdvanceTypeWork,
		decimal.NewFromInt(30000), now)
	require.NoError(t, err)
	require.NoError(t, adv.ApplyToProject(decimal.NewFromInt(20000), now))
	require.NoError(t, advRepo.Save(ctx, adv))

	invoiced, err := dash.SumInvoiceTotals(ctx)
	require.NoError(t, err)
	assert.True(t, invoiced.Equal(decimal.NewFromInt(67500)), "got %s", invoiced)

	paidTotal, err := dash.SumPaidInvoiceTotals(ctx)
	require.NoError(t, err)
	assert.True(t, paidTotal.Equal(decimal.NewFromInt(57500)), "got %s", paidTotal)

	applied, err := dash.SumAdvancesAppliedToProject(ctx)
	require.NoError(t, err)
	assert.True(t, applied.Equal(decimal.NewFromInt(20000)), "got %s", applied)

	// Collected = paid invoices + advances applied to project
	collected := paidTotal.Add(applied)
	assert.True(t, collected.Equal(decimal.NewFromInt(77500)), "got %s", collected)

	outstanding, err := dash.SumOutstanding(ctx)
	require.NoError(t, err)
	assert.True(t, outstanding.Equal(decimal.NewFromInt(10000)), "got %s", outstanding)
}
