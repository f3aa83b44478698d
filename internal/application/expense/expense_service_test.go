package expense

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/krodas7/constructora-backend/internal/domain/audit"
	"github.com/krodas7/constructora-backend/internal/domain/expense"
	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

type fixture struct {
	db      *gorm.DB
	svc     *Service
	project *project.Project
}

func newFixture(t *testing.T) *fixture {
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

	svc := NewService(db, persistence.NewGormExpenseRepository(db), persistence.NewGormAuditRepository(db))
	return &fixture{db: db, svc: svc, project: proj}
}

func (f *fixture) createExpense(t *testing.T, amount string) *expense.Expense {
	t.Helper()
	ctx := context.Background()
	category, err := f.svc.CreateCategory(ctx, "Materiales", "", "#ff0000")
	require.NoError(t, err)

	e, err := f.svc.Create(ctx, CreateRequest{
		ProjectID:   f.project.ID,
		CategoryID:  category.ID,
		Description: "Cemento y varilla",
		Amount:      decimal.RequireFromString(amount),
		IncurredAt:  time.Now(),
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) projectSpent(t *testing.T) decimal.Decimal {
	t.Helper()
	proj, err := persistence.NewGormProjectRepository(f.db).FindByID(context.Background(), f.project.ID)
	require.NoError(t, err)
	return proj.Spent
}

func TestExpenseService_Create_RejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		ProjectID:   f.project.ID,
		CategoryID:  uuid.New(),
		Description: "Cemento",
		Amount:      decimal.NewFromInt(100),
		IncurredAt:  time.Now(),
	})
	assert.Error(t, err)
}

func TestExpenseService_Approve_AddsAmountToProjectSpent(t *testing.T) {
	f := newFixture(t)
	e := f.createExpense(t, "1250.75")
	actor := Actor{UserID: uuid.New(), IP: "10.0.0.1", UserAgent: "test"}

	approved, err := f.svc.Approve(context.Background(), e.ID, actor)
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, actor.UserID, *approved.ApprovedBy)

	assert.True(t, f.projectSpent(t).Equal(decimal.RequireFromString("1250.75")),
		"spent = %s", f.projectSpent(t))

	var logs int64
	require.NoError(t, f.db.Model(&audit.Entry{}).Where("action = ?", "expense_approved").Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}

func TestExpenseService_Approve_Twice_Fails(t *testing.T) {
	f := newFixture(t)
	e := f.createExpense(t, "100.00")
	actor := Actor{UserID: uuid.New()}
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, e.ID, actor)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, e.ID, actor)
	assert.Error(t, err)
	// The failed second approval must not touch the running total
	assert.True(t, f.projectSpent(t).Equal(decimal.RequireFromString("100")))
}

func TestExpenseService_Disapprove_RestoresProjectSpentExactly(t *testing.T) {
	f := newFixture(t)
	e := f.createExpense(t, "3333.33")
	actor := Actor{UserID: uuid.New()}
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, e.ID, actor)
	require.NoError(t, err)

	reverted, err := f.svc.Disapprove(ctx, e.ID, actor)
	require.NoError(t, err)
	assert.False(t, reverted.Approved)
	assert.Nil(t, reverted.ApprovedBy)
	assert.True(t, f.projectSpent(t).IsZero(), "spent = %s", f.projectSpent(t))
}

func TestExpenseService_Delete_RefusesApprovedExpense(t *testing.T) {
	f := newFixture(t)
	e := f.createExpense(t, "100.00")
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, e.ID, Actor{UserID: uuid.New()})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, e.ID)
	assert.Error(t, err)

	_, err = f.svc.Disapprove(ctx, e.ID, Actor{UserID: uuid.New()})
	require.NoError(t, err)
	assert.NoError(t, f.svc.Delete(ctx, e.ID))
}

func TestExpenseService_List_FiltersByApproval(t *testing.T) {
	f := newFixture(t)
	e := f.createExpense(t, "200.00")
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, e.ID, Actor{UserID: uuid.New()})
	require.NoError(t, err)

	approved := true
	page, err := f.svc.List(ctx, expense.Filter{Approved: &approved})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	notApproved := false
	page, err = f.svc.List(ctx, expense.Filter{Approved: &notApproved})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}
