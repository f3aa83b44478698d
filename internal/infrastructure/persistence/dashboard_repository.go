package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/reporting"
)

// GormDashboardRepository implements reporting.Repository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// sumRow receives a single COALESCE(SUM(...)) scan
type sumRow struct {
	Total decimal.Decimal
}

// SumInvoiceTotals sums the total of every invoice
func (r *GormDashboardRepository) SumInvoiceTotals(ctx context.Context) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

// SumPaidInvoiceTotals sums the total of paid invoices
func (r *GormDashboardRepository) SumPaidInvoiceTotals(ctx context.Context) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status = ?", billing.InvoiceStatusPaid).
		Scan(&row).Error
	return row.Total, err
}

// SumAdvancesAppliedToProject sums the amounts advances applied directly to
// projects. Amounts applied to invoices are excluded by definition; only the
// applied-to-project column is summed.
func (r *GormDashboardRepository) SumAdvancesAppliedToProject(ctx context.Context) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&billing.Advance{}).
		Select("COALESCE(SUM(applied_to_project), 0) AS total").
		Where("project_applied = ?", true).
		Scan(&row).Error
	return row.Total, err
}

// SumOutstanding sums the outstanding balance of unsettled invoices
func (r *GormDashboardRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("COALESCE(SUM(outstanding), 0) AS total").
		Where("status NOT IN ?", []billing.InvoiceStatus{
			billing.InvoiceStatusPaid,
			billing.InvoiceStatusCancelled,
		}).
		Scan(&row).Error
	return row.Total, err
}

// CountOverdueInvoices counts unsettled, non-draft invoices past due
func (r *GormDashboardRepository) CountOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("due_at < ? AND status IN ?", asOf, []billing.InvoiceStatus{
			billing.InvoiceStatusIssued,
			billing.InvoiceStatusSent,
			billing.InvoiceStatusOverdue,
		}).
		Count(&count).Error
	return count, err
}

// ProjectRevenue sums collected invoice amounts per project over a period.
// Collected covers direct payments and advances applied to the invoice, which
// the invoice model keeps in separate columns.
func (r *GormDashboardRepository) ProjectRevenue(ctx context.Context, from, to time.Time) ([]reporting.ProjectAmount, error) {
	var rows []reporting.ProjectAmount
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select("projects.id AS project_id, projects.name AS project_name, COALESCE(SUM(invoices.paid + invoices.advance_applied), 0) AS amount").
		Joins("JOIN projects ON projects.id = invoices.project_id").
		Where("invoices.issued_at >= ? AND invoices.issued_at <= ?", from, to).
		Group("projects.id, projects.name").
		Scan(&rows).Error
	return rows, err
}

// ProjectApprovedExpenses sums approved expense amounts per project over a period
func (r *GormDashboardRepository) ProjectApprovedExpenses(ctx context.Context, from, to time.Time) ([]reporting.ProjectAmount, error) {
	var rows []reporting.ProjectAmount
	err := r.db.WithContext(ctx).
		Table("expenses").
		Select("projects.id AS project_id, projects.name AS project_name, COALESCE(SUM(expenses.amount), 0) AS amount").
		Joins("JOIN projects ON projects.id = expenses.project_id").
		Where("expenses.approved = ? AND expenses.incurred_at >= ? AND expenses.incurred_at <= ?", true, from, to).
		Group("projects.id, projects.name").
		Scan(&rows).Error
	return rows, err
}

// ApprovedExpensesByCategory sums approved expenses per category, largest first
func (r *GormDashboardRepository) ApprovedExpensesByCategory(ctx context.Context, limit int) ([]reporting.CategoryAmount, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []reporting.CategoryAmount
	err := r.db.WithContext(ctx).
		Table("expenses").
		Select("expense_categories.name AS name, expense_categories.color AS color, COALESCE(SUM(expenses.amount), 0) AS amount").
		Joins("JOIN expense_categories ON expense_categories.id = expenses.category_id").
		Where("expenses.approved = ?", true).
		Group("expense_categories.name, expense_categories.color").
		Order("amount DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// InvoicesSince returns the issued-at/total/collected slice of invoices issued
// on or after the given time. Month bucketing happens in the application layer.
func (r *GormDashboardRepository) InvoicesSince(ctx context.Context, from time.Time) ([]reporting.InvoicePoint, error) {
	var rows []reporting.InvoicePoint
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("issued_at, total, paid + advance_applied AS collected").
		Where("issued_at >= ?", from).
		Scan(&rows).Error
	return rows, err
}

// ApprovedExpensesSince returns approved expense points incurred on or after
// the given time.
func (r *GormDashboardRepository) ApprovedExpensesSince(ctx context.Context, from time.Time) ([]reporting.ExpensePoint, error) {
	var rows []reporting.ExpensePoint
	err := r.db.WithContext(ctx).
		Table("expenses").
		Select("incurred_at, amount").
		Where("approved = ? AND incurred_at >= ?", true, from).
		Scan(&rows).Error
	return rows, err
}
