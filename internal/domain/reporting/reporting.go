package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectAmount is one project's summed amount in an aggregate query
type ProjectAmount struct {
	ProjectID   uuid.UUID       `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// CategoryAmount is one expense category's approved total
type CategoryAmount struct {
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoicePoint is the slice of an invoice the time series needs. Collected
// covers direct payments plus advances applied against the invoice.
type InvoicePoint struct {
	IssuedAt  time.Time       `json:"issued_at"`
	Total     decimal.Decimal `json:"total"`
	Collected decimal.Decimal `json:"collected"`
}

// ExpensePoint is the slice of an approved expense the time series needs
type ExpensePoint struct {
	IncurredAt time.Time       `json:"incurred_at"`
	Amount     decimal.Decimal `json:"amount"`
}

// Repository exposes the read-side aggregate queries behind the dashboard
// and reports. Monetary sums come back as decimals; time-bucketing happens
// in the application layer so the queries stay portable across drivers.
type Repository interface {
	SumInvoiceTotals(ctx context.Context) (decimal.Decimal, error)
	SumPaidInvoiceTotals(ctx context.Context) (decimal.Decimal, error)
	SumAdvancesAppliedToProject(ctx context.Context) (decimal.Decimal, error)
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)
	CountOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error)

	ProjectRevenue(ctx context.Context, from, to time.Time) ([]ProjectAmount, error)
	ProjectApprovedExpenses(ctx context.Context, from, to time.Time) ([]ProjectAmount, error)
	ApprovedExpensesByCategory(ctx context.Context, limit int) ([]CategoryAmount, error)

	InvoicesSince(ctx context.Context, from time.Time) ([]InvoicePoint, error)
	ApprovedExpensesSince(ctx context.Context, from time.Time) ([]ExpensePoint, error)
}
