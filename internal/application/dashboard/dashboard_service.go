package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/reporting"
	"github.com/krodas7/constructora-backend/internal/infrastructure/cache"
)

const (
	cacheTTL      = 5 * time.Minute
	topProjects   = 10
	topCategories = 10
)

// ProjectProfit is one project's profitability over the requested period
type ProjectProfit struct {
	ProjectID     string          `json:"project_id"`
	ProjectName   string          `json:"project_name"`
	Revenue       decimal.Decimal `json:"revenue"`
	Expenses      decimal.Decimal `json:"expenses"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// MonthPoint is one calendar month in the time series
type MonthPoint struct {
	Month     string          `json:"month"` // YYYY-MM
	Invoiced  decimal.Decimal `json:"invoiced"`
	Collected decimal.Decimal `json:"collected"`
	Expenses  decimal.Decimal `json:"expenses"`
}

// Data is the aggregate snapshot backing the dashboard
type Data struct {
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`

	ActiveClients   int64 `json:"active_clients"`
	ActiveProjects  int64 `json:"active_projects"`
	OverdueInvoices int64 `json:"overdue_invoices"`

	Profitability      []ProjectProfit            `json:"profitability"`
	ExpensesByCategory []reporting.CategoryAmount `json:"expenses_by_category"`
	Monthly            []MonthPoint               `json:"monthly"`
}

// emptyData returns an all-zero snapshot used when aggregation fails
func emptyData() *Data {
	return &Data{
		TotalInvoiced:      decimal.Zero,
		TotalCollected:     decimal.Zero,
		TotalOutstanding:   decimal.Zero,
		Profitability:      []ProjectProfit{},
		ExpensesByCategory: []reporting.CategoryAmount{},
		Monthly:            []MonthPoint{},
	}
}

// Service computes the dashboard snapshot. All monetary arithmetic runs in
// decimals; a failing query downgrades the whole snapshot to zeros instead of
// surfacing an error to the caller.
type Service struct {
	reportingRepo reporting.Repository
	clientRepo    partner.ClientRepository
	projectRepo   project.Repository
	cache         cache.Store
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a new dashboard Service
func NewService(
	reportingRepo reporting.Repository,
	clientRepo partner.ClientRepository,
	projectRepo project.Repository,
	store cache.Store,
	logger *zap.Logger,
) *Service {
	return &Service{
		reportingRepo: reportingRepo,
		clientRepo:    clientRepo,
		projectRepo:   projectRepo,
		cache:         store,
		logger:        logger.Named("dashboard"),
		now:           time.Now,
	}
}

// Get returns the dashboard snapshot for a trailing window of 1, 3 or 6
// calendar months. Results are cached briefly; concurrent misses recompute
// redundantly, which is acceptable.
func (s *Service) Get(ctx context.Context, months int) *Data {
	if months != 1 && months != 3 && months != 6 {
		months = 6
	}

	key := fmt.Sprintf("dashboard:m%d", months)
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var data Data
		if err := json.Unmarshal(cached, &data); err == nil {
			return &data
		}
	}

	data, err := s.compute(ctx, months)
	if err != nil {
		s.logger.Error("dashboard aggregation failed, serving empty snapshot", zap.Error(err))
		return emptyData()
	}

	if payload, err := json.Marshal(data); err == nil {
		if err := s.cache.Set(ctx, key, payload, cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard snapshot", zap.Error(err))
		}
	}
	return data
}

func (s *Service) compute(ctx context.Context, months int) (*Data, error) {
	now := s.now()
	// Window starts at the first day of the month months-1 back, so a
	// 1-month window is the current calendar month.
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)

	data := emptyData()
	var err error

	if data.TotalInvoiced, err = s.reportingRepo.SumInvoiceTotals(ctx); err != nil {
		return nil, err
	}

	paidInvoices, err := s.reportingRepo.SumPaidInvoiceTotals(ctx)
	if err != nil {
		return nil, err
	}
	advancesToProject, err := s.reportingRepo.SumAdvancesAppliedToProject(ctx)
	if err != nil {
		return nil, err
	}
	// Collected = paid invoices + advances applied directly to projects.
	// Advance amounts applied to invoices are already inside the paid term.
	data.TotalCollected = paidInvoices.Add(advancesToProject)

	if data.TotalOutstanding, err = s.reportingRepo.SumOutstanding(ctx); err != nil {
		return nil, err
	}
	if data.ActiveClients, err = s.clientRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if data.ActiveProjects, err = s.projectRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if data.OverdueInvoices, err = s.reportingRepo.CountOverdueInvoices(ctx, now); err != nil {
		return nil, err
	}

	if data.Profitability, err = s.profitability(ctx, windowStart, now); err != nil {
		return nil, err
	}
	if data.ExpensesByCategory, err = s.reportingRepo.ApprovedExpensesByCategory(ctx, topCategories); err != nil {
		return nil, err
	}
	if data.Monthly, err = s.monthly(ctx, windowStart, now, months); err != nil {
		return nil, err
	}
	return data, nil
}

// profitability joins per-project revenue and approved expenses over the
// period, computes profit and margin, and returns the top projects by profit.
func (s *Service) profitability(ctx context.Context, from, to time.Time) ([]ProjectProfit, error) {
	revenue, err := s.reportingRepo.ProjectRevenue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportingRepo.ProjectApprovedExpenses(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string]*ProjectProfit)
	for _, row := range revenue {
		byProject[row.ProjectID.String()] = &ProjectProfit{
			ProjectID:   row.ProjectID.String(),
			ProjectName: row.ProjectName,
			Revenue:     row.Amount,
			Expenses:    decimal.Zero,
		}
	}
	for _, row := range expenses {
		entry, ok := byProject[row.ProjectID.String()]
		if !ok {
			entry = &ProjectProfit{
				ProjectID:   row.ProjectID.String(),
				ProjectName: row.ProjectName,
				Revenue:     decimal.Zero,
			}
			byProject[row.ProjectID.String()] = entry
		}
		entry.Expenses = row.Amount
	}

	result := make([]ProjectProfit, 0, len(byProject))
	hundred := decimal.NewFromInt(100)
	for _, entry := range byProject {
		entry.Profit = entry.Revenue.Sub(entry.Expenses)
		if entry.Revenue.IsPositive() {
			entry.MarginPercent = entry.Profit.Div(entry.Revenue).Mul(hundred).Round(2)
		} else {
			entry.MarginPercent = decimal.Zero
		}
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Profit.GreaterThan(result[j].Profit)
	})
	if len(result) > topProjects {
		result = result[:topProjects]
	}
	return result, nil
}

// monthly buckets invoiced, collected and approved-expense amounts into true
// calendar months from the window start through the current month.
func (s *Service) monthly(ctx context.Context, from, now time.Time, months int) ([]MonthPoint, error) {
	invoices, err := s.reportingRepo.InvoicesSince(ctx, from)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportingRepo.ApprovedExpensesSince(ctx, from)
	if err != nil {
		return nil, err
	}

	points := make([]MonthPoint, months)
	index := make(map[string]*MonthPoint, months)
	for i := 0; i < months; i++ {
		month := from.AddDate(0, i, 0)
		key := month.Format("2006-01")
		points[i] = MonthPoint{
			Month:     key,
			Invoiced:  decimal.Zero,
			Collected: decimal.Zero,
			Expenses:  decimal.Zero,
		}
		index[key] = &points[i]
	}

	for _, inv := range invoices {
		if point, ok := index[inv.IssuedAt.Format("2006-01")]; ok {
			point.Invoiced = point.Invoiced.Add(inv.Total)
			point.Collected = point.Collected.Add(inv.Collected)
		}
	}
	for _, exp := range expenses {
		if point, ok := index[exp.IncurredAt.Format("2006-01")]; ok {
			point.Expenses = point.Expenses.Add(exp.Amount)
		}
	}
	return points, nil
}
