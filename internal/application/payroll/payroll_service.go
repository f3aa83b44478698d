package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/payroll"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
)

// Service handles workers and payroll runs. A run is created with its lines
// in one transaction; each line's rate defaults to the worker's current daily
// rate so later rate changes never rewrite historical runs.
type Service struct {
	db          *gorm.DB
	payrollRepo payroll.Repository
	workerRepo  payroll.WorkerRepository
	projectRepo project.Repository
}

// NewService creates a new payroll Service
func NewService(db *gorm.DB, payrollRepo payroll.Repository, workerRepo payroll.WorkerRepository, projectRepo project.Repository) *Service {
	return &Service{db: db, payrollRepo: payrollRepo, workerRepo: workerRepo, projectRepo: projectRepo}
}

// LineRequest is one worker's entry in a payroll creation request. A nil
// DailyRate takes the worker's current rate.
type LineRequest struct {
	WorkerID   uuid.UUID
	DaysWorked decimal.Decimal
	DailyRate  *decimal.Decimal
	Bonus      decimal.Decimal
	Deductions decimal.Decimal
}

// CreateRequest carries the input for payroll creation
type CreateRequest struct {
	ProjectID   uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	Lines       []LineRequest
}

// Create builds a draft payroll with its lines atomically
func (s *Service) Create(ctx context.Context, req CreateRequest) (*payroll.Payroll, error) {
	var created *payroll.Payroll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payrollRepo := persistence.NewGormPayrollRepository(tx)
		workerRepo := persistence.NewGormWorkerRepository(tx)
		projectRepo := persistence.NewGormProjectRepository(tx)

		if _, err := projectRepo.FindByID(ctx, req.ProjectID); err != nil {
			return err
		}

		run, err := payroll.NewPayroll(req.ProjectID, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			return err
		}
		for _, line := range req.Lines {
			worker, err := workerRepo.FindByID(ctx, line.WorkerID)
			if err != nil {
				return err
			}
			rate := worker.DailyRate
			if line.DailyRate != nil {
				rate = *line.DailyRate
			}
			if err := run.AddLine(worker.ID, line.DaysWorked, rate, line.Bonus, line.Deductions); err != nil {
				return err
			}
		}

		if err := payrollRepo.Save(ctx, run); err != nil {
			return err
		}
		created = run
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns a payroll run with its lines
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*payroll.Payroll, error) {
	return s.payrollRepo.FindByID(ctx, id)
}

// List returns payroll runs matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) (shared.Paginated[payroll.Payroll], error) {
	runs, total, err := s.payrollRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[payroll.Payroll]{}, err
	}
	return shared.NewPaginated(runs, total, filter.Page, filter.Limit()), nil
}

// ListByProject returns a project's payroll runs
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]payroll.Payroll, error) {
	return s.payrollRepo.FindByProject(ctx, projectID)
}

// AddLine appends a worker line to a draft payroll
func (s *Service) AddLine(ctx context.Context, payrollID uuid.UUID, line LineRequest) (*payroll.Payroll, error) {
	run, err := s.payrollRepo.FindByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	worker, err := s.workerRepo.FindByID(ctx, line.WorkerID)
	if err != nil {
		return nil, err
	}
	rate := worker.DailyRate
	if line.DailyRate != nil {
		rate = *line.DailyRate
	}
	if err := run.AddLine(worker.ID, line.DaysWorked, rate, line.Bonus, line.Deductions); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Approve locks a draft payroll for payment
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*payroll.Payroll, error) {
	return s.transition(ctx, id, (*payroll.Payroll).Approve)
}

// MarkPaid marks an approved payroll as paid out
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*payroll.Payroll, error) {
	return s.transition(ctx, id, (*payroll.Payroll).MarkPaid)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, op func(*payroll.Payroll) error) (*payroll.Payroll, error) {
	run, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(run); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Delete removes a draft payroll and its lines
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	run, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if run.Status != payroll.PayrollStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft payrolls can be deleted")
	}
	return s.payrollRepo.Delete(ctx, id)
}

// CreateWorkerRequest carries the input for worker creation
type CreateWorkerRequest struct {
	FullName  string
	Document  string
	Phone     string
	Trade     string
	DailyRate decimal.Decimal
}

// CreateWorker registers a new daily worker
func (s *Service) CreateWorker(ctx context.Context, req CreateWorkerRequest) (*payroll.Worker, error) {
	worker, err := payroll.NewWorker(req.FullName, req.Document, req.DailyRate)
	if err != nil {
		return nil, err
	}
	worker.Phone = req.Phone
	worker.Trade = req.Trade
	if err := s.workerRepo.Save(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// GetWorker returns a worker by ID
func (s *Service) GetWorker(ctx context.Context, id uuid.UUID) (*payroll.Worker, error) {
	return s.workerRepo.FindByID(ctx, id)
}

// ListWorkers returns workers matching the filter
func (s *Service) ListWorkers(ctx context.Context, filter shared.Filter) (shared.Paginated[payroll.Worker], error) {
	workers, total, err := s.workerRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[payroll.Worker]{}, err
	}
	return shared.NewPaginated(workers, total, filter.Page, filter.Limit()), nil
}

// UpdateWorker replaces a worker's editable fields
func (s *Service) UpdateWorker(ctx context.Context, id uuid.UUID, req CreateWorkerRequest) (*payroll.Worker, error) {
	worker, err := s.workerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName == "" {
		return nil, shared.NewDomainError("INVALID_WORKER_NAME", "Worker name cannot be empty")
	}
	if req.DailyRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_DAILY_RATE", "Daily rate must be positive")
	}
	worker.FullName = req.FullName
	worker.Document = req.Document
	worker.Phone = req.Phone
	worker.Trade = req.Trade
	worker.DailyRate = req.DailyRate
	if err := s.workerRepo.Save(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// DeleteWorker deactivates a worker
func (s *Service) DeleteWorker(ctx context.Context, id uuid.UUID) error {
	return s.workerRepo.Delete(ctx, id)
}
