package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Worker represents a daily worker assignable to projects
type Worker struct {
	shared.AuditedEntity
	FullName  string          `gorm:"size:200;not null;index" json:"full_name"`
	Document  string          `gorm:"size:20;uniqueIndex" json:"document"`
	Phone     string          `gorm:"size:20" json:"phone,omitempty"`
	Trade     string          `gorm:"size:100" json:"trade,omitempty"`
	DailyRate decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"daily_rate"`
	Active    bool            `gorm:"not null;default:true;index" json:"active"`
}

// TableName returns the database table name
func (Worker) TableName() string { return "workers" }

// NewWorker creates an active daily worker
func NewWorker(fullName, document string, dailyRate decimal.Decimal) (*Worker, error) {
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_WORKER_NAME", "Worker name cannot be empty")
	}
	if dailyRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_DAILY_RATE", "Daily rate must be positive")
	}
	return &Worker{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		FullName:      fullName,
		Document:      document,
		DailyRate:     dailyRate,
		Active:        true,
	}, nil
}

// PayrollStatus represents the lifecycle state of a payroll run
type PayrollStatus string

const (
	PayrollStatusDraft    PayrollStatus = "DRAFT"
	PayrollStatusApproved PayrollStatus = "APPROVED"
	PayrollStatusPaid     PayrollStatus = "PAID"
)

// IsValid checks if the status is a valid PayrollStatus
func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusApproved, PayrollStatusPaid:
		return true
	}
	return false
}

// Payroll represents a pay run for daily workers on a project over a period
type Payroll struct {
	shared.AuditedEntity
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	PeriodStart time.Time       `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"not null" json:"period_end"`
	Status      PayrollStatus   `gorm:"size:20;not null;default:DRAFT;index" json:"status"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	Lines       []PayrollLine   `gorm:"foreignKey:PayrollID" json:"lines,omitempty"`
}

// TableName returns the database table name
func (Payroll) TableName() string { return "payrolls" }

// PayrollLine is one worker's pay within a payroll run
type PayrollLine struct {
	shared.BaseEntity
	PayrollID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"payroll_id"`
	WorkerID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"worker_id"`
	DaysWorked decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"days_worked"`
	DailyRate  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"daily_rate"`
	Bonus      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"bonus"`
	Deductions decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"deductions"`
	NetPay     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"net_pay"`
}

// TableName returns the database table name
func (PayrollLine) TableName() string { return "payroll_lines" }

// NewPayroll creates a draft payroll run
func NewPayroll(projectID uuid.UUID, periodStart, periodEnd time.Time) (*Payroll, error) {
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot precede period start")
	}
	return &Payroll{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		ProjectID:     projectID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Status:        PayrollStatusDraft,
		Total:         decimal.Zero,
	}, nil
}

// AddLine computes a worker's net pay and appends it to the run.
// Net pay is days worked times the daily rate, plus bonus, minus deductions.
func (p *Payroll) AddLine(workerID uuid.UUID, daysWorked, dailyRate, bonus, deductions decimal.Decimal) error {
	if p.Status != PayrollStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft payrolls")
	}
	if daysWorked.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_DAYS", "Days worked must be positive")
	}
	net := daysWorked.Mul(dailyRate).Add(bonus).Sub(deductions)
	line := PayrollLine{
		BaseEntity: shared.NewBaseEntity(),
		PayrollID:  p.ID,
		WorkerID:   workerID,
		DaysWorked: daysWorked,
		DailyRate:  dailyRate,
		Bonus:      bonus,
		Deductions: deductions,
		NetPay:     net,
	}
	p.Lines = append(p.Lines, line)
	p.Total = p.Total.Add(net)
	return nil
}

// Approve locks the payroll for payment
func (p *Payroll) Approve() error {
	if p.Status != PayrollStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft payrolls can be approved")
	}
	if len(p.Lines) == 0 {
		return shared.NewDomainError("EMPTY_PAYROLL", "Payroll has no lines")
	}
	p.Status = PayrollStatusApproved
	return nil
}

// MarkPaid marks the payroll as paid out
func (p *Payroll) MarkPaid() error {
	if p.Status != PayrollStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved payrolls can be paid")
	}
	p.Status = PayrollStatusPaid
	return nil
}

// WorkerRepository persists workers
type WorkerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Worker, int64, error)
	Save(ctx context.Context, worker *Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository persists payroll runs
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payroll, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Payroll, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payroll, int64, error)
	Save(ctx context.Context, payroll *Payroll) error
	Delete(ctx context.Context, id uuid.UUID) error
}
