package persistence

import (
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/audit"
	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/expense"
	"github.com/krodas7/constructora-backend/internal/domain/identity"
	"github.com/krodas7/constructora-backend/internal/domain/inventory"
	"github.com/krodas7/constructora-backend/internal/domain/notification"
	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/payroll"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/quotation"
)

// AllModels lists every GORM-mapped entity in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&identity.User{},
		&partner.Client{},
		&project.Project{},
		&project.Folder{},
		&project.File{},
		&billing.Invoice{},
		&billing.Advance{},
		&billing.AdvanceApplication{},
		&billing.Payment{},
		&expense.Category{},
		&expense.Expense{},
		&payroll.Worker{},
		&payroll.Payroll{},
		&payroll.PayrollLine{},
		&inventory.Item{},
		&inventory.Assignment{},
		&quotation.Quotation{},
		&quotation.Line{},
		&notification.Notification{},
		&notification.Scheduled{},
		&audit.Entry{},
	}
}

// AutoMigrate creates or updates the schema for every entity. Production
// deployments run SQL migrations instead; this backs the sqlite driver and
// the test suites.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
