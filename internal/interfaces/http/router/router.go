package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/identity"
	"github.com/krodas7/constructora-backend/internal/infrastructure/auth"
	"github.com/krodas7/constructora-backend/internal/infrastructure/logger"
	"github.com/krodas7/constructora-backend/internal/interfaces/http/handler"
	"github.com/krodas7/constructora-backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Auth         *handler.AuthHandler
	Client       *handler.ClientHandler
	Project      *handler.ProjectHandler
	File         *handler.FileHandler
	Invoice      *handler.InvoiceHandler
	Advance      *handler.AdvanceHandler
	Expense      *handler.ExpenseHandler
	Payroll      *handler.PayrollHandler
	Inventory    *handler.InventoryHandler
	Quotation    *handler.QuotationHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Report       *handler.ReportHandler
}

// Config carries everything New needs to assemble the engine
type Config struct {
	Logger       *zap.Logger
	DB           *gorm.DB
	JWTService   *auth.JWTService
	UserRepo     identity.Repository
	Handlers     Handlers
	AllowOrigins []string
	MaxBodySize  int64
	Version      string
}

// New builds the gin engine with middleware, public routes and the
// permission-guarded API surface.
func New(cfg Config) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.Secure(),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	system := handler.NewSystemHandler(cfg.DB, cfg.Version)
	engine.GET("/health", system.Health)

	api := engine.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.NewRateLimiter(300, time.Minute)))

	// Login is public but rate limited per client IP to slow brute forcing.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	api.POST("/auth/login", middleware.AuthRateLimit(loginLimiter), cfg.Handlers.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWTService, cfg.Logger))

	registerAuthRoutes(protected, cfg)
	registerClientRoutes(protected, cfg)
	registerProjectRoutes(protected, cfg)
	registerBillingRoutes(protected, cfg)
	registerExpenseRoutes(protected, cfg)
	registerPayrollRoutes(protected, cfg)
	registerInventoryRoutes(protected, cfg)
	registerQuotationRoutes(protected, cfg)
	registerNotificationRoutes(protected, cfg)
	registerDashboardRoutes(protected, cfg)
	registerReportRoutes(protected, cfg)

	return engine
}

func (c Config) perm(module string, action identity.Action) gin.HandlerFunc {
	return middleware.RequirePermission(c.UserRepo, module, action)
}

func registerAuthRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Auth
	rg.GET("/auth/me", h.Me)
	rg.POST("/auth/change-password", h.ChangePassword)
	// Only admins may create accounts.
	rg.POST("/auth/register", cfg.perm("users", identity.ActionCreate), h.Register)
}

func registerClientRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Client
	g := rg.Group("/clients")
	g.GET("", cfg.perm("clients", identity.ActionView), h.List)
	g.POST("", cfg.perm("clients", identity.ActionCreate), h.Create)
	g.GET("/:id", cfg.perm("clients", identity.ActionView), h.Get)
	g.PUT("/:id", cfg.perm("clients", identity.ActionEdit), h.Update)
	g.DELETE("/:id", cfg.perm("clients", identity.ActionDelete), h.Delete)
}

func registerProjectRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Project
	fh := cfg.Handlers.File
	g := rg.Group("/projects")
	g.GET("", cfg.perm("projects", identity.ActionView), h.List)
	g.GET("/active", cfg.perm("projects", identity.ActionView), h.ListActive)
	g.POST("", cfg.perm("projects", identity.ActionCreate), h.Create)
	g.GET("/:id", cfg.perm("projects", identity.ActionView), h.Get)
	g.PUT("/:id", cfg.perm("projects", identity.ActionEdit), h.Update)
	g.POST("/:id/status", cfg.perm("projects", identity.ActionEdit), h.ChangeStatus)
	g.DELETE("/:id", cfg.perm("projects", identity.ActionDelete), h.Delete)

	g.GET("/:id/files", cfg.perm("files", identity.ActionView), fh.List)
	g.POST("/:id/files", cfg.perm("files", identity.ActionCreate), fh.Upload)
	g.GET("/:id/folders", cfg.perm("files", identity.ActionView), fh.ListFolders)
	g.POST("/:id/folders", cfg.perm("files", identity.ActionCreate), fh.CreateFolder)

	files := rg.Group("/files")
	files.GET("/:id/download", cfg.perm("files", identity.ActionView), fh.Download)
	files.DELETE("/:id", cfg.perm("files", identity.ActionDelete), fh.Delete)
}

func registerBillingRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Invoice
	g := rg.Group("/invoices")
	g.GET("", cfg.perm("invoices", identity.ActionView), h.List)
	g.POST("", cfg.perm("invoices", identity.ActionCreate), h.Create)
	g.GET("/:id", cfg.perm("invoices", identity.ActionView), h.Get)
	g.POST("/:id/issue", cfg.perm("invoices", identity.ActionEdit), h.Issue)
	g.POST("/:id/send", cfg.perm("invoices", identity.ActionEdit), h.Send)
	g.POST("/:id/cancel", cfg.perm("invoices", identity.ActionEdit), h.Cancel)
	g.GET("/:id/payments", cfg.perm("invoices", identity.ActionView), h.Payments)
	g.POST("/:id/payments", cfg.perm("invoices", identity.ActionEdit), h.RegisterPayment)
	g.DELETE("/:id", cfg.perm("invoices", identity.ActionDelete), h.Delete)

	ah := cfg.Handlers.Advance
	a := rg.Group("/advances")
	a.GET("", cfg.perm("advances", identity.ActionView), ah.List)
	a.POST("", cfg.perm("advances", identity.ActionCreate), ah.Create)
	a.GET("/:id", cfg.perm("advances", identity.ActionView), ah.Get)
	a.GET("/:id/applications", cfg.perm("advances", identity.ActionView), ah.Applications)
	a.POST("/:id/apply-to-invoice", cfg.perm("advances", identity.ActionEdit), ah.ApplyToInvoice)
	a.POST("/:id/apply-to-project", cfg.perm("advances", identity.ActionEdit), ah.ApplyToProject)
	a.POST("/:id/refund", cfg.perm("advances", identity.ActionEdit), ah.Refund)
	a.POST("/:id/cancel", cfg.perm("advances", identity.ActionEdit), ah.Cancel)
}

func registerExpenseRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Expense
	g := rg.Group("/expenses")
	g.GET("", cfg.perm("expenses", identity.ActionView), h.List)
	g.POST("", cfg.perm("expenses", identity.ActionCreate), h.Create)
	g.GET("/categories", cfg.perm("expenses", identity.ActionView), h.Categories)
	g.POST("/categories", cfg.perm("expenses", identity.ActionCreate), h.CreateCategory)
	g.GET("/:id", cfg.perm("expenses", identity.ActionView), h.Get)
	g.POST("/:id/approve", cfg.perm("expenses", identity.ActionEdit), h.Approve)
	g.POST("/:id/disapprove", cfg.perm("expenses", identity.ActionEdit), h.Disapprove)
	g.DELETE("/:id", cfg.perm("expenses", identity.ActionDelete), h.Delete)
}

func registerPayrollRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Payroll
	g := rg.Group("/payrolls")
	g.GET("", cfg.perm("payrolls", identity.ActionView), h.List)
	g.POST("", cfg.perm("payrolls", identity.ActionCreate), h.Create)
	g.GET("/:id", cfg.perm("payrolls", identity.ActionView), h.Get)
	g.POST("/:id/lines", cfg.perm("payrolls", identity.ActionEdit), h.AddLine)
	g.POST("/:id/approve", cfg.perm("payrolls", identity.ActionEdit), h.Approve)
	g.POST("/:id/pay", cfg.perm("payrolls", identity.ActionEdit), h.MarkPaid)
	g.DELETE("/:id", cfg.perm("payrolls", identity.ActionDelete), h.Delete)

	rg.GET("/projects/:id/payrolls", cfg.perm("payrolls", identity.ActionView), h.ListByProject)

	w := rg.Group("/workers")
	w.GET("", cfg.perm("payrolls", identity.ActionView), h.ListWorkers)
	w.POST("", cfg.perm("payrolls", identity.ActionCreate), h.CreateWorker)
	w.GET("/:id", cfg.perm("payrolls", identity.ActionView), h.GetWorker)
	w.PUT("/:id", cfg.perm("payrolls", identity.ActionEdit), h.UpdateWorker)
	w.DELETE("/:id", cfg.perm("payrolls", identity.ActionDelete), h.DeleteWorker)
}

func registerInventoryRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Inventory
	g := rg.Group("/inventory")
	g.GET("", cfg.perm("inventory", identity.ActionView), h.ListItems)
	g.POST("", cfg.perm("inventory", identity.ActionCreate), h.CreateItem)
	g.GET("/low-stock", cfg.perm("inventory", identity.ActionView), h.LowStock)
	g.GET("/:id", cfg.perm("inventory", identity.ActionView), h.GetItem)
	g.PUT("/:id", cfg.perm("inventory", identity.ActionEdit), h.UpdateItem)
	g.DELETE("/:id", cfg.perm("inventory", identity.ActionDelete), h.DeleteItem)
	g.POST("/:id/assign", cfg.perm("inventory", identity.ActionEdit), h.Assign)

	rg.POST("/assignments/:id/return", cfg.perm("inventory", identity.ActionEdit), h.Return)
	rg.GET("/projects/:id/assignments", cfg.perm("inventory", identity.ActionView), h.Assignments)
}

func registerQuotationRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Quotation
	g := rg.Group("/quotations")
	g.GET("", cfg.perm("quotations", identity.ActionView), h.List)
	g.POST("", cfg.perm("quotations", identity.ActionCreate), h.Create)
	g.GET("/:id", cfg.perm("quotations", identity.ActionView), h.Get)
	g.POST("/:id/lines", cfg.perm("quotations", identity.ActionEdit), h.AddLine)
	g.POST("/:id/send", cfg.perm("quotations", identity.ActionEdit), h.Send)
	g.POST("/:id/approve", cfg.perm("quotations", identity.ActionEdit), h.Approve)
	g.POST("/:id/reject", cfg.perm("quotations", identity.ActionEdit), h.Reject)
	g.DELETE("/:id", cfg.perm("quotations", identity.ActionDelete), h.Delete)

	rg.GET("/projects/:id/quotations", cfg.perm("quotations", identity.ActionView), h.ListByProject)
}

func registerNotificationRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Notification
	g := rg.Group("/notifications")
	g.GET("", h.List)
	g.GET("/unread-count", h.UnreadCount)
	g.POST("/:id/read", h.MarkRead)
	g.POST("/read-all", h.MarkAllRead)
}

func registerDashboardRoutes(rg *gin.RouterGroup, cfg Config) {
	rg.GET("/dashboard", cfg.perm("dashboard", identity.ActionView), cfg.Handlers.Dashboard.Get)
}

func registerReportRoutes(rg *gin.RouterGroup, cfg Config) {
	h := cfg.Handlers.Report
	g := rg.Group("/reports")
	g.Use(cfg.perm("reports", identity.ActionView))
	g.GET("/invoices", h.Invoices)
	g.GET("/payrolls/:id", h.Payroll)
	g.GET("/quotations/:id", h.Quotation)
}
