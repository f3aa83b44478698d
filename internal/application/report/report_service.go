package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/krodas7/constructora-backend/internal/domain/billing"
	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/payroll"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/quotation"
	"github.com/krodas7/constructora-backend/internal/infrastructure/excel"
	"github.com/krodas7/constructora-backend/internal/infrastructure/printing"
)

// Format selects the output for invoice reports
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// Result is a rendered report ready to stream to the client
type Result struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Service renders invoice, payroll and quotation reports. PDF output goes
// through the headless-browser renderer; payroll falls back to plain text
// when the renderer is unavailable so pay stubs can still be produced.
type Service struct {
	invoiceRepo   billing.InvoiceRepository
	clientRepo    partner.ClientRepository
	projectRepo   project.Repository
	payrollRepo   payroll.Repository
	workerRepo    payroll.WorkerRepository
	quotationRepo quotation.Repository
	renderer      printing.Renderer
	logger        *zap.Logger
}

// NewService creates a new report Service
func NewService(
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	projectRepo project.Repository,
	payrollRepo payroll.Repository,
	workerRepo payroll.WorkerRepository,
	quotationRepo quotation.Repository,
	renderer printing.Renderer,
	logger *zap.Logger,
) *Service {
	return &Service{
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		projectRepo:   projectRepo,
		payrollRepo:   payrollRepo,
		workerRepo:    workerRepo,
		quotationRepo: quotationRepo,
		renderer:      renderer,
		logger:        logger.Named("report"),
	}
}

type invoiceRow struct {
	Number   string
	Client   string
	Project  string
	Status   string
	IssuedAt string
	DueAt    string
	Total    string
	Paid     string
	Pending  string
}

type invoiceReportData struct {
	GeneratedAt string
	Rows        []invoiceRow
	Count       int
	Total       string
	Paid        string
	Pending     string
}

// Invoices renders the invoice listing matching the filter as PDF or Excel
func (s *Service) Invoices(ctx context.Context, filter billing.InvoiceFilter, format Format) (*Result, error) {
	// Reports cover the whole filtered set, not one page.
	filter.Page = 1
	filter.PageSize = 10000

	invoices, _, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	clientNames, projectNames, err := s.lookupNames(ctx, invoices)
	if err != nil {
		return nil, err
	}

	data := invoiceReportData{GeneratedAt: time.Now().Format("02/01/2006 15:04")}
	total, paid, pending := decimal.Zero, decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		collected := inv.Paid.Add(inv.AdvanceApplied)
		total = total.Add(inv.Total)
		paid = paid.Add(collected)
		pending = pending.Add(inv.Outstanding)
		data.Rows = append(data.Rows, invoiceRow{
			Number:   inv.Number,
			Client:   clientNames[inv.ClientID],
			Project:  projectNames[inv.ProjectID],
			Status:   string(inv.Status),
			IssuedAt: inv.IssuedAt.Format("02/01/2006"),
			DueAt:    inv.DueAt.Format("02/01/2006"),
			Total:    inv.Total.StringFixed(2),
			Paid:     collected.StringFixed(2),
			Pending:  inv.Outstanding.StringFixed(2),
		})
	}
	data.Count = len(data.Rows)
	data.Total = total.StringFixed(2)
	data.Paid = paid.StringFixed(2)
	data.Pending = pending.StringFixed(2)

	stamp := time.Now().Format("20060102")
	if format == FormatExcel {
		content, err := s.invoicesExcel(invoices, clientNames, projectNames, total, paid, pending)
		if err != nil {
			return nil, err
		}
		return &Result{
			FileName:    fmt.Sprintf("facturas-%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	}

	html, err := render(invoiceReportTemplate, data)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, err
	}
	return &Result{
		FileName:    fmt.Sprintf("facturas-%s.pdf", stamp),
		ContentType: "application/pdf",
		Content:     pdf,
	}, nil
}

func (s *Service) invoicesExcel(
	invoices []billing.Invoice,
	clientNames map[uuid.UUID]string,
	projectNames map[uuid.UUID]string,
	total, paid, pending decimal.Decimal,
) ([]byte, error) {
	sheet := excel.Sheet{
		Name:    "Facturas",
		Title:   "Reporte de facturas",
		Headers: []string{"Número", "Cliente", "Proyecto", "Estado", "Emisión", "Vencimiento", "Total", "Cobrado", "Pendiente"},
	}
	for _, inv := range invoices {
		sheet.Rows = append(sheet.Rows, []interface{}{
			inv.Number,
			clientNames[inv.ClientID],
			projectNames[inv.ProjectID],
			string(inv.Status),
			inv.IssuedAt.Format("02/01/2006"),
			inv.DueAt.Format("02/01/2006"),
			inv.Total.StringFixed(2),
			inv.Paid.Add(inv.AdvanceApplied).StringFixed(2),
			inv.Outstanding.StringFixed(2),
		})
	}
	sheet.Totals = []interface{}{
		"Totales", "", "", "", "", "",
		total.StringFixed(2), paid.StringFixed(2), pending.StringFixed(2),
	}
	return excel.Build(sheet)
}

func (s *Service) lookupNames(ctx context.Context, invoices []billing.Invoice) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	clientNames := make(map[uuid.UUID]string)
	projectNames := make(map[uuid.UUID]string)
	for _, inv := range invoices {
		if _, ok := clientNames[inv.ClientID]; !ok {
			client, err := s.clientRepo.FindByID(ctx, inv.ClientID)
			if err != nil {
				return nil, nil, err
			}
			clientNames[inv.ClientID] = client.Name
		}
		if _, ok := projectNames[inv.ProjectID]; !ok {
			proj, err := s.projectRepo.FindByID(ctx, inv.ProjectID)
			if err != nil {
				return nil, nil, err
			}
			projectNames[inv.ProjectID] = proj.Name
		}
	}
	return clientNames, projectNames, nil
}

type payrollLineRow struct {
	Worker     string
	Days       string
	Rate       string
	Bonus      string
	Deductions string
	NetPay     string
}

type payrollReportData struct {
	Project     string
	PeriodStart string
	PeriodEnd   string
	Status      string
	Lines       []payrollLineRow
	Total       string
}

// Payroll renders a payroll run as PDF, or plain text when the PDF renderer
// is unavailable.
func (s *Service) Payroll(ctx context.Context, id uuid.UUID) (*Result, error) {
	run, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	proj, err := s.projectRepo.FindByID(ctx, run.ProjectID)
	if err != nil {
		return nil, err
	}

	data := payrollReportData{
		Project:     proj.Name,
		PeriodStart: run.PeriodStart.Format("02/01/2006"),
		PeriodEnd:   run.PeriodEnd.Format("02/01/2006"),
		Status:      string(run.Status),
		Total:       run.Total.StringFixed(2),
	}
	for _, line := range run.Lines {
		worker, err := s.workerRepo.FindByID(ctx, line.WorkerID)
		if err != nil {
			return nil, err
		}
		data.Lines = append(data.Lines, payrollLineRow{
			Worker:     worker.FullName,
			Days:       line.DaysWorked.StringFixed(1),
			Rate:       line.DailyRate.StringFixed(2),
			Bonus:      line.Bonus.StringFixed(2),
			Deductions: line.Deductions.StringFixed(2),
			NetPay:     line.NetPay.StringFixed(2),
		})
	}

	stamp := run.PeriodEnd.Format("20060102")
	html, err := render(payrollReportTemplate, data)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		if !errors.Is(err, printing.ErrRendererUnavailable) {
			return nil, err
		}
		s.logger.Warn("pdf renderer unavailable, producing plain-text payroll", zap.Error(err))
		return &Result{
			FileName:    fmt.Sprintf("planilla-%s.txt", stamp),
			ContentType: "text/plain; charset=utf-8",
			Content:     payrollPlainText(data),
		}, nil
	}
	return &Result{
		FileName:    fmt.Sprintf("planilla-%s.pdf", stamp),
		ContentType: "application/pdf",
		Content:     pdf,
	}, nil
}

func payrollPlainText(data payrollReportData) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "PLANILLA - %s\n", data.Project)
	fmt.Fprintf(&buf, "Período: %s a %s (%s)\n\n", data.PeriodStart, data.PeriodEnd, data.Status)
	for _, line := range data.Lines {
		fmt.Fprintf(&buf, "%-30s  días %-6s tarifa %-10s bono %-10s desc %-10s neto %s\n",
			line.Worker, line.Days, line.Rate, line.Bonus, line.Deductions, line.NetPay)
	}
	fmt.Fprintf(&buf, "\nTOTAL: %s\n", data.Total)
	return buf.Bytes()
}

type quotationLineRow struct {
	Description string
	Quantity    string
	UnitPrice   string
	Subtotal    string
}

type quotationReportData struct {
	Name    string
	Project string
	Version string
	Status  string
	Notes   string
	Lines   []quotationLineRow
	Total   string
}

// Quotation renders a quotation as PDF
func (s *Service) Quotation(ctx context.Context, id uuid.UUID) (*Result, error) {
	quote, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	proj, err := s.projectRepo.FindByID(ctx, quote.ProjectID)
	if err != nil {
		return nil, err
	}

	data := quotationReportData{
		Name:    quote.Name,
		Project: proj.Name,
		Version: quote.Version,
		Status:  string(quote.Status),
		Notes:   quote.Notes,
		Total:   quote.Total.StringFixed(2),
	}
	for _, line := range quote.Lines {
		data.Lines = append(data.Lines, quotationLineRow{
			Description: line.Description,
			Quantity:    line.Quantity.StringFixed(2),
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Subtotal:    line.Subtotal.StringFixed(2),
		})
	}

	html, err := render(quotationReportTemplate, data)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, err
	}
	return &Result{
		FileName:    fmt.Sprintf("cotizacion-%s.pdf", time.Now().Format("20060102")),
		ContentType: "application/pdf",
		Content:     pdf,
	}, nil
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering report template: %w", err)
	}
	return buf.String(), nil
}
