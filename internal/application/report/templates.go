package report

import "html/template"

const reportStyle = `
	body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #1f2937; margin: 24px; }
	h1 { font-size: 18px; margin-bottom: 2px; }
	.meta { color: #6b7280; margin-bottom: 16px; }
	table { width: 100%; border-collapse: collapse; }
	th { background: #4472c4; color: #fff; text-align: left; padding: 6px 8px; }
	td { border-bottom: 1px solid #e5e7eb; padding: 6px 8px; }
	td.num, th.num { text-align: right; }
	tfoot td { border-top: 2px solid #1f2937; font-weight: bold; }
`

var invoiceReportTemplate = template.Must(template.New("invoices").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + reportStyle + `</style></head>
<body>
<h1>Reporte de facturas</h1>
<div class="meta">Generado el {{.GeneratedAt}} · {{.Count}} facturas</div>
<table>
<thead><tr>
<th>Número</th><th>Cliente</th><th>Proyecto</th><th>Estado</th>
<th>Emisión</th><th>Vencimiento</th>
<th class="num">Total</th><th class="num">Cobrado</th><th class="num">Pendiente</th>
</tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Number}}</td><td>{{.Client}}</td><td>{{.Project}}</td><td>{{.Status}}</td>
<td>{{.IssuedAt}}</td><td>{{.DueAt}}</td>
<td class="num">{{.Total}}</td><td class="num">{{.Paid}}</td><td class="num">{{.Pending}}</td>
</tr>{{end}}
</tbody>
<tfoot><tr>
<td colspan="6">Totales</td>
<td class="num">{{.Total}}</td><td class="num">{{.Paid}}</td><td class="num">{{.Pending}}</td>
</tr></tfoot>
</table>
</body></html>`))

var payrollReportTemplate = template.Must(template.New("payroll").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + reportStyle + `</style></head>
<body>
<h1>Planilla - {{.Project}}</h1>
<div class="meta">Período {{.PeriodStart}} a {{.PeriodEnd}} · {{.Status}}</div>
<table>
<thead><tr>
<th>Trabajador</th><th class="num">Días</th><th class="num">Tarifa</th>
<th class="num">Bono</th><th class="num">Descuentos</th><th class="num">Neto</th>
</tr></thead>
<tbody>
{{range .Lines}}<tr>
<td>{{.Worker}}</td><td class="num">{{.Days}}</td><td class="num">{{.Rate}}</td>
<td class="num">{{.Bonus}}</td><td class="num">{{.Deductions}}</td><td class="num">{{.NetPay}}</td>
</tr>{{end}}
</tbody>
<tfoot><tr><td colspan="5">Total</td><td class="num">{{.Total}}</td></tr></tfoot>
</table>
</body></html>`))

var quotationReportTemplate = template.Must(template.New("quotation").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + reportStyle + `</style></head>
<body>
<h1>Cotización: {{.Name}}</h1>
<div class="meta">Proyecto {{.Project}} · Versión {{.Version}} · {{.Status}}</div>
<table>
<thead><tr>
<th>Descripción</th><th class="num">Cantidad</th><th class="num">Precio unitario</th><th class="num">Subtotal</th>
</tr></thead>
<tbody>
{{range .Lines}}<tr>
<td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Subtotal}}</td>
</tr>{{end}}
</tbody>
<tfoot><tr><td colspan="3">Total</td><td class="num">{{.Total}}</td></tr></tfoot>
</table>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
</body></html>`))
