// Package pdf implementa la representación gráfica de cotizaciones y
// facturas de servicio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  N° Documento + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                            │
//	│  CLIENTE: Nombre + contacto                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Subtotal        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / TOTAL A PAGAR                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: validez o link de pago (QR) + notas                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/ServiCampo-api/internal/application/billing"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 94, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appbilling.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// docLine línea genérica de la tabla (cotización o factura).
type docLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}

// GenerateEstimatePDF genera el PDF de una cotización.
func (g *MarotoPDFGenerator) GenerateEstimatePDF(
	_ context.Context,
	company *entity.Company,
	contact *entity.Contact,
	estimate *entity.Estimate,
	items []entity.EstimateItem,
) ([]byte, error) {
	lines := make([]docLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, docLine{it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.Subtotal})
	}
	m := newDocument(company, "Cotización de servicios")
	m.AddRows(headerRow(company, "COTIZACIÓN DE SERVICIOS", estimate.Number, estimate.CreatedAt))
	addCommonBody(m, company, contact, lines, estimate.Subtotal, estimate.TaxTotal, estimate.GrandTotal)
	m.AddRows(estimateFooterRows(estimate)...)
	return render(m)
}

// GenerateInvoicePDF genera el PDF de una factura de servicios.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	company *entity.Company,
	contact *entity.Contact,
	invoice *entity.Invoice,
	items []entity.InvoiceItem,
) ([]byte, error) {
	lines := make([]docLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, docLine{it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.Subtotal})
	}
	m := newDocument(company, "Factura de servicios")
	m.AddRows(headerRow(company, "FACTURA DE VENTA", invoice.Number, invoice.CreatedAt))
	addCommonBody(m, company, contact, lines, invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal)
	m.AddRows(invoiceFooterRows(invoice)...)
	return render(m)
}

func newDocument(company *entity.Company, title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(company.Name, true).
		Build()
	return maroto.New(cfg)
}

func addCommonBody(m core.Maroto, company *entity.Company, contact *entity.Contact, lines []docLine, subtotal, taxTotal, grandTotal decimal.Decimal) {
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(company))
	m.AddRows(clienteRow(contact))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(lines) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(subtotal, taxTotal, grandTotal))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + NIT (izq) y tipo + número + fecha (der).
func headerRow(company *entity.Company, docType, number string, date time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(docType, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos de la empresa prestadora del servicio.
func emisorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// clienteRow: datos del contacto destinatario.
func clienteRow(contact *entity.Contact) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(contact.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   Dirección: %s",
				nonEmpty(contact.Email, "—"),
				nonEmpty(contact.Phone, "—"),
				nonEmpty(contact.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción del servicio", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea del documento.
func tableDetailRows(lines []docLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, d := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				d.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				d.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(d.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				d.TaxRate.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(d.Subtotal.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(subtotal, taxTotal, grandTotal decimal.Decimal) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:"),
			label("IVA:"),
			grandLabel("TOTAL A PAGAR:"),
		),
		col.New(3).Add(
			value("$"+formatMoney(subtotal.StringFixed(0))),
			value("$"+formatMoney(taxTotal.StringFixed(0))),
			grandValue("$"+formatMoney(grandTotal.StringFixed(0))),
		),
		col.New(3),
	)
}

// estimateFooterRows: vigencia de la cotización + notas.
func estimateFooterRows(estimate *entity.Estimate) []core.Row {
	rows := []core.Row{}
	if estimate.ValidUntil != nil {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Válida hasta: "+estimate.ValidUntil.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			}),
		)))
	}
	if estimate.Notes != "" {
		rows = append(rows, notesRow(estimate.Notes))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Esta cotización no constituye factura. Precios en pesos colombianos (COP).",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// invoiceFooterRows: link de pago como QR + vencimiento + notas.
func invoiceFooterRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{}
	if invoice.DueDate != nil {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Fecha límite de pago: "+invoice.DueDate.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			}),
		)))
	}
	if invoice.PaymentLinkURL != "" {
		rows = append(rows, row.New(45).Add(
			col.New(4).Add(code.NewQr(invoice.PaymentLinkURL, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para pagar\nesta factura en línea.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	}
	if invoice.Notes != "" {
		rows = append(rows, notesRow(invoice.Notes))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Conserve este documento como soporte de la prestación del servicio. Precios en pesos colombianos (COP).",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

func notesRow(notes string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Notas: "+notes, props.Text{Size: 7.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := len(s)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i, c := range []byte(s) {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, c)
		}
		s = string(buf)
	}
	if neg {
		return "-" + s
	}
	return s
}
