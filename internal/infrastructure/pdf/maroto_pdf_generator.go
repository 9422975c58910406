// Package pdf genera el reporte de ventas de la tienda en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + título      │  Período + fecha generación  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Pedidos | Ingresos | Clientes | Ticket promedio    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Top productos                                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ventas por categoría                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	appanalytics "github.com/jhoicas/kirana-admin-api/internal/application/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 101, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeader  = &props.Color{Red: 22, Green: 101, Blue: 52}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appanalytics.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa analytics.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReportPDF(
	_ context.Context,
	storeName string,
	report *dto.ReportResponse,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(storeName+" sales report", true).
		WithAuthor(storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(storeName, report, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("Summary"))
	m.AddRows(summaryRows(report.Summary)...)
	m.AddRows(line.NewRow(3))

	m.AddRows(sectionTitle("Top Products"))
	m.AddRows(tableHeaderRow(
		headerCell{"Product", 4, align.Left},
		headerCell{"Category", 3, align.Left},
		headerCell{"Qty", 1, align.Center},
		headerCell{"Revenue", 3, align.Right},
		headerCell{"Orders", 1, align.Center},
	))
	if len(report.TopProducts) == 0 {
		m.AddRows(emptyRow())
	}
	for _, p := range report.TopProducts {
		m.AddRows(row.New(6).Add(
			cell(p.Name, 4, align.Left),
			cell(p.Category, 3, align.Left),
			cell(strconv.Itoa(p.TotalSales), 1, align.Center),
			cell(money.FormatINR(p.TotalRevenue), 3, align.Right),
			cell(strconv.Itoa(p.OrderCount), 1, align.Center),
		))
	}
	m.AddRows(line.NewRow(3))

	m.AddRows(sectionTitle("Category Breakdown"))
	m.AddRows(tableHeaderRow(
		headerCell{"Category", 4, align.Left},
		headerCell{"Qty", 2, align.Center},
		headerCell{"Revenue", 3, align.Right},
		headerCell{"Orders", 1, align.Center},
		headerCell{"Share", 2, align.Right},
	))
	if len(report.CategoryBreakdown) == 0 {
		m.AddRows(emptyRow())
	}
	for _, c := range report.CategoryBreakdown {
		m.AddRows(row.New(6).Add(
			cell(c.Category, 4, align.Left),
			cell(strconv.Itoa(c.TotalSales), 2, align.Center),
			cell(money.FormatINR(c.TotalRevenue), 3, align.Right),
			cell(strconv.Itoa(c.OrderCount), 1, align.Center),
			cell(c.Percentage.StringFixed(2)+"%", 2, align.Right),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda + título (izq) y período + fecha de generación (der).
func headerRow(storeName string, report *dto.ReportResponse, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(cases.Title(language.English).String(report.Period)+" Sales Report", props.Text{
				Size: 10, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("%s to %s", report.StartDate, report.EndDate), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generated "+generatedAt.Format("02 Jan 2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
	))
}

// summaryRows: bloque de métricas con etiqueta a la izquierda y valor a la derecha.
func summaryRows(s dto.ReportSummaryDTO) []core.Row {
	metric := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 9, Top: 1, Left: 2})),
			col.New(6).Add(text.New(value, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Align: align.Right, Right: 2})),
		)
	}
	return []core.Row{
		metric("Total Orders", strconv.Itoa(s.TotalOrders)),
		metric("Total Revenue", money.FormatINR(s.TotalRevenue)),
		metric("Total Customers", strconv.Itoa(s.TotalCustomers)),
		metric("Average Order Value", money.FormatINR(s.AverageOrderValue)),
	}
}

type headerCell struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla con fondo de color.
func tableHeaderRow(cells ...headerCell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, h := range cells {
		cols = append(cols, col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(nonEmpty(value, "—"), props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func emptyRow() core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New("No sales in this period", props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
