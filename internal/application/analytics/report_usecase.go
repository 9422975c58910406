package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	domainanalytics "github.com/jhoicas/kirana-admin-api/internal/domain/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
	"github.com/jhoicas/kirana-admin-api/pkg/money"
)

// Formatos de exportación.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

const reportTopProducts = 10

// ReportUseCase reportes diarios, semanales y mensuales, y su exportación a CSV o PDF.
type ReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	stores        repository.StoreRepository
	cache         *querycache.Cache
	pdf           ReportPDFGenerator
	loc           *time.Location
	now           func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	analyticsRepo repository.AnalyticsRepository,
	stores repository.StoreRepository,
	cache *querycache.Cache,
	pdf ReportPDFGenerator,
	loc *time.Location,
) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{analyticsRepo: analyticsRepo, stores: stores, cache: cache, pdf: pdf, loc: loc, now: time.Now}
}

// Generate arma el reporte del período. Pedidos y líneas se leen en paralelo.
func (uc *ReportUseCase) Generate(ctx context.Context, storeID, period string) (*dto.ReportResponse, error) {
	if !domainanalytics.IsValidPeriod(period) {
		return nil, fmt.Errorf("%w: periodo %q", domain.ErrInvalidInput, period)
	}
	r, err := domainanalytics.PeriodRange(period, uc.now(), uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	params := period + ":" + r.StartDate()
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.ReportData, params, func(ctx context.Context) (*dto.ReportResponse, error) {
		var (
			orders []domainanalytics.OrderFact
			items  []domainanalytics.ItemFact
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			orders, err = uc.analyticsRepo.ListOrderFacts(gctx, storeID, r.From, r.To)
			return err
		})
		g.Go(func() (err error) {
			items, err = uc.analyticsRepo.ListItemFacts(gctx, storeID, r.From, r.To)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("report: %s: %w", period, err)
		}
		return buildReport(period, r, orders, items), nil
	})
}

// buildReport calcula las secciones del reporte en paralelo; cada una escribe solo su campo.
func buildReport(period string, r domainanalytics.DateRange, orders []domainanalytics.OrderFact, items []domainanalytics.ItemFact) *dto.ReportResponse {
	out := &dto.ReportResponse{
		Period:    period,
		StartDate: r.StartDate(),
		EndDate:   r.EndDate(),
	}
	var g errgroup.Group
	g.Go(func() error {
		s := domainanalytics.Summarize(orders)
		out.Summary = dto.ReportSummaryDTO{
			TotalOrders:       s.TotalOrders,
			TotalRevenue:      s.TotalRevenue.Round(2),
			TotalCustomers:    s.TotalCustomers,
			AverageOrderValue: s.AverageOrderValue.Round(2),
		}
		return nil
	})
	g.Go(func() error {
		out.TopProducts = toTopProductDTOs(domainanalytics.TopProducts(items, reportTopProducts))
		return nil
	})
	g.Go(func() error {
		out.CategoryBreakdown = toCategoryDTOs(domainanalytics.CategoryBreakdown(items))
		return nil
	})
	g.Go(func() error {
		out.OrderTrends = toTrendDTOs(domainanalytics.OrderTrend(orders, r))
		out.RevenueTrends = toTrendDTOs(domainanalytics.RevenueTrend(orders, r))
		return nil
	})
	_ = g.Wait()
	return out
}

// Export genera el archivo del reporte: {Tienda}_{periodo}_report_{yyyy-MM-dd}.{csv|pdf}.
func (uc *ReportUseCase) Export(ctx context.Context, storeID, period, format string) (*dto.ReportFile, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	report, err := uc.Generate(ctx, storeID, period)
	if err != nil {
		return nil, err
	}
	store, err := uc.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now().In(uc.loc)
	filename := fmt.Sprintf("%s_%s_report_%s.%s", strings.Join(strings.Fields(store.Name), "_"), period, now.Format("2006-01-02"), format)

	switch format {
	case FormatPDF:
		content, err := uc.pdf.GenerateReportPDF(ctx, store.Name, report, now)
		if err != nil {
			return nil, fmt.Errorf("report: pdf: %w", err)
		}
		return &dto.ReportFile{Filename: filename, ContentType: "application/pdf", Content: content}, nil
	default:
		content, err := ReportCSV(report)
		if err != nil {
			return nil, err
		}
		return &dto.ReportFile{Filename: filename, ContentType: "text/csv; charset=utf-8", Content: content}, nil
	}
}

// ReportCSV escribe las secciones SUMMARY, TOP PRODUCTS y CATEGORY BREAKDOWN separadas por una línea en blanco.
// Las cabeceras de cada sección se escriben aunque no haya filas.
func ReportCSV(r *dto.ReportResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	itoa := strconv.Itoa

	records := [][]string{
		{"SUMMARY"},
		{"Metric", "Value"},
		{"Period", r.Period},
		{"Start Date", r.StartDate},
		{"End Date", r.EndDate},
		{"Total Orders", itoa(r.Summary.TotalOrders)},
		{"Total Revenue", money.Plain(r.Summary.TotalRevenue)},
		{"Total Customers", itoa(r.Summary.TotalCustomers)},
		{"Average Order Value", money.Plain(r.Summary.AverageOrderValue)},
		{},
		{"TOP PRODUCTS"},
		{"Product", "Category", "Quantity Sold", "Revenue", "Orders"},
	}
	for _, p := range r.TopProducts {
		records = append(records, []string{p.Name, p.Category, itoa(p.TotalSales), money.Plain(p.TotalRevenue), itoa(p.OrderCount)})
	}
	records = append(records,
		[]string{},
		[]string{"CATEGORY BREAKDOWN"},
		[]string{"Category", "Quantity Sold", "Revenue", "Orders", "Percentage"},
	)
	for _, c := range r.CategoryBreakdown {
		records = append(records, []string{c.Category, itoa(c.TotalSales), money.Plain(c.TotalRevenue), itoa(c.OrderCount), c.Percentage.StringFixed(2) + "%"})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("report: csv: %w", err)
	}
	return buf.Bytes(), nil
}
