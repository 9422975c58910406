// Package analytics agrega pedidos y líneas de pedido de un rango de fechas en métricas de negocio:
// resumen, crecimiento, series diarias, top productos y desglose por categoría.
//
// Todas las funciones son puras: reciben los hechos ya filtrados por tienda y rango.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// NoCategory valor de TopCategory cuando no hay ventas.
	NoCategory = "N/A"
	// Unknown reemplaza nombres o categorías vacías.
	Unknown = "Unknown"

	dateLayout  = "2006-01-02"
	labelLayout = "Jan 2"
)

var hundred = decimal.NewFromInt(100)

// OrderFact datos mínimos de un pedido para agregación.
type OrderFact struct {
	ID          string
	CustomerID  string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// ItemFact línea de pedido con el producto resuelto.
type ItemFact struct {
	OrderID     string
	ProductID   string
	ProductName string
	Category    string
	Quantity    int
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// Summary totales del período.
type Summary struct {
	TotalOrders       int
	TotalRevenue      decimal.Decimal
	TotalCustomers    int
	AverageOrderValue decimal.Decimal
}

// TrendPoint valor de un día en una serie.
type TrendPoint struct {
	Date  string // yyyy-MM-dd
	Label string // "Jan 2"
	Value decimal.Decimal
}

// ProductSales ventas agregadas por producto.
type ProductSales struct {
	ID           string
	Name         string
	Category     string
	TotalSales   int
	TotalRevenue decimal.Decimal
	OrderCount   int
}

// CategorySales ventas agregadas por categoría.
type CategorySales struct {
	Category     string
	TotalSales   int
	TotalRevenue decimal.Decimal
	OrderCount   int
	Percentage   decimal.Decimal
}

// Summarize calcula pedidos, ingresos, clientes únicos y ticket promedio.
func Summarize(orders []OrderFact) Summary {
	revenue := decimal.Zero
	customers := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
		if o.CustomerID != "" {
			customers[o.CustomerID] = struct{}{}
		}
	}
	aov := decimal.Zero
	if len(orders) > 0 {
		aov = revenue.Div(decimal.NewFromInt(int64(len(orders))))
	}
	return Summary{
		TotalOrders:       len(orders),
		TotalRevenue:      revenue.Round(2),
		TotalCustomers:    len(customers),
		AverageOrderValue: aov.Round(2),
	}
}

// Revenue suma de TotalAmount.
func Revenue(orders []OrderFact) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}

// Growth variación porcentual de current respecto a previous. 0 si previous no es positivo.
func Growth(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// TopCategory categoría con más unidades vendidas. Empates: la primera alfabéticamente.
func TopCategory(items []ItemFact) string {
	qty := make(map[string]int)
	for _, it := range items {
		qty[categoryOf(it)] += it.Quantity
	}
	top, max := NoCategory, 0
	for cat, q := range qty {
		if q > max || (q == max && q > 0 && cat < top) {
			top, max = cat, q
		}
	}
	return top
}

// OrderTrend número de pedidos por día, con ceros en los días sin pedidos.
func OrderTrend(orders []OrderFact, r DateRange) []TrendPoint {
	byDay := make(map[string]decimal.Decimal)
	one := decimal.NewFromInt(1)
	for _, o := range orders {
		k := o.CreatedAt.In(r.loc()).Format(dateLayout)
		byDay[k] = byDay[k].Add(one)
	}
	return fillDays(byDay, r)
}

// RevenueTrend ingresos por día, con ceros en los días sin pedidos.
func RevenueTrend(orders []OrderFact, r DateRange) []TrendPoint {
	byDay := make(map[string]decimal.Decimal)
	for _, o := range orders {
		k := o.CreatedAt.In(r.loc()).Format(dateLayout)
		byDay[k] = byDay[k].Add(o.TotalAmount)
	}
	points := fillDays(byDay, r)
	for i := range points {
		points[i].Value = points[i].Value.Round(2)
	}
	return points
}

func fillDays(byDay map[string]decimal.Decimal, r DateRange) []TrendPoint {
	days := r.Days()
	points := make([]TrendPoint, 0, days)
	start := r.From.In(r.loc())
	for i := 0; i < days; i++ {
		d := time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, r.loc())
		key := d.Format(dateLayout)
		points = append(points, TrendPoint{
			Date:  key,
			Label: d.Format(labelLayout),
			Value: byDay[key], // el valor cero de decimal.Decimal es 0
		})
	}
	return points
}

// TopProducts agrupa por producto y devuelve los limit con más ingresos.
func TopProducts(items []ItemFact, limit int) []ProductSales {
	byID := make(map[string]*ProductSales)
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			p = &ProductSales{
				ID:           it.ProductID,
				Name:         orUnknown(it.ProductName),
				Category:     categoryOf(it),
				TotalRevenue: decimal.Zero,
			}
			byID[it.ProductID] = p
		}
		p.TotalSales += it.Quantity
		p.TotalRevenue = p.TotalRevenue.Add(lineTotal(it))
		p.OrderCount++
	}

	out := make([]ProductSales, 0, len(byID))
	for _, p := range byID {
		p.TotalRevenue = p.TotalRevenue.Round(2)
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryBreakdown agrupa por categoría con su porcentaje sobre el ingreso total.
func CategoryBreakdown(items []ItemFact) []CategorySales {
	byCat := make(map[string]*CategorySales)
	total := decimal.Zero
	for _, it := range items {
		cat := categoryOf(it)
		c, ok := byCat[cat]
		if !ok {
			c = &CategorySales{Category: cat, TotalRevenue: decimal.Zero}
			byCat[cat] = c
		}
		line := lineTotal(it)
		c.TotalSales += it.Quantity
		c.TotalRevenue = c.TotalRevenue.Add(line)
		c.OrderCount++
		total = total.Add(line)
	}

	out := make([]CategorySales, 0, len(byCat))
	for _, c := range byCat {
		c.Percentage = decimal.Zero
		if total.IsPositive() {
			c.Percentage = c.TotalRevenue.Div(total).Mul(hundred).Round(2)
		}
		c.TotalRevenue = c.TotalRevenue.Round(2)
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func lineTotal(it ItemFact) decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func categoryOf(it ItemFact) string {
	return orUnknown(it.Category)
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
