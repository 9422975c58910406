package analytics

import (
	"fmt"
	"time"
)

// Periodos de reporte.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// DateRange rango [From, To] en la zona horaria de la tienda. To es inclusivo.
type DateRange struct {
	From time.Time
	To   time.Time
	Loc  *time.Location
}

func (r DateRange) loc() *time.Location {
	if r.Loc == nil {
		return time.UTC
	}
	return r.Loc
}

// DayRange construye el rango desde las 00:00:00 de from hasta las 23:59:59 de to.
func DayRange(from, to time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := from.In(loc)
	t := to.In(loc)
	start := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc)
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("analytics: from (%s) posterior a to (%s)", start.Format(dateLayout), t.Format(dateLayout))
	}
	return DateRange{From: start, To: end, Loc: loc}, nil
}

// ParseDayRange interpreta fechas YYYY-MM-DD. Vacías: últimos 30 días hasta hoy.
func ParseDayRange(from, to string, now time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc)
	end := today
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("analytics: to inválido, formato esperado YYYY-MM-DD: %w", err)
		}
		end = t
	}
	start := time.Date(end.Year(), end.Month(), end.Day()-29, 0, 0, 0, 0, loc)
	if from != "" {
		f, err := time.ParseInLocation(dateLayout, from, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("analytics: from inválido, formato esperado YYYY-MM-DD: %w", err)
		}
		start = f
	}
	return DayRange(start, end, loc)
}

// Days número de días calendario cubiertos por el rango (inclusivo).
func (r DateRange) Days() int {
	f := r.From.In(r.loc())
	t := r.To.In(r.loc())
	a := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours()/24) + 1
}

// Previous rango inmediatamente anterior con la misma cantidad de días calendario.
func (r DateRange) Previous() DateRange {
	n := r.Days()
	f := r.From.In(r.loc())
	t := r.To.In(r.loc())
	return DateRange{
		From: time.Date(f.Year(), f.Month(), f.Day()-n, 0, 0, 0, 0, r.loc()),
		To:   time.Date(t.Year(), t.Month(), t.Day()-n, 23, 59, 59, 0, r.loc()),
		Loc:  r.Loc,
	}
}

// StartDate fecha inicial YYYY-MM-DD.
func (r DateRange) StartDate() string { return r.From.In(r.loc()).Format(dateLayout) }

// EndDate fecha final YYYY-MM-DD.
func (r DateRange) EndDate() string { return r.To.In(r.loc()).Format(dateLayout) }

// PeriodRange ventana de un reporte:
//   - daily: hoy 00:00:00 – 23:59:59
//   - weekly: domingo de la semana actual 00:00 – ahora
//   - monthly: día 1 del mes 00:00 – ahora
func PeriodRange(period string, now time.Time, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	switch period {
	case PeriodDaily:
		return DateRange{
			From: time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc),
			To:   time.Date(n.Year(), n.Month(), n.Day(), 23, 59, 59, 0, loc),
			Loc:  loc,
		}, nil
	case PeriodWeekly:
		return DateRange{
			From: time.Date(n.Year(), n.Month(), n.Day()-int(n.Weekday()), 0, 0, 0, 0, loc),
			To:   n,
			Loc:  loc,
		}, nil
	case PeriodMonthly:
		return DateRange{
			From: time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc),
			To:   n,
			Loc:  loc,
		}, nil
	}
	return DateRange{}, fmt.Errorf("analytics: periodo desconocido %q", period)
}

// IsValidPeriod indica si period es daily, weekly o monthly.
func IsValidPeriod(period string) bool {
	return period == PeriodDaily || period == PeriodWeekly || period == PeriodMonthly
}
