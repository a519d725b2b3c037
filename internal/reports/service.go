package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// Service exposes the dashboard KPIs and the sales report.
type Service interface {
	DashboardKPIs(ctx context.Context, tenantID uuid.UUID) (*KPIs, error)
	SalesReport(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]DailySales, error)
}

// KPIs is the dashboard summary for one tenant.
type KPIs struct {
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodayTransactions int64           `json:"today_transactions"`
	LowStockItems     int64           `json:"low_stock_items"`
	ActiveStaff       int64           `json:"active_staff"`
}

// DailySales is one row of the per-day sales report.
type DailySales struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

type Store interface {
	SalesTotals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, int64, error)
	LowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ActiveStaffCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
	SalesByDay(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]DailySales, error)
}

type service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a report service instance.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("report store required")
	}
	return &service{store: store, now: time.Now}, nil
}

// DashboardKPIs computes the tenant's summary for the current day.
func (s *service) DashboardKPIs(ctx context.Context, tenantID uuid.UUID) (*KPIs, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	sales, count, err := s.store.SalesTotals(ctx, tenantID, dayStart, dayEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales totals")
	}
	lowStock, err := s.store.LowStockCount(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "low stock count")
	}
	staff, err := s.store.ActiveStaffCount(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "active staff count")
	}

	return &KPIs{
		TodaySales:        sales,
		TodayTransactions: count,
		LowStockItems:     lowStock,
		ActiveStaff:       staff,
	}, nil
}

// SalesReport returns per-day totals over completed sales between start and
// end, end inclusive.
func (s *service) SalesReport(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]DailySales, error) {
	if start.IsZero() || end.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required")
	}
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date is before start_date")
	}

	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)

	rows, err := s.store.SalesByDay(ctx, tenantID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales by day")
	}
	return rows, nil
}
