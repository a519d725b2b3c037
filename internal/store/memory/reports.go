package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	report "github.com/Stylish87l/RetailFlow/internal/reports"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
)

// ReportView adapts the store to the report store interface.
type ReportView struct {
	s *Store
}

// Reports returns the reporting view of the store.
func (s *Store) Reports() *ReportView {
	return &ReportView{s: s}
}

// SalesTotals sums completed sales in [from, to).
func (v *ReportView) SalesTotals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	total := decimal.Zero
	var count int64
	for _, txn := range v.s.transactions {
		if txn.TenantID != tenantID || txn.Status != enums.TransactionStatusCompleted {
			continue
		}
		if txn.CreatedAt.Before(from) || !txn.CreatedAt.Before(to) {
			continue
		}
		total = total.Add(txn.Total)
		count++
	}
	return total, count, nil
}

// LowStockCount counts active products at or below their restock threshold.
func (v *ReportView) LowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var count int64
	for _, product := range v.s.products {
		if product.TenantID == tenantID && product.IsActive && product.Stock <= product.MinStock {
			count++
		}
	}
	return count, nil
}

// ActiveStaffCount counts active users for the tenant.
func (v *ReportView) ActiveStaffCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var count int64
	for _, user := range v.s.users {
		if user.TenantID == tenantID && user.IsActive {
			count++
		}
	}
	return count, nil
}

// SalesByDay buckets completed sales in [from, to) by calendar day, in
// from's location so buckets line up with the requested window.
func (v *ReportView) SalesByDay(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]report.DailySales, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	byDay := make(map[string]*report.DailySales)
	for _, txn := range v.s.transactions {
		if txn.TenantID != tenantID || txn.Status != enums.TransactionStatusCompleted {
			continue
		}
		if txn.CreatedAt.Before(from) || !txn.CreatedAt.Before(to) {
			continue
		}
		day := txn.CreatedAt.In(from.Location()).Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &report.DailySales{Date: day}
			byDay[day] = bucket
		}
		bucket.Total = bucket.Total.Add(txn.Total)
		bucket.Count++
	}
	result := make([]report.DailySales, 0, len(byDay))
	for _, bucket := range byDay {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
