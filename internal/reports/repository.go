package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
)

// Repository answers aggregate questions about a tenant's sales and staff.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SalesTotals sums completed sales in [from, to).
func (r *Repository) SalesTotals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, int64, error) {
	type totalsRow struct {
		Total decimal.NullDecimal
		Count int64
	}
	var row totalsRow
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("SUM(total) AS total, COUNT(*) AS count").
		Where("tenant_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			tenantID, enums.TransactionStatusCompleted, from, to).
		Scan(&row).
		Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	if row.Total.Valid {
		total = row.Total.Decimal
	}
	return total, row.Count, nil
}

// LowStockCount counts active products at or below their restock threshold.
func (r *Repository) LowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("tenant_id = ? AND is_active = ? AND stock <= min_stock", tenantID, true).
		Count(&count).
		Error
	return count, err
}

// ActiveStaffCount counts active users for the tenant.
func (r *Repository) ActiveStaffCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Count(&count).
		Error
	return count, err
}

// SalesByDay buckets completed sales in [from, to) by calendar day. Rows are
// grouped in Go, in from's location, so the day boundary matches the window
// the caller built on every database driver.
func (r *Repository) SalesByDay(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]DailySales, error) {
	type saleRow struct {
		CreatedAt time.Time
		Total     decimal.Decimal
	}
	var rows []saleRow
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("created_at, total").
		Where("tenant_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			tenantID, enums.TransactionStatusCompleted, from, to).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailySales)
	for _, row := range rows {
		day := row.CreatedAt.In(from.Location()).Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &DailySales{Date: day}
			byDay[day] = bucket
		}
		bucket.Total = bucket.Total.Add(row.Total)
		bucket.Count++
	}

	result := make([]DailySales, 0, len(byDay))
	for _, bucket := range byDay {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
