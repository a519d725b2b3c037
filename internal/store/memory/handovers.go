package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
)

// HandoverView adapts the store to the handover store interface.
type HandoverView struct {
	s *Store
}

// Handovers returns the handover-facing view of the store.
func (s *Store) Handovers() *HandoverView {
	return &HandoverView{s: s}
}

// CreateHandover inserts a handover row.
func (v *HandoverView) CreateHandover(ctx context.Context, handover *models.CashHandover) (*models.CashHandover, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if handover.ID == uuid.Nil {
		handover.ID = uuid.New()
	}
	handover.CreatedAt = v.s.now()
	v.s.handovers[handover.ID] = copyHandover(*handover)
	return handover, nil
}

// FindByID loads a handover by tenant and primary key.
func (v *HandoverView) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CashHandover, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	handover, ok := v.s.handovers[id]
	if !ok || handover.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	out := copyHandover(handover)
	return &out, nil
}

// UpdateHandover saves mutations on an existing handover row.
func (v *HandoverView) UpdateHandover(ctx context.Context, handover *models.CashHandover) (*models.CashHandover, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	existing, ok := v.s.handovers[handover.ID]
	if !ok || existing.TenantID != handover.TenantID {
		return nil, gorm.ErrRecordNotFound
	}
	v.s.handovers[handover.ID] = copyHandover(*handover)
	return handover, nil
}

// ListByTenant returns the tenant's handovers, newest shift first.
func (v *HandoverView) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.CashHandover, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	rows := []models.CashHandover{}
	for _, handover := range v.s.handovers {
		if handover.TenantID == tenantID {
			rows = append(rows, copyHandover(handover))
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ShiftDate.Equal(rows[j].ShiftDate) {
			return rows[i].ID.String() > rows[j].ID.String()
		}
		return rows[i].ShiftDate.After(rows[j].ShiftDate)
	})
	return rows, nil
}
