package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelardi/polisbot/internal/application/common"
)

// GormOrderLog is the GORM-backed audit log of submitted orders.
type GormOrderLog struct {
	db *gorm.DB
}

func NewGormOrderLog(db *gorm.DB) *GormOrderLog {
	return &GormOrderLog{db: db}
}

// Record appends the submitted orders in one transaction.
func (r *GormOrderLog) Record(ctx context.Context, orders []common.SubmittedOrder) error {
	if len(orders) == 0 {
		return nil
	}

	models := make([]OrderLogModel, len(orders))
	for i, o := range orders {
		models[i] = OrderLogModel{
			RunID:       o.RunID,
			CityID:      o.CityID,
			CityName:    o.CityName,
			Position:    o.Position,
			UnitID:      o.UnitID,
			Quantity:    o.Quantity,
			SubmittedAt: o.SubmittedAt,
		}
	}

	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("failed to record orders: %w", err)
	}
	return nil
}

// ByRun returns every recorded order for a run, oldest first.
func (r *GormOrderLog) ByRun(ctx context.Context, runID string) ([]common.SubmittedOrder, error) {
	var models []OrderLogModel
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for run %s: %w", runID, err)
	}

	orders := make([]common.SubmittedOrder, len(models))
	for i, m := range models {
		orders[i] = common.SubmittedOrder{
			RunID:       m.RunID,
			CityID:      m.CityID,
			CityName:    m.CityName,
			Position:    m.Position,
			UnitID:      m.UnitID,
			Quantity:    m.Quantity,
			SubmittedAt: m.SubmittedAt,
		}
	}
	return orders, nil
}
