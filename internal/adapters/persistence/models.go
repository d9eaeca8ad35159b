package persistence

import "time"

// OrderLogModel represents the order_log table: one row per unit type of
// every successfully submitted recruitment order. Audit trail only; the
// loop never reads it back to resume.
type OrderLogModel struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID       string    `gorm:"column:run_id;index;not null"`
	CityID      int       `gorm:"column:city_id;not null"`
	CityName    string    `gorm:"column:city_name"`
	Position    int       `gorm:"column:position;not null"`
	UnitID      int       `gorm:"column:unit_id;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	SubmittedAt time.Time `gorm:"column:submitted_at;not null"`
}

func (OrderLogModel) TableName() string {
	return "order_log"
}
