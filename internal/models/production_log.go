package models

import "time"

const (
	ActionProductCreated = "Product created"
	ActionProductUpdated = "Product updated"

	// UnknownProductName is stored when the product name is not available.
	UnknownProductName = "Unknown product"
)

// ProductionLog is an append-only history row. ProductName is a snapshot so
// the entry stays readable after the product is gone; ProductID is nulled
// by the store when the product is deleted.
type ProductionLog struct {
	ID          string    `gorm:"primaryKey;size:36"`
	ProductID   *string   `gorm:"size:36;index"`
	Product     *Product  `gorm:"constraint:OnDelete:SET NULL;"`
	ProductName string    `gorm:"size:255;not null"`
	Action      string    `gorm:"size:255;not null"`
	Timestamp   time.Time `gorm:"autoCreateTime;index"`
}

func (ProductionLog) TableName() string {
	return "production_logs"
}
