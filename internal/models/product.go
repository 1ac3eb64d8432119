package models

import "time"

type ProductStatus string

// Statuses used by the production front end. The backend stores any value.
const (
	ProductStatusPending    ProductStatus = "pending"
	ProductStatusInProgress ProductStatus = "in-progress"
	ProductStatusCompleted  ProductStatus = "completed"
)

type Product struct {
	ID            string        `gorm:"primaryKey;size:36"`
	Name          string        `gorm:"size:255;not null"`
	Type          string        `gorm:"size:255;not null"`
	EstimatedCost float64       `gorm:"type:decimal(10,2);not null"`
	Status        ProductStatus `gorm:"size:20;not null"`
	CreatedAt     time.Time
}
