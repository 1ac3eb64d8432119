package models

type Material struct {
	ID       string `gorm:"primaryKey;size:36"`
	Name     string `gorm:"size:255;not null"`
	Quantity int    `gorm:"not null"`
	Unit     string `gorm:"size:50;not null"` // kg, meters, board feet...
	Supplier string `gorm:"size:255;not null"`
}
