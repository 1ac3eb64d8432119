package models

// ProductMaterial is the junction row between a product and a material.
// Deleting either side removes the link.
type ProductMaterial struct {
	ProductID  string   `gorm:"primaryKey;size:36"`
	MaterialID string   `gorm:"primaryKey;size:36"`
	Product    Product  `gorm:"constraint:OnDelete:CASCADE;"`
	Material   Material `gorm:"constraint:OnDelete:CASCADE;"`
}
