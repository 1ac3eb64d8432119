package inventory

import (
	"fmt"

	"production-manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRow is a product together with its linked materials, both lists
// ordered by material id.
type ProductRow struct {
	models.Product
	MaterialIDs   []string
	MaterialNames []string
}

type materialLink struct {
	ProductID    string
	MaterialID   string
	MaterialName string
}

// LoadProducts returns every product ordered by id with its material links.
func LoadProducts(db *gorm.DB) ([]ProductRow, error) {
	var products []models.Product
	if err := db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var links []materialLink
	err := db.Table("product_materials AS pm").
		Select("pm.product_id, pm.material_id, m.name AS material_name").
		Joins("JOIN materials m ON m.id = pm.material_id").
		Order("pm.product_id, pm.material_id").
		Scan(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list product materials: %w", err)
	}

	byProduct := make(map[string][]materialLink, len(products))
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l)
	}

	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		row := ProductRow{
			Product:       p,
			MaterialIDs:   []string{},
			MaterialNames: []string{},
		}
		for _, l := range byProduct[p.ID] {
			row.MaterialIDs = append(row.MaterialIDs, l.MaterialID)
			row.MaterialNames = append(row.MaterialNames, l.MaterialName)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// insertLinks adds one junction row per material id.
func insertLinks(tx *gorm.DB, productID string, materialIDs []string) error {
	if len(materialIDs) == 0 {
		return nil
	}
	links := make([]models.ProductMaterial, 0, len(materialIDs))
	for _, id := range materialIDs {
		links = append(links, models.ProductMaterial{ProductID: productID, MaterialID: id})
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return fmt.Errorf("link materials: %w", err)
	}
	return nil
}

// replaceLinks drops every junction row of the product and inserts the new
// set. It does not diff against the previous links.
func replaceLinks(tx *gorm.DB, productID string, materialIDs []string) error {
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductMaterial{}).Error; err != nil {
		return fmt.Errorf("unlink materials: %w", err)
	}
	return insertLinks(tx, productID, materialIDs)
}
