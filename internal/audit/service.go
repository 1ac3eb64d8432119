package audit

import (
	"fmt"

	"production-manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogOptions struct {
	// ProductID is nil for entries whose product no longer exists.
	ProductID   *string
	ProductName string
	Action      string
}

// WriteLog appends one production log row using tx, so the entry commits
// or rolls back together with the mutation it describes. Ids come from a
// random UUID and never from the product id.
func WriteLog(tx *gorm.DB, opts LogOptions) (*models.ProductionLog, error) {
	name := opts.ProductName
	if name == "" {
		name = models.UnknownProductName
	}

	entry := models.ProductionLog{
		ID:          uuid.NewString(),
		ProductID:   opts.ProductID,
		ProductName: name,
		Action:      opts.Action,
	}

	if err := tx.Omit("Product").Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("write production log: %w", err)
	}
	return &entry, nil
}

// DeletedAction is the action text recorded when a product is removed.
func DeletedAction(productName string) string {
	return fmt.Sprintf("Product '%s' deleted", productName)
}

// ListLogs returns every production log row, newest first.
func ListLogs(db *gorm.DB) ([]models.ProductionLog, error) {
	var logs []models.ProductionLog
	if err := db.Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).Order("id").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list production logs: %w", err)
	}
	return logs, nil
}
