package inventory

import (
	"encoding/json"
	"fmt"
	"time"

	"production-manager/internal/audit"
	"production-manager/internal/database"
	"production-manager/internal/httpx"
	"production-manager/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	EstimatedCost float64  `json:"estimated_cost"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
	Materials     []string `json:"materials"`
}

type CreateProductRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	EstimatedCost Decimal  `json:"estimatedCost"`
	Status        string   `json:"status"`
	Materials     []string `json:"materials"`
}

const (
	msgProductAdded   = "Product added successfully"
	msgProductUpdated = "Product updated successfully"
	msgProductDeleted = "Product deleted successfully"
	msgNoProduct      = "No product to update"
	msgNoFields       = "No fields to update"
)

// GET /api/products
func ListProductsHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []ProductRow
		err := pool.WithConn(c.UserContext(), func(db *gorm.DB) error {
			var err error
			rows, err = LoadProducts(db)
			return err
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		res := make([]ProductResponse, 0, len(rows))
		for _, r := range rows {
			res = append(res, ToProductResponse(r))
		}
		return c.JSON(res)
	}
}

func ToProductResponse(r ProductRow) ProductResponse {
	return ProductResponse{
		ID:            r.ID,
		Name:          r.Name,
		Type:          r.Type,
		EstimatedCost: r.EstimatedCost,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		Materials:     r.MaterialIDs,
	}
}

// POST /api/products
// Product row, material links and the "Product created" log entry commit
// together or not at all.
func CreateProductHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, httpx.MsgInvalidBody)
		}

		p := models.Product{
			ID:            body.ID,
			Name:          body.Name,
			Type:          body.Type,
			EstimatedCost: float64(body.EstimatedCost),
			Status:        models.ProductStatus(body.Status),
		}

		err := pool.WithTx(c.UserContext(), func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
				return fmt.Errorf("create product: %w", err)
			}
			if err := insertLinks(tx, p.ID, body.Materials); err != nil {
				return err
			}
			_, err := audit.WriteLog(tx, audit.LogOptions{
				ProductID:   &p.ID,
				ProductName: p.Name,
				Action:      models.ActionProductCreated,
			})
			return err
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		return httpx.Message(c, fiber.StatusCreated, msgProductAdded)
	}
}

// PUT /api/products/:id
// Only allow-listed fields are written. A materials list replaces every
// existing link. A payload without any allow-listed field writes nothing.
func UpdateProductHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Params("id"))

		var payload map[string]json.RawMessage
		if err := c.BodyParser(&payload); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, httpx.MsgInvalidBody)
		}

		updates, err := collectUpdates(payload, productPatchFields)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(updates) == 0 {
			return httpx.Message(c, fiber.StatusOK, msgNoFields)
		}

		var materialIDs []string
		rawMaterials, replaceMaterials := payload["materials"]
		if replaceMaterials {
			if materialIDs, err = decodeIDs(rawMaterials); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		productName := models.UnknownProductName
		if name, ok := updates["name"].(string); ok {
			productName = name
		}

		found := true
		err = pool.WithTx(c.UserContext(), func(tx *gorm.DB) error {
			res := tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return fmt.Errorf("update product: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				found = false
				return nil
			}

			if replaceMaterials {
				if err := replaceLinks(tx, id, materialIDs); err != nil {
					return err
				}
			}

			_, err := audit.WriteLog(tx, audit.LogOptions{
				ProductID:   &id,
				ProductName: productName,
				Action:      models.ActionProductUpdated,
			})
			return err
		})
		if err != nil {
			return httpx.StoreError(err)
		}
		if !found {
			return httpx.Message(c, fiber.StatusOK, msgNoProduct)
		}

		return httpx.Message(c, fiber.StatusOK, msgProductUpdated)
	}
}

// DELETE /api/products/:id
// The log entry keeps the product name; its product_id is left null.
func DeleteProductHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Params("id"))

		err := pool.WithTx(c.UserContext(), func(tx *gorm.DB) error {
			var current models.Product
			if err := tx.Select("name").Where("id = ?", id).Limit(1).Find(&current).Error; err != nil {
				return fmt.Errorf("read product: %w", err)
			}
			name := current.Name
			if name == "" {
				name = models.UnknownProductName
			}

			if err := tx.Where("id = ?", id).Delete(&models.Product{}).Error; err != nil {
				return fmt.Errorf("delete product: %w", err)
			}

			_, err := audit.WriteLog(tx, audit.LogOptions{
				ProductName: name,
				Action:      audit.DeletedAction(name),
			})
			return err
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		return httpx.Message(c, fiber.StatusOK, msgProductDeleted)
	}
}
