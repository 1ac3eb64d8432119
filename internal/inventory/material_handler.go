package inventory

import (
	"encoding/json"
	"fmt"

	"production-manager/internal/database"
	"production-manager/internal/httpx"
	"production-manager/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"gorm.io/gorm"
)

type MaterialResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	Supplier string `json:"supplier"`
}

type CreateMaterialRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity Integer `json:"quantity"`
	Unit     string  `json:"unit"`
	Supplier string  `json:"supplier"`
}

const (
	msgMaterialAdded   = "Material added successfully"
	msgMaterialUpdated = "Material updated successfully"
	msgMaterialDeleted = "Material deleted successfully"
)

func ToMaterialResponse(m models.Material) MaterialResponse {
	return MaterialResponse{
		ID:       m.ID,
		Name:     m.Name,
		Quantity: m.Quantity,
		Unit:     m.Unit,
		Supplier: m.Supplier,
	}
}

// LoadMaterials returns every material ordered by id.
func LoadMaterials(db *gorm.DB) ([]models.Material, error) {
	var materials []models.Material
	if err := db.Order("id").Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}

// GET /api/materials
func ListMaterialsHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		err := pool.WithConn(c.UserContext(), func(db *gorm.DB) error {
			var err error
			materials, err = LoadMaterials(db)
			return err
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		res := make([]MaterialResponse, 0, len(materials))
		for _, m := range materials {
			res = append(res, ToMaterialResponse(m))
		}
		return c.JSON(res)
	}
}

// POST /api/materials
func CreateMaterialHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, httpx.MsgInvalidBody)
		}

		m := models.Material{
			ID:       body.ID,
			Name:     body.Name,
			Quantity: int(body.Quantity),
			Unit:     body.Unit,
			Supplier: body.Supplier,
		}

		err := pool.WithTx(c.UserContext(), func(tx *gorm.DB) error {
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("create material: %w", err)
			}
			return nil
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		return httpx.Message(c, fiber.StatusCreated, msgMaterialAdded)
	}
}

// PUT /api/materials/:id
func UpdateMaterialHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Params("id"))

		var payload map[string]json.RawMessage
		if err := c.BodyParser(&payload); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, httpx.MsgInvalidBody)
		}

		updates, err := collectUpdates(payload, materialPatchFields)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(updates) == 0 {
			return httpx.Message(c, fiber.StatusOK, msgNoFields)
		}

		err = pool.WithTx(c.UserContext(), func(tx *gorm.DB) error {
			if err := tx.Model(&models.Material{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("update material: %w", err)
			}
			return nil
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		return httpx.Message(c, fiber.StatusOK, msgMaterialUpdated)
	}
}

// DELETE /api/materials/:id
// Links to products go with it through the foreign key.
func DeleteMaterialHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Params("id"))

		err := pool.WithTx(c.UserContext(), func(tx *gorm.DB) error {
			if err := tx.Where("id = ?", id).Delete(&models.Material{}).Error; err != nil {
				return fmt.Errorf("delete material: %w", err)
			}
			return nil
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		return httpx.Message(c, fiber.StatusOK, msgMaterialDeleted)
	}
}
