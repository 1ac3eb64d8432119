package audit

import (
	"time"

	"production-manager/internal/database"
	"production-manager/internal/httpx"
	"production-manager/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LogResponse struct {
	ID          string  `json:"id"`
	ProductID   *string `json:"product_id"`
	ProductName string  `json:"product_name"`
	Action      string  `json:"action"`
	Timestamp   string  `json:"timestamp"`
}

func ToResponse(l models.ProductionLog) LogResponse {
	return LogResponse{
		ID:          l.ID,
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		Action:      l.Action,
		Timestamp:   l.Timestamp.UTC().Format(time.RFC3339),
	}
}

// GET /api/logs
func ListLogsHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var logs []models.ProductionLog
		err := pool.WithConn(c.UserContext(), func(db *gorm.DB) error {
			var err error
			logs, err = ListLogs(db)
			return err
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		resp := make([]LogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, ToResponse(l))
		}
		return c.JSON(resp)
	}
}
